// Package state provides thread-safe almanac state for the UI and server.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/logging"
)

// EventType names what changed between two refreshes.
type EventType string

const (
	EventRise   EventType = "RISE"
	EventSet    EventType = "SET"
	EventDawn   EventType = "DAWN" // Sun rises through the twilight depression
	EventDusk   EventType = "DUSK" // Sun sinks through the twilight depression
	EventNewDay EventType = "NEW_DAY"
)

// Event represents a change seen between two refreshes.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Body       string    `json:"body,omitempty"`
	AzimuthDeg float64   `json:"azimuth_deg,omitempty"`
	Date       string    `json:"date,omitempty"`
}

// AltitudeSample is one altitude reading of a body.
type AltitudeSample struct {
	At     time.Time
	AltDeg float64
}

// Manager owns the latest almanac and everything derived from successive
// refreshes. It is safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	current         *Almanac
	lastUpdate      time.Time
	lastError       error
	computeDuration time.Duration

	// Previous altitudes and day for event detection
	prevAlt map[string]float64
	prevDay string

	history       map[string][]AltitudeSample
	maxHistoryLen int

	// log holds at most logCap events, oldest first.
	log    []Event
	logCap int

	site     Site
	provider *ephem.CatalogProvider
	logger   *logging.Logger
	interval time.Duration

	subMu       sync.Mutex
	subscribers map[chan Snapshot]struct{}
}

// Config sizes the manager's buffers and sets its refresh cadence.
type Config struct {
	Site            Site
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig refreshes every five seconds and keeps an hour of history.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   720, // an hour at the default refresh
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager. A nil logger discards output.
func NewManager(cfg Config, provider *ephem.CatalogProvider, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	m := &Manager{
		site:          cfg.Site,
		provider:      provider,
		logger:        log,
		maxHistoryLen: cfg.MaxHistoryLen,
		logCap:        cfg.MaxEvents,
		interval:      cfg.RefreshInterval,
		prevAlt:       make(map[string]float64),
		history:       make(map[string][]AltitudeSample),
		subscribers:   make(map[chan Snapshot]struct{}),
	}
	if m.logCap <= 0 {
		m.logCap = DefaultConfig().MaxEvents
	}
	return m
}

// Refresh computes the almanac for now and stores it.
func (m *Manager) Refresh(now time.Time) error {
	site := m.Site()
	began := time.Now()
	a, err := Compute(now, site, m.provider)
	took := time.Since(began)
	m.Update(a, took, err)

	log := m.logger.With("site", siteName(site.Observer))
	if err == nil {
		log.Debug("refreshed almanac in %v", took)
		return nil
	}
	log.Warn("refresh failed: %v", err)
	return err
}

// Run refreshes immediately and then every refresh interval until ctx is
// cancelled. clock supplies the instant to compute for.
func (m *Manager) Run(ctx context.Context, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}
	_ = m.Refresh(clock())

	t := time.NewTicker(m.RefreshInterval())
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_ = m.Refresh(clock())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Update atomically stores a computed almanac.
func (m *Manager) Update(a *Almanac, computeDuration time.Duration, err error) {
	m.mu.Lock()

	m.lastUpdate, m.lastError, m.computeDuration = time.Now(), err, computeDuration

	if a == nil {
		m.mu.Unlock()
		return
	}

	// Crossings compare against the previous refresh, so detect first.
	m.detectEvents(a)

	m.current = a
	m.updateHistory(a)

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
}

// detectEvents compares a new almanac with the previous one.
func (m *Manager) detectEvents(a *Almanac) {
	d := a.Civil.Date
	day := fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, int(d.Day))
	if m.prevDay != "" && day != m.prevDay {
		m.addEvent(Event{Type: EventNewDay, Timestamp: a.Time, Date: day})
	}
	m.prevDay = day

	newAlt := make(map[string]float64)
	for _, b := range a.All() {
		newAlt[b.Body] = b.Horizon.AltDeg
		prev, ok := m.prevAlt[b.Body]
		if !ok {
			continue
		}
		switch {
		case prev <= 0 && b.Horizon.AltDeg > 0:
			m.addEvent(Event{Type: EventRise, Timestamp: a.Time, Body: b.Body, AzimuthDeg: b.Horizon.AzDeg})
		case prev > 0 && b.Horizon.AltDeg <= 0:
			m.addEvent(Event{Type: EventSet, Timestamp: a.Time, Body: b.Body, AzimuthDeg: b.Horizon.AzDeg})
		}
	}

	// Twilight boundary for the Sun
	if prev, ok := m.prevAlt[a.Sun.Body]; ok {
		limit := -a.Twilight.Type.Depression()
		alt := a.Sun.Horizon.AltDeg
		switch {
		case prev <= limit && alt > limit:
			m.addEvent(Event{Type: EventDawn, Timestamp: a.Time, Body: a.Sun.Body})
		case prev > limit && alt <= limit:
			m.addEvent(Event{Type: EventDusk, Timestamp: a.Time, Body: a.Sun.Body})
		}
	}

	m.prevAlt = newAlt
}

// addEvent appends to the log, dropping the oldest entry once it is full.
func (m *Manager) addEvent(e Event) {
	if len(m.log) == m.logCap {
		copy(m.log, m.log[1:])
		m.log = m.log[:len(m.log)-1]
	}
	m.log = append(m.log, e)
	m.logger.Info("%s %s", e.Type, e.Body)
}

func (m *Manager) updateHistory(a *Almanac) {
	if m.maxHistoryLen <= 0 {
		return
	}
	for _, b := range a.All() {
		hist := append(m.history[b.Body], AltitudeSample{At: a.Time, AltDeg: b.Horizon.AltDeg})
		if len(hist) > m.maxHistoryLen {
			hist = hist[1:]
		}
		m.history[b.Body] = hist
	}
}

// Snapshot is a point-in-time copy of the manager. Events is its own slice.
type Snapshot struct {
	Almanac         *Almanac
	LastUpdate      time.Time
	LastError       error
	ComputeDuration time.Duration
	Events          []Event
}

// Snapshot copies the current state under the read lock.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Almanac:         m.current,
		LastUpdate:      m.lastUpdate,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		Events:          m.eventsCopy(),
	}
}

func (m *Manager) eventsCopy() []Event {
	if len(m.log) == 0 {
		return nil
	}
	return append([]Event(nil), m.log...)
}

// RecentEvents returns up to n of the newest events, oldest first.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	from := max(0, len(m.log)-n)
	if from == len(m.log) {
		return nil
	}
	return append([]Event(nil), m.log[from:]...)
}

// AltitudeHistory returns a copy of a body's recorded altitudes.
func (m *Manager) AltitudeHistory(body string) []AltitudeSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if hist := m.history[body]; len(hist) > 0 {
		return append([]AltitudeSample(nil), hist...)
	}
	return nil
}

// Site returns the current site.
func (m *Manager) Site() Site {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.site
}

// SetObserver moves the almanac to a new observer. History and crossing
// detection start over, since altitudes from another site do not compare.
func (m *Manager) SetObserver(obs astro.Observer, zone astro.Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.site.Observer = obs
	m.site.Zone = zone
	m.prevAlt = make(map[string]float64)
	m.history = make(map[string][]AltitudeSample)
}

// RefreshInterval is the period Run uses.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.interval
}

// SetRefreshInterval updates the refresh interval. It takes effect the
// next time Run starts.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	m.interval = d
	m.mu.Unlock()
}

// HasData returns true if at least one refresh succeeded.
func (m *Manager) HasData() bool {
	return m.Snapshot().Almanac != nil
}

// Subscribe returns a channel that receives a snapshot after every
// successful update. Slow subscribers miss snapshots rather than block
// the manager. Call the returned function to unsubscribe.
func (m *Manager) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subscribers, ch)
			m.subMu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) publish(s Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

func siteName(obs astro.Observer) string {
	if obs.Name != "" {
		return obs.Name
	}
	return fmt.Sprintf("%.4f,%.4f", obs.LatDeg, obs.LonDeg)
}
