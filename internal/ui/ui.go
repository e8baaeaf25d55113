// Package ui is the Bubble Tea terminal interface: an almanac dashboard,
// a sky view, a top-down orbit plot and a body tracker.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/version"
)

// ViewMode selects the active view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewSky
	ViewOrbit
	ViewTrack
	viewCount
)

// views lists each view's tab title and footer help, indexed by ViewMode.
var views = [viewCount]struct {
	title string
	help  string
}{
	ViewDashboard: {"Almanac", "↑↓: select | R: refresh | tab: switch view | q: quit"},
	ViewSky:       {"Sky", "j/k: focus | l: labels | t: stars"},
	ViewOrbit:     {"Orbit", "j/k: focus | n/N: comets | m: comets on/off | +/-: zoom | arrows: pan | f: find | l: labels | z: mode | t: stars"},
	ViewTrack:     {"Track", "j/k: body"},
}

// viewKeys jump straight to a view.
var viewKeys = map[string]ViewMode{
	"1": ViewDashboard, "d": ViewDashboard,
	"2": ViewSky, "s": ViewSky,
	"3": ViewOrbit, "o": ViewOrbit,
	"4": ViewTrack, "v": ViewTrack,
}

const (
	tickInterval  = 500 * time.Millisecond
	frameInterval = 80 * time.Millisecond
	// chromeHeight is the logo, tab bar and footer.
	chromeHeight = 10
)

type (
	// TickMsg polls the state manager.
	TickMsg time.Time

	// AnimTickMsg advances the spinner and shimmer.
	AnimTickMsg time.Time

	// DataUpdateMsg delivers a snapshot from a subscription.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg reports a failed refresh.
	ErrorMsg struct {
		Error error
	}

	refreshedMsg struct {
		snapshot state.Snapshot
	}
)

// Model is the root model. It owns one sub-model per view and routes keys
// to the active one.
type Model struct {
	state    *state.Manager
	provider *ephem.CatalogProvider
	updates  <-chan state.Snapshot

	viewMode      ViewMode
	width, height int
	ready         bool
	animTick      int

	dashboard   DashboardModel
	skyView     SkyViewModel
	solarSystem SolarSystemModel
	track       TrackModel

	snapshot state.Snapshot
}

// New builds the UI over a state manager. The provider places bodies for
// the orbit and track views.
func New(stateMgr *state.Manager, provider *ephem.CatalogProvider) Model {
	return Model{
		state:       stateMgr,
		provider:    provider,
		dashboard:   NewDashboardModel(),
		skyView:     NewSkyViewModel(),
		solarSystem: NewSolarSystemModel(),
		track:       NewTrackModel(provider),
	}
}

// WithUpdates feeds the model from a snapshot subscription.
func (m Model) WithUpdates(ch <-chan state.Snapshot) Model {
	m.updates = ch
	return m
}

func (m Model) Mode() ViewMode { return m.viewMode }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd(), m.dashboard.Init(), WaitForSnapshot(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		h := msg.Height - chromeHeight
		m.dashboard = m.dashboard.SetSize(msg.Width, h)
		m.skyView = m.skyView.SetSize(msg.Width, h)
		m.solarSystem = m.solarSystem.SetSize(msg.Width, h)
		m.track = m.track.SetSize(msg.Width, h)
		return m, nil

	case TickMsg:
		// Without a subscription this is how refreshes reach the UI.
		if m.state != nil {
			if snap := m.state.Snapshot(); snap.LastUpdate.After(m.snapshot.LastUpdate) {
				m = m.applySnapshot(snap)
			}
		}
		return m, tickCmd()

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()

	case DataUpdateMsg:
		return m.applySnapshot(msg.Snapshot), WaitForSnapshot(m.updates)

	case refreshedMsg:
		return m.applySnapshot(msg.snapshot), nil

	case ErrorMsg:
		m.dashboard = m.dashboard.SetError(msg.Error)
		return m, nil
	}

	cmd := m.updateActiveView(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if mode, ok := viewKeys[key]; ok {
		if mode == ViewDashboard {
			m.viewMode = mode
		} else {
			m = m.enter(mode)
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.enter((m.viewMode + 1) % viewCount), nil
	case "R":
		return m, refreshCmd(m.state)
	}
	cmd := m.updateActiveView(msg)
	return m, cmd
}

// enter switches views and focuses the dashboard's selected body there.
func (m Model) enter(mode ViewMode) Model {
	if b, ok := m.dashboard.SelectedBody(); ok && mode != m.viewMode {
		switch mode {
		case ViewSky:
			m.skyView = m.skyView.Focus(b.Body)
		case ViewOrbit:
			m.solarSystem.SetFocusByName(b.Body)
		case ViewTrack:
			m.track = m.track.Focus(b.Body)
		}
	}
	m.viewMode = mode
	return m
}

func (m Model) applySnapshot(snap state.Snapshot) Model {
	m.snapshot = snap
	m.dashboard = m.dashboard.UpdateData(snap).SetError(snap.LastError)
	m.skyView = m.skyView.UpdateData(snap)
	m.track = m.track.UpdateData(snap)
	return m.refreshOrbit()
}

// refreshOrbit replots the orbit view at the almanac instant.
func (m Model) refreshOrbit() Model {
	if m.snapshot.Almanac == nil || m.provider == nil {
		return m
	}
	bodies := OrbitBodies(m.provider, m.snapshot.Almanac.JD, m.solarSystem.ShowComets())
	m.solarSystem = m.solarSystem.UpdateData(bodies)
	return m
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewOrbit:
		comets := m.solarSystem.ShowComets()
		m.solarSystem, cmd = m.solarSystem.Update(msg)
		if comets != m.solarSystem.ShowComets() {
			*m = m.refreshOrbit()
		}
	case ViewTrack:
		m.track, cmd = m.track.Update(msg)
	}
	return cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var body string
	switch m.viewMode {
	case ViewSky:
		body = m.skyView.View()
	case ViewOrbit:
		body = m.solarSystem.View()
	case ViewTrack:
		body = m.track.View()
	default:
		body = m.dashboard.View()
	}
	return m.renderLogo() + m.renderTabs() + "\n\n" + body + "\n" + m.renderFooter()
}

var (
	chromeDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	chromeActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	chromeAccent = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	chromeError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
)

var logo = []string{
	` █   ▄▀▀   ▄▀▄ █   █▄ ▄█ ▄▀▄ █▄ █ ▄▀▄ ▄▀▀`,
	` █   ▀▀█ ▀ █▀█ █   █ ▀ █ █▀█ █ ▀█ █▀█ █  `,
	` ▀▀▀ ▀▀▀   ▀ ▀ ▀▀▀ ▀   ▀ ▀ ▀ ▀  ▀ ▀ ▀  ▀▀`,
}

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteByte('\n')
	for row, line := range logo {
		runes := []rune(line)
		b.WriteByte(' ')
		for col, r := range runes {
			c := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(chromeDim.Render("  Sun · Moon · Planets · Eclipses") + "\n")
	b.WriteString(chromeDim.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)) + "\n\n")
	return b.String()
}

// logoStops run blue, violet, magenta, pink across the logo.
var logoStops = []struct {
	at      float64
	r, g, b float64
}{
	{0, 0x3B, 0x82, 0xF6},
	{0.33, 0x8B, 0x5C, 0xF6},
	{0.66, 0xD9, 0x46, 0xEF},
	{1, 0xEC, 0x48, 0x99},
}

// gradientColor is the logo colour at (col, row): the horizontal stops,
// dimmed by up to half toward the bottom row.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	dim := 1 - 0.5*float64(row)/float64(height)

	lo, hi := logoStops[0], logoStops[len(logoStops)-1]
	for i := 1; i < len(logoStops); i++ {
		if x < logoStops[i].at {
			lo, hi = logoStops[i-1], logoStops[i]
			break
		}
	}
	t := 0.0
	if hi.at > lo.at {
		t = (x - lo.at) / (hi.at - lo.at)
	}
	channel := func(a, b float64) int {
		v := (a + t*(b-a)) * dim
		return int(math.Max(0, math.Min(255, v)))
	}
	return fmt.Sprintf("#%02X%02X%02X", channel(lo.r, hi.r), channel(lo.g, hi.g), channel(lo.b, hi.b))
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, viewCount)
	for mode, v := range views {
		label := fmt.Sprintf("[%d] %s", mode+1, v.title)
		if ViewMode(mode) == m.viewMode {
			parts = append(parts, chromeActive.Render("▶ "+label))
		} else {
			parts = append(parts, chromeDim.Render("  "+label))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

func (m Model) renderFooter() string {
	spin := chromeAccent.Render(string(spinnerFrames[m.animTick%len(spinnerFrames)]))

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = chromeError.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.LastUpdate.IsZero():
		status = spin + " " + m.renderShimmerText("Computing almanac...")
	default:
		status = spin + chromeDim.Render(" "+m.refreshStatus())
	}
	return "  " + status + "  " + chromeDim.Render("|") + "  " + chromeDim.Render(views[m.viewMode].help)
}

// refreshStatus counts down to the next scheduled refresh.
func (m Model) refreshStatus() string {
	s := "updated " + m.snapshot.LastUpdate.Format("15:04:05")
	if m.state != nil {
		next := time.Until(m.snapshot.LastUpdate.Add(m.state.RefreshInterval())).Round(time.Second)
		s = fmt.Sprintf("refresh in %ds", int(max(next, 0).Seconds()))
	}
	if d := m.snapshot.ComputeDuration; d > 0 {
		s += " (" + d.Round(time.Microsecond).String() + ")"
	}
	return s
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func animTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return AnimTickMsg(t) })
}

// WaitForSnapshot waits for the next snapshot on ch. A nil or closed
// channel yields no message.
func WaitForSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if snap, ok := <-ch; ok {
			return DataUpdateMsg{Snapshot: snap}
		}
		return nil
	}
}

// refreshCmd recomputes the almanac now.
func refreshCmd(mgr *state.Manager) tea.Cmd {
	if mgr == nil {
		return nil
	}
	return func() tea.Msg {
		if err := mgr.Refresh(time.Now()); err != nil {
			return ErrorMsg{Error: err}
		}
		return refreshedMsg{snapshot: mgr.Snapshot()}
	}
}

// shimmerShades are lavender shades by distance from the moving highlight.
var shimmerShades = []string{"#B4A0DC", "#B4A0DC", "#8C78B4", "#8C78B4", "#6E5A96", "#6E5A96"}

const shimmerBase = "#50467A"

// renderShimmerText sweeps a soft highlight across text as animTick
// advances.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	centre := m.animTick%(len(runes)+8) - 4

	var b strings.Builder
	for i, r := range runes {
		shade := shimmerBase
		if d := i - centre; d >= -len(shimmerShades)+1 && d < len(shimmerShades) {
			shade = shimmerShades[max(d, -d)]
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(shade)).Render(string(r)))
	}
	return b.String()
}
