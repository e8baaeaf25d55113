package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/state"
)

// Visibility display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high elevation
	colorVisMedium = "#FFD700" // Gold - medium elevation
	colorVisLow    = "#FF6347" // Tomato - low elevation
	colorVisNone   = "#444444" // Dark gray - below horizon

	// Sun separation colors
	colorSunSafe    = "#7CFC00" // Green - safe (>=20°)
	colorSunCaution = "#FFD700" // Gold - caution (10-20°)
	colorSunWarning = "#FF4500" // Orange-red - warning (<10°)
)

// Track sampling over one civil day.
const (
	trackSpanHours = 24
	trackStepHours = 0.25
)

// sparkRunes maps altitude above the horizon to bar heights.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// BodyTrack is a body's altitude over the civil day containing an instant.
type BodyTrack struct {
	Name      string
	Zone      astro.Zone
	Start     astro.JulianDate // local midnight
	Samples   []astro.AltitudeSample
	Crossings []astro.Crossing
	Peak      astro.AltitudeSample
	Now       astro.JulianDate
	// CurrentAlt is unrefracted and geocentric, matching the samples.
	CurrentAlt float64
	SunSepDeg  float64
}

// ComputeTrack samples name across the civil day of jd at the site.
func ComputeTrack(p *ephem.CatalogProvider, name string, site state.Site, jd astro.JulianDate) (BodyTrack, error) {
	pos, err := p.PositionFunc(name)
	if err != nil {
		return BodyTrack{}, err
	}
	start := astro.LocalMidnight(astro.UniversalToCivil(jd, site.Zone).Date, site.Zone)

	samples, err := astro.AltitudeTrack(site.Observer, pos, start, trackSpanHours, trackStepHours)
	if err != nil {
		return BodyTrack{}, fmt.Errorf("track %s: %w", name, err)
	}
	peak, err := astro.Culmination(samples)
	if err != nil {
		return BodyTrack{}, fmt.Errorf("track %s: %w", name, err)
	}

	eq := pos(jd)
	return BodyTrack{
		Name:       name,
		Zone:       site.Zone,
		Start:      start,
		Samples:    samples,
		Crossings:  astro.Crossings(samples, 0),
		Peak:       peak,
		Now:        jd,
		CurrentAlt: astro.EquatorialToHorizon(eq, site.Observer, jd).AltDeg,
		SunSepDeg:  astro.SolarElongation(eq, jd),
	}, nil
}

// localClock formats jd as local hh:mm on the track's day.
func (t BodyTrack) localClock(jd astro.JulianDate) string {
	h, m := astro.HourMinute(float64(jd-t.Start) * 24)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// RenderTrackPanel renders the rise/peak/set summary of a track.
// Format:
//
//	Jupiter   Rise 22:14   Peak 03:02 @ 58°   Set 07:49
//	Canopus   Below horizon
func RenderTrackPanel(t BodyTrack) string {
	if len(t.Samples) == 0 {
		return ""
	}

	line := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true).Render(fmt.Sprintf("%-10s", t.Name))
	tier := astro.GetElevationTier(t.Peak.AltDeg)

	if len(t.Crossings) == 0 {
		if t.Peak.AltDeg <= 0 {
			return line + siteDimStyle.Render("Below horizon")
		}
		low := t.Samples[0].AltDeg
		for _, s := range t.Samples {
			low = min(low, s.AltDeg)
		}
		return line + colorByTier(tier, fmt.Sprintf("Always visible, %.0f° to %.0f°", low, t.Peak.AltDeg))
	}

	var parts []string
	for _, c := range t.Crossings {
		if c.Rising {
			parts = append(parts, "Rise "+t.localClock(c.JD))
		}
	}
	if t.Peak.AltDeg > 0 {
		parts = append(parts, fmt.Sprintf("Peak %s @ %.0f°", t.localClock(t.Peak.JD), t.Peak.AltDeg))
	}
	for _, c := range t.Crossings {
		if !c.Rising {
			parts = append(parts, "Set "+t.localClock(c.JD))
		}
	}
	return line + colorByTier(tier, strings.Join(parts, "   "))
}

// RenderSparkline renders the track in width columns. Columns below the
// horizon are dotted; the column holding Now is marked.
func RenderSparkline(t BodyTrack, width int) string {
	if len(t.Samples) == 0 || width <= 0 {
		return ""
	}
	var b strings.Builder
	nowCol := -1
	if t.Now >= t.Start && t.Now < t.Start+1 {
		nowCol = int(float64(t.Now-t.Start) * float64(width))
	}
	for col := 0; col < width; col++ {
		i := col * (len(t.Samples) - 1) / max(width-1, 1)
		alt := t.Samples[i].AltDeg
		tier := astro.GetElevationTier(alt)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
		if col == nowCol {
			style = style.Reverse(true)
		}
		if alt <= 0 {
			b.WriteString(style.Render("·"))
			continue
		}
		level := int(alt / 90 * float64(len(sparkRunes)))
		level = max(0, min(level, len(sparkRunes)-1))
		b.WriteString(style.Render(string(sparkRunes[level])))
	}
	return b.String()
}

// RenderVisibilityBar shows each body's name and a four-cell bar for its
// current altitude tier, e.g. "Sun ████   Moon ░░░░".
func RenderVisibilityBar(bodies []state.BodyState) string {
	parts := make([]string, len(bodies))
	for i, b := range bodies {
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("····")
		if b.Valid {
			tier := astro.GetElevationTier(b.Horizon.AltDeg)
			bar = colorByTier(tier, tierToBar(tier))
		}
		parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(b.Body+" ") + bar
	}
	return strings.Join(parts, "   ")
}

// elevationTiers holds the bar and colour of each astro.ElevationTier.
var elevationTiers = [...]struct {
	bar   string
	color string
}{
	astro.ElevationNone:   {"░░░░", colorVisNone},
	astro.ElevationLow:    {"█░░░", colorVisLow},
	astro.ElevationMedium: {"██░░", colorVisMedium},
	astro.ElevationHigh:   {"████", colorVisHigh},
}

func tierToBar(tier astro.ElevationTier) string { return elevationTiers[tier].bar }

func tierToColor(tier astro.ElevationTier) string { return elevationTiers[tier].color }

func colorByTier(tier astro.ElevationTier, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier))).Render(text)
}

// RenderCurrentElevation renders an altitude in its tier colour.
func RenderCurrentElevation(altDeg float64) string {
	text := "Below horizon"
	if altDeg > 0 {
		text = fmt.Sprintf("%.0f°", altDeg)
	}
	return colorByTier(astro.GetElevationTier(altDeg), text)
}

// sunSeparation holds the colour and suffix of each astro.SunSeparationTier.
var sunSeparation = map[astro.SunSeparationTier]struct {
	color  string
	suffix string
}{
	astro.SunSepWarning: {colorSunWarning, " (warning)"},
	astro.SunSepCaution: {colorSunCaution, " (caution)"},
}

// RenderSunSeparation renders the angle from the Sun, flagged when the
// body is too close to observe safely.
func RenderSunSeparation(sepDeg float64) string {
	tier, ok := sunSeparation[astro.GetSunSeparationTier(sepDeg)]
	if !ok {
		tier.color = colorSunSafe
	}
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(tier.color)).Render(fmt.Sprintf("%.1f°", sepDeg) + tier.suffix)
	return siteDimStyle.Render("sun-sep: ") + value
}

// TrackModel shows the altitude track of one body over the civil day.
type TrackModel struct {
	width    int
	height   int
	provider *ephem.CatalogProvider
	snapshot state.Snapshot
	names    []string
	focusIdx int
	track    BodyTrack
	err      error
}

// NewTrackModel creates a track view backed by provider.
func NewTrackModel(provider *ephem.CatalogProvider) TrackModel {
	return TrackModel{provider: provider}
}

func (m TrackModel) SetSize(width, height int) TrackModel {
	m.width, m.height = width, height
	return m
}

// UpdateData recomputes the track from a new snapshot, keeping the focus
// on the same body when it is still tracked.
func (m TrackModel) UpdateData(snapshot state.Snapshot) TrackModel {
	focused := m.Focused()
	m.snapshot = snapshot
	m.names = nil
	if snapshot.Almanac != nil {
		for _, b := range snapshot.Almanac.All() {
			m.names = append(m.names, b.Body)
		}
	}
	m.focusIdx = 0
	for i, n := range m.names {
		if n == focused {
			m.focusIdx = i
		}
	}
	return m.recompute()
}

// Focus selects a body by name. Unknown names are ignored.
func (m TrackModel) Focus(name string) TrackModel {
	for i, n := range m.names {
		if strings.EqualFold(n, name) {
			m.focusIdx = i
			return m.recompute()
		}
	}
	return m
}

// Focused returns the focused body name, or "" before any data.
func (m TrackModel) Focused() string {
	if m.focusIdx < 0 || m.focusIdx >= len(m.names) {
		return ""
	}
	return m.names[m.focusIdx]
}

func (m TrackModel) recompute() TrackModel {
	a := m.snapshot.Almanac
	name := m.Focused()
	if a == nil || name == "" || m.provider == nil {
		m.track = BodyTrack{}
		return m
	}
	m.track, m.err = ComputeTrack(m.provider, name, a.Site, a.JD)
	return m
}

// Update handles body cycling.
func (m TrackModel) Update(msg tea.Msg) (TrackModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.names) == 0 {
		return m, nil
	}
	switch key.String() {
	case "k", "down":
		m.focusIdx = (m.focusIdx + 1) % len(m.names)
		m = m.recompute()
	case "j", "up":
		m.focusIdx = (m.focusIdx - 1 + len(m.names)) % len(m.names)
		m = m.recompute()
	}
	return m, nil
}

// View renders the track view.
func (m TrackModel) View() string {
	if m.snapshot.Almanac == nil {
		return "Computing almanac..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Track error: %v", m.err))
	}

	var b strings.Builder
	a := m.snapshot.Almanac
	b.WriteString(titleStyle.Render(fmt.Sprintf("Altitude track · %s · %s", m.track.Name, dateString(a))))
	b.WriteString("\n\n")
	b.WriteString(RenderTrackPanel(m.track))
	b.WriteString("\n\n")

	width := max(m.width-4, 24)
	b.WriteString(RenderSparkline(m.track, width))
	b.WriteString("\n")
	b.WriteString(timeAxis(width))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Now "))
	b.WriteString(RenderCurrentElevation(m.track.CurrentAlt))
	b.WriteString("   ")
	b.WriteString(RenderSunSeparation(m.track.SunSepDeg))
	b.WriteString("\n\n")
	b.WriteString(RenderVisibilityBar(a.All()))
	b.WriteString("\n")
	return b.String()
}

// dateString returns the almanac's civil date as YYYY-MM-DD.
func dateString(a *state.Almanac) string {
	d := a.Civil.Date
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, int(d.Day))
}

// timeAxis labels a width-column day axis every six hours.
func timeAxis(width int) string {
	axis := []rune(strings.Repeat(" ", width))
	for h := 0; h < 24; h += 6 {
		col := h * width / 24
		for i, r := range fmt.Sprintf("%02d", h) {
			if col+i < width {
				axis[col+i] = r
			}
		}
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(string(axis))
}
