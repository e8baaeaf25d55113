package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/state"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rowUpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D8CFF"))
	rowDownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	rowCursor     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	siteDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	phaseBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C0E8"))
)

// dashColumn is one column of the bodies table. Cells are pre-padded
// except the altitude bar, which carries its own styling.
type dashColumn struct {
	title string
	width int // negative left-aligns
	cell  func(m DashboardModel, b state.BodyState) string
}

var dashColumns = []dashColumn{
	{"Body", -16, func(_ DashboardModel, b state.BodyState) string { return truncate(b.Body, 16) }},
	{"Az", 7, func(_ DashboardModel, b state.BodyState) string { return fmt.Sprintf("%.1f°", b.Horizon.AzDeg) }},
	{"Alt", 6, func(_ DashboardModel, b state.BodyState) string { return fmt.Sprintf("%.1f°", b.Horizon.AltDeg) }},
	{"", -5, func(m DashboardModel, b state.BodyState) string { return m.renderAltitudeBar(b.Horizon.AltDeg) }},
	{"RA", -13, func(_ DashboardModel, b state.BodyState) string { return FormatRA(b.Equatorial.RAHours) }},
	{"Rise", -14, func(_ DashboardModel, b state.BodyState) string { return FormatEventAz(b.Rise) }},
	{"Set", -14, func(_ DashboardModel, b state.BodyState) string { return FormatEventAz(b.Set) }},
	{"Mag", 5, func(_ DashboardModel, b state.BodyState) string { return magnitude(b) }},
}

// pad aligns s in |width| cells, counting runes so degree signs line up.
func pad(s string, width int) string {
	n := width
	if n < 0 {
		n = -n
	}
	gap := n - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if width < 0 {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap) + s
}

// DashboardModel is the almanac table: site summary, one row per body and
// the eclipse outlook.
type DashboardModel struct {
	width, height int
	cursor        int
	snapshot      state.Snapshot
	lastErr       error
}

func NewDashboardModel() DashboardModel { return DashboardModel{} }

func (m DashboardModel) Init() tea.Cmd { return nil }

func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width, m.height = width, height
	return m
}

// UpdateData takes a new snapshot, clamping the cursor if bodies went away.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.cursor = clampCursor(m.cursor, len(m.bodies()))
	return m
}

func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

func (m DashboardModel) bodies() []state.BodyState {
	if m.snapshot.Almanac == nil {
		return nil
	}
	return m.snapshot.Almanac.All()
}

func clampCursor(c, n int) int {
	return max(0, min(c, n-1))
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.bodies())
	switch key.String() {
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = n - 1
	}
	m.cursor = clampCursor(m.cursor, n)
	return m, nil
}

// SelectedBody returns the body under the cursor, if any.
func (m DashboardModel) SelectedBody() (state.BodyState, bool) {
	all := m.bodies()
	if m.cursor < 0 || m.cursor >= len(all) {
		return state.BodyState{}, false
	}
	return all[m.cursor], true
}

func (m DashboardModel) View() string {
	var sections []string
	if m.lastErr != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.lastErr.Error())+"\n")
	}
	a := m.snapshot.Almanac
	switch {
	case a != nil:
		sections = append(sections, m.renderSite(a)+"\n", m.renderBodiesTable(a), m.renderOutlook(a))
	case m.lastErr == nil:
		sections = append(sections, "Computing almanac...\n")
	}
	return strings.Join(sections, "\n")
}

func (m DashboardModel) renderSite(a *state.Almanac) string {
	obs := a.Site.Observer
	zone := a.Site.Zone
	lines := []string{
		titleStyle.Render(siteName(obs)) + "  " + siteDimStyle.Render(latString(obs.LatDeg)+" "+lonString(obs.LonDeg)),
		fmt.Sprintf("  %s  %s  JD %.5f",
			a.Time.In(zoneLocation(zone)).Format("Mon 2006-01-02 15:04:05"),
			siteDimStyle.Render(zoneName(zone)), float64(a.JD)),
		fmt.Sprintf("  LST %s  GST %s  EoT %+.1fm",
			FormatHours(a.Sidereal.Local()), FormatHours(a.Sidereal.Greenwich()), a.EquationOfTime*60),
	}

	tw := a.Twilight
	twl := fmt.Sprintf("  %s twilight  begins %s  ends %s",
		capitalize(tw.Type.String()), FormatEvent(tw.Morning), FormatEvent(tw.Evening))
	if a.IsNight() {
		twl += siteDimStyle.Render("  (night)")
	}
	lines = append(lines, twl,
		fmt.Sprintf("  Moon %s %3.0f%% lit", m.renderPhaseBar(a.Moon.Phase, 10), a.Moon.Phase*100))
	return strings.Join(lines, "\n")
}

// renderPhaseBar draws the illuminated fraction of the Moon in width cells.
func (m DashboardModel) renderPhaseBar(phase float64, width int) string {
	lit := int(math.Round(math.Max(0, math.Min(1, phase)) * float64(width)))
	return "[" + phaseBarStyle.Render(strings.Repeat("█", lit)+strings.Repeat("░", width-lit)) + "]"
}

// rowWindow returns the slice of rows to show so the cursor stays visible.
func (m DashboardModel) rowWindow(n int) (start, end int) {
	rows := max(m.height-12, 5)
	start = max(0, m.cursor-rows+1)
	return start, min(start+rows, n)
}

func (m DashboardModel) renderBodiesTable(a *state.Almanac) string {
	header := make([]string, len(dashColumns))
	for i, c := range dashColumns {
		header[i] = pad(c.title, c.width)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.Join(header, " ")) + "\n")

	bodies := a.All()
	start, end := m.rowWindow(len(bodies))
	for i := start; i < end; i++ {
		body := bodies[i]
		cells := make([]string, len(dashColumns))
		for j, c := range dashColumns {
			cells[j] = pad(c.cell(m, body), c.width)
		}
		row := strings.Join(cells, " ")

		style := rowStyle
		switch {
		case i == m.cursor:
			style = rowCursor
		case body.Up():
			style = rowUpStyle
		}
		b.WriteString(style.Render(row) + "\n")
	}

	if end-start < len(bodies) {
		fmt.Fprintf(&b, "\n  Showing %d-%d of %d bodies\n", start+1, end, len(bodies))
	}
	return b.String()
}

var altitudeRunes = []rune("▁▂▃▄▅▆▇█")

// renderAltitudeBar shows height above the horizon as five equal cells.
func (m DashboardModel) renderAltitudeBar(altDeg float64) string {
	if altDeg <= 0 {
		return rowDownStyle.Render("·····")
	}
	i := min(int(altDeg/90*float64(len(altitudeRunes)-1)), len(altitudeRunes)-1)
	return rowUpStyle.Render(strings.Repeat(string(altitudeRunes[i]), 5))
}

// outlookEvents is how many recent events the dashboard lists.
const outlookEvents = 5

func (m DashboardModel) renderOutlook(a *state.Almanac) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Outlook") + "\n")
	for _, e := range []struct {
		kind, syzygy string
		o            events.EclipseOccurrence
	}{
		{"Lunar", "full moon", a.LunarEclipse},
		{"Solar", "new moon ", a.SolarEclipse},
	} {
		when := e.o.Syzygy.Time().In(zoneLocation(a.Site.Zone)).Format("2006-01-02 15:04")
		fmt.Fprintf(&b, "  %s eclipse %-8s %s %s\n", e.kind, e.o.Status, e.syzygy, when)
	}

	evs := m.snapshot.Events
	if len(evs) == 0 {
		return b.String()
	}
	b.WriteString(titleStyle.Render("Events") + "\n")
	loc := zoneLocation(a.Site.Zone)
	for _, e := range evs[max(0, len(evs)-outlookEvents):] {
		fmt.Fprintf(&b, "  %s %-7s %s\n", e.Timestamp.In(loc).Format("15:04:05"), e.Type, e.Body+e.Date)
	}
	return b.String()
}

func magnitude(b state.BodyState) string {
	if b.Magnitude == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f", b.Magnitude)
}
