package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// OrbitBody is a body placed in the heliocentric ecliptic frame.
type OrbitBody struct {
	Name string
	Kind ephem.BodyKind
	Pos  astro.Vec3 // heliocentric, AU
	// GeoDistanceAU is the distance from Earth; zero for Earth itself.
	GeoDistanceAU float64
	Giant         bool
}

var giantPlanets = map[string]bool{"Jupiter": true, "Saturn": true, "Uranus": true, "Neptune": true}

// OrbitBodies places Earth, the catalog planets and, optionally, the
// comets at jd. Bodies that fail to evaluate are skipped.
func OrbitBodies(p *ephem.CatalogProvider, jd astro.JulianDate, comets bool) []OrbitBody {
	out := []OrbitBody{{Name: "Earth", Kind: ephem.KindPlanet, Pos: astro.EarthFromSun(jd)}}
	kinds := []ephem.BodyKind{ephem.KindPlanet}
	if comets {
		kinds = append(kinds, ephem.KindComet)
	}
	for _, name := range p.Bodies(kinds...) {
		pos, err := p.PositionAt(name, jd, astro.Observer{})
		if err != nil || pos.Heliocentric == nil {
			continue
		}
		out = append(out, OrbitBody{
			Name:          pos.Body,
			Kind:          pos.Kind,
			Pos:           *pos.Heliocentric,
			GeoDistanceAU: pos.DistanceAU,
			Giant:         giantPlanets[pos.Body],
		})
	}
	return out
}

// Glyphs of the orbit view.
const (
	orbSun          = '☉'
	orbRing         = '·'
	orbPlanet       = '•'
	orbPlanetFocus  = '●'
	orbGiant        = '○'
	orbGiantFocus   = '◉'
	orbComet        = '◇'
	orbCometFocus   = '◆'
	orbFocusPointer = '◄'
	orbStarBright   = '∗'
	orbStarDim      = '˙'
)

// zoomSteps are the discrete zoom factors; defaultZoom indexes 1x.
var zoomSteps = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3

// panStep is the pan distance per key press, in display units.
const panStep = 0.1

// SolarSystemModel is a top-down view of the planets and comets seen from
// the north ecliptic pole, with the Sun at the origin.
type SolarSystemModel struct {
	width, height int
	bodies        []OrbitBody

	focusIdx   int // -1 is the Sun
	zoom       int // index into zoomSteps
	panX, panY float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool // manual panning suspends recentring on zoom
	showStars  bool
	showComets bool
}

// NewSolarSystemModel starts on the Sun at 1x with log scaling.
func NewSolarSystemModel() SolarSystemModel {
	return SolarSystemModel{
		focusIdx:   -1,
		zoom:       defaultZoom,
		scaleMode:  astro.ScaleLogR,
		labelMode:  LabelFocused,
		showStars:  true,
		showComets: true,
	}
}

func (m SolarSystemModel) scale() float64 {
	if m.zoom < 0 || m.zoom >= len(zoomSteps) {
		return 1
	}
	return zoomSteps[m.zoom]
}

func (m SolarSystemModel) projection() astro.ProjectionConfig {
	return astro.ProjectionConfig{Scale: m.scale(), Mode: m.scaleMode}
}

// SetSize updates the viewport size.
func (m SolarSystemModel) SetSize(width, height int) SolarSystemModel {
	m.width, m.height = width, height
	return m
}

// UpdateData replaces the plotted bodies, keeping focus on the same name.
func (m SolarSystemModel) UpdateData(bodies []OrbitBody) SolarSystemModel {
	var focused string
	if b := m.FocusedBody(); b != nil {
		focused = b.Name
	}
	m.bodies = bodies
	if m.focusIdx >= len(bodies) {
		m.focusIdx = -1
	}
	if focused != "" {
		m.SetFocusByName(focused)
	}
	return m
}

// ShowComets reports whether comets should be supplied to UpdateData.
func (m SolarSystemModel) ShowComets() bool {
	return m.showComets
}

// Update handles input messages.
func (m SolarSystemModel) Update(msg tea.Msg) (SolarSystemModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "k", "]":
		m.cycleFocus(1, nil)
	case "j", "[":
		m.cycleFocus(-1, nil)
	case "n":
		m.cycleFocus(1, isComet)
	case "N":
		m.cycleFocus(-1, isComet)
	case "m":
		m.showComets = !m.showComets

	case "up":
		m.pan(0, -1)
	case "down":
		m.pan(0, 1)
	case "left":
		m.pan(-1, 0)
	case "right":
		m.pan(1, 0)
	case "c":
		m.panX, m.panY = 0, 0
		m.userPanned = false
	case "f":
		m.centerOnFocused()
		m.userPanned = false

	case "+", "=":
		m.setZoom(m.zoom + 1)
	case "-":
		m.setZoom(m.zoom - 1)
	case "0":
		m.setZoom(defaultZoom)
	case "z":
		m.scaleMode = (m.scaleMode + 1) % 3
		m.recentre()

	case "l":
		m.labelMode = (m.labelMode + 1) % 3
	case "t":
		m.showStars = !m.showStars
	case "r":
		m.panX, m.panY = 0, 0
		m.zoom = defaultZoom
		m.userPanned = false
	}
	return m, nil
}

func isComet(b OrbitBody) bool { return b.Kind == ephem.KindComet }

// cycleFocus moves focus by step through the Sun and the bodies. With a
// match function the Sun is skipped and only matching bodies are visited;
// focus stays put when none match.
func (m *SolarSystemModel) cycleFocus(step int, match func(OrbitBody) bool) {
	n := len(m.bodies)
	if n == 0 {
		return
	}

	if match == nil {
		// Positions 0..n, where n stands for the Sun.
		slot := m.focusIdx
		if slot < 0 {
			slot = n
		}
		slot = ((slot+step)%(n+1) + n + 1) % (n + 1)
		if slot == n {
			slot = -1
		}
		m.focusIdx = slot
	} else {
		found := false
		for i := 1; i <= n; i++ {
			idx := ((m.focusIdx+step*i)%n + n) % n
			if match(m.bodies[idx]) {
				m.focusIdx = idx
				found = true
				break
			}
		}
		if !found {
			return
		}
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *SolarSystemModel) pan(dx, dy float64) {
	m.panX += dx * panStep
	m.panY += dy * panStep
	m.userPanned = true
}

func (m *SolarSystemModel) setZoom(level int) {
	if level < 0 || level >= len(zoomSteps) {
		return
	}
	m.zoom = level
	m.recentre()
}

// recentre follows the focused body unless the user has panned away.
func (m *SolarSystemModel) recentre() {
	if !m.userPanned {
		m.centerOnFocused()
	}
}

// centerOnFocused pans so the focused body sits at the screen centre.
func (m *SolarSystemModel) centerOnFocused() {
	b := m.FocusedBody()
	if b == nil {
		m.panX, m.panY = 0, 0
		return
	}
	p := astro.ProjectEclipticTopDown(b.Pos, m.projection())
	m.panX, m.panY = -p.X, -p.Y
}

// View renders the orbit plot above the HUD.
func (m SolarSystemModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for solar system view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderCanvas(), m.renderHUD())
}

// orbitCanvas is a character grid with the screen centre and the panned
// solar-system origin.
type orbitCanvas struct {
	cells          [][]rune
	w, h           int
	cx, cy         int
	ox, oy         int
	pixelsPerUnit  float64
	labelPositions []labelAt
}

type labelAt struct {
	x, y    int
	text    string
	focused bool
}

func newOrbitCanvas(w, h int) *orbitCanvas {
	c := &orbitCanvas{w: w, h: h, cx: w / 2, cy: h / 2}
	c.cells = make([][]rune, h)
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c *orbitCanvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

// put writes r at (x, y); free restricts it to blank cells.
func (c *orbitCanvas) put(x, y int, r rune, free bool) bool {
	if !c.inside(x, y) || (free && c.cells[y][x] != ' ') {
		return false
	}
	c.cells[y][x] = r
	return true
}

// screen maps a projected point to a cell. Rows are half as tall as
// columns are wide, and screen y grows downward.
func (c *orbitCanvas) screen(p astro.ProjectedPoint) (int, int) {
	return c.ox + int(p.X*c.pixelsPerUnit), c.oy - int(p.Y*c.pixelsPerUnit*0.5)
}

// ring traces a circle of radius r cells around (x, y).
func (c *orbitCanvas) ring(x, y int, r float64) {
	if r < 1 {
		return
	}
	steps := int(math.Min(math.Max(2*math.Pi*r, 8), 360))
	for i := 0; i < steps; i++ {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		c.put(x+int(r*co), y-int(r*s*0.5), orbRing, true)
	}
}

func (m SolarSystemModel) renderCanvas() string {
	c := newOrbitCanvas(m.width, max(m.height-5, 5))
	cfg := m.projection()

	// log10(30 AU + 1) is about 1.5; fit that into the canvas at 1x.
	// Zoom is already applied by the projection.
	fit := float64(min(c.cx, c.cy*2)) * 0.9
	c.pixelsPerUnit = fit / 1.5
	c.ox = c.cx + int(m.panX*c.pixelsPerUnit)
	c.oy = c.cy - int(m.panY*c.pixelsPerUnit*0.5)

	if m.showStars {
		m.drawStarfield(c.cells, c.cx, c.cy)
	}
	m.drawRings(c, cfg)

	for i, b := range m.bodies {
		x, y := c.screen(astro.ProjectEclipticTopDown(b.Pos, cfg))
		focused := i == m.focusIdx
		if c.put(x, y, m.getBodyGlyph(b, focused), false) {
			c.labelPositions = append(c.labelPositions, labelAt{x: x, y: y, text: b.Name, focused: focused})
		}
	}
	// The Sun goes last so nothing hides it.
	if c.put(c.ox, c.oy, orbSun, false) {
		c.labelPositions = append(c.labelPositions, labelAt{x: c.ox, y: c.oy, text: "Sun", focused: m.focusIdx == -1})
	}

	m.drawLabels(c)
	return renderOrbitCells(c.cells)
}

// drawRings traces the orbit of each planet at its current distance from
// the Sun.
func (m SolarSystemModel) drawRings(c *orbitCanvas, cfg astro.ProjectionConfig) {
	for _, b := range m.bodies {
		if b.Kind != ephem.KindPlanet {
			continue
		}
		r := math.Hypot(b.Pos.X, b.Pos.Y)
		p := astro.ProjectEclipticTopDown(astro.Vec3{X: r}, cfg)
		c.ring(c.ox, c.oy, p.X*c.pixelsPerUnit)
	}
}

// drawStarfield rings the view with the bright stars at their ecliptic
// longitudes, independent of zoom and pan.
func (m SolarSystemModel) drawStarfield(grid [][]rune, cx, cy int) {
	h, w := len(grid), len(grid[0])
	radius := 0.95 * float64(min(cx, cy*2))

	for _, star := range astro.DefaultStarCatalog().Stars {
		glyph := m.starGlyph(star.Mag)
		if glyph == ' ' {
			continue
		}
		lon := astro.EquatorialToEcliptic(star.Equatorial(), astro.J2000).LonDeg * math.Pi / 180
		sx := cx + int(radius*math.Cos(lon))
		sy := cy - int(radius*math.Sin(lon)*0.5)
		if sx >= 0 && sx < w && sy >= 0 && sy < h && grid[sy][sx] == ' ' {
			grid[sy][sx] = glyph
		}
	}
}

// starGlyph picks a glyph by visual magnitude; fainter than 3.5 is not drawn.
func (m SolarSystemModel) starGlyph(mag float64) rune {
	switch {
	case mag <= 1.0:
		return orbStarBright
	case mag <= 2.5:
		return orbRing
	case mag <= 3.5:
		return orbStarDim
	default:
		return ' '
	}
}

// drawLabels writes names one cell right of their glyphs, over blanks and
// ring dots only.
func (m SolarSystemModel) drawLabels(c *orbitCanvas) {
	if m.labelMode == LabelNone {
		return
	}
	for _, l := range c.labelPositions {
		if m.labelMode == LabelFocused && !l.focused {
			continue
		}
		text := l.text
		if l.focused {
			text = string(orbFocusPointer) + " " + text
		}
		x := l.x + 2
		for _, r := range text {
			if !c.inside(x, l.y) {
				break
			}
			if cur := c.cells[l.y][x]; cur == ' ' || cur == orbRing {
				c.cells[l.y][x] = r
			}
			x++
		}
	}
}

func (m SolarSystemModel) getBodyGlyph(body OrbitBody, focused bool) rune {
	var normal, focus rune
	switch {
	case body.Kind == ephem.KindComet:
		normal, focus = orbComet, orbCometFocus
	case body.Kind == ephem.KindPlanet && body.Giant:
		normal, focus = orbGiant, orbGiantFocus
	case body.Kind == ephem.KindPlanet:
		normal, focus = orbPlanet, orbPlanetFocus
	default:
		return '?'
	}
	if focused {
		return focus
	}
	return normal
}

// orbitStyles colours glyphs; anything else is label text.
var (
	orbitStyles = map[rune]lipgloss.Style{
		orbRing:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		orbStarBright:   lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		orbStarDim:      lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		orbSun:          lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		orbPlanet:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		orbGiant:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		orbComet:        lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		orbPlanetFocus:  orbitFocusStyle,
		orbGiantFocus:   orbitFocusStyle,
		orbCometFocus:   orbitFocusStyle,
		orbFocusPointer: orbitFocusStyle,
	}
	orbitFocusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	orbitLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
)

func renderOrbitCells(cells [][]rune) string {
	var b strings.Builder
	for _, row := range cells {
		for _, ch := range row {
			if ch == ' ' {
				b.WriteRune(ch)
				continue
			}
			style, ok := orbitStyles[ch]
			if !ok {
				style = orbitLabelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

var (
	hudHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	hudLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
	hudValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderHUD shows the focused body on the first line and the view
// settings on the second.
func (m SolarSystemModel) renderHUD() string {
	var top, bottom []string
	field := func(line *[]string, label lipgloss.Style, name, value string) {
		*line = append(*line, label.Render(name)+hudValue.Render(value))
	}

	if b := m.FocusedBody(); b != nil {
		top = append(top, hudHeader.Render(fmt.Sprintf("%c %s", orbCometFocus, b.Name)))
		field(&top, hudLabel, "From Sun:", fmt.Sprintf("%.3f AU", b.Pos.Norm()))
		if b.GeoDistanceAU > 0 {
			field(&top, hudLabel, "Light Time:", astro.FormatLightTime(astro.LightTimeFromAU(b.GeoDistanceAU)))
		}
		ecl := b.Pos.Ecliptic()
		field(&bottom, hudLabel, "Ecl Lon:", fmt.Sprintf("%.1f°", ecl.LonDeg))
		field(&bottom, hudLabel, "Ecl Lat:", fmt.Sprintf("%.1f°", ecl.LatDeg))
	} else {
		top = append(top, hudHeader.Render(fmt.Sprintf("%c Sun", orbSun)), hudDim.Render("(center of solar system)"))
	}

	labels := [...]string{LabelNone: "off", LabelFocused: "focus", LabelAll: "all"}
	modes := map[astro.ScaleMode]string{astro.ScaleLogR: "Log", astro.ScaleInner: "Inner", astro.ScaleOuter: "Outer"}
	onOff := map[bool]string{true: "on", false: "off"}

	field(&bottom, hudDim, "Mode:", modes[m.scaleMode])
	field(&bottom, hudDim, "Zoom:", fmt.Sprintf("%.2gx", m.scale()))
	field(&bottom, hudDim, "Labels:", labels[m.labelMode])
	field(&bottom, hudDim, "Stars:", onOff[m.showStars])
	field(&bottom, hudDim, "Comets:", onOff[m.showComets])

	return strings.Join(top, "  ") + "\n" + strings.Join(bottom, "  ")
}

// FocusedBody returns the focused body, or nil for the Sun.
func (m SolarSystemModel) FocusedBody() *OrbitBody {
	if m.focusIdx >= 0 && m.focusIdx < len(m.bodies) {
		return &m.bodies[m.focusIdx]
	}
	return nil
}

// ShowStars returns whether the starfield is visible.
func (m SolarSystemModel) ShowStars() bool {
	return m.showStars
}

// SetFocusByName focuses a body by case-insensitive name. Unknown names
// leave focus unchanged.
func (m *SolarSystemModel) SetFocusByName(name string) {
	for i, body := range m.bodies {
		if strings.EqualFold(body.Name, name) {
			m.focusIdx = i
			return
		}
	}
}
