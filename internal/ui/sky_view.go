package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

// Camera field of view, degrees.
const (
	fovAz = 120.0
	fovEl = 60.0
)

const (
	glideDuration = 400 * time.Millisecond
	glideFrame    = 30 * time.Millisecond
)

const (
	glyphBody        = '✦'
	glyphBodyFocused = '◆'
	glyphSun         = '☉'
	glyphMoon        = '☾'
	glyphObserver    = '▲'
	glyphHorizon     = '─'
)

const (
	colorSky         lipgloss.Color = "236"
	colorHorizon     lipgloss.Color = "60"
	colorCardinal    lipgloss.Color = "252"
	colorObserver    lipgloss.Color = "46"
	colorBody        lipgloss.Color = "#d0c8ff"
	colorBodyFocused lipgloss.Color = "229"
	colorSun         lipgloss.Color = "220"
	colorMoon        lipgloss.Color = "252"
)

// LabelMode selects which bodies are labelled in the sky and orbit views.
type LabelMode int

const (
	LabelNone LabelMode = iota
	LabelFocused
	LabelAll
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelAll:
		return "all"
	default:
		return "focus"
	}
}

// skyStar is a magnitude class with its glyph.
type skyStar struct {
	brighterThan float64
	glyph        rune
	color        lipgloss.Color
}

var skyStars = []skyStar{
	{1.5, '✶', "255"},
	{3.0, '✸', "250"},
	{4.0, '·', "244"},
	{math.Inf(1), '·', "240"},
}

var cardinals = []struct {
	label string
	az    float64
}{
	{"N", 0}, {"NE", 45}, {"E", 90}, {"SE", 135},
	{"S", 180}, {"SW", 225}, {"W", 270}, {"NW", 315},
}

// SkyViewModel looks at the sky from the observer's site, with a camera
// that glides between bodies.
type SkyViewModel struct {
	width, height int

	camAz, camEl float64

	animating bool
	fromAz    float64
	fromEl    float64
	toAz      float64
	toEl      float64
	glideAt   time.Time

	focusIdx  int
	bodies    []state.BodyState
	observer  astro.Observer
	jd        astro.JulianDate
	labelMode LabelMode
	showStars bool
	stars     astro.StarCatalog
}

// NewSkyViewModel looks south at 45° with stars on.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		camAz:     180,
		camEl:     45,
		labelMode: LabelFocused,
		showStars: true,
		stars:     astro.DefaultStarCatalog(),
	}
}

func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width, m.height = width, height
	return m
}

// UpdateData takes the bodies of a new almanac. The camera follows the
// focused body unless a glide is in progress.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	a := snapshot.Almanac
	if a == nil {
		return m
	}
	m.bodies = a.All()
	m.observer = a.Site.Observer
	m.jd = a.JD
	if m.focusIdx >= len(m.bodies) {
		m.focusIdx = 0
	}
	if !m.animating && len(m.bodies) > 0 {
		m.camAz, m.camEl = cameraFor(m.bodies[m.focusIdx].Horizon)
	}
	return m
}

// Focus points the camera at the named body without a glide.
func (m SkyViewModel) Focus(name string) SkyViewModel {
	if i := m.indexOf(name); i >= 0 {
		m.focusIdx = i
		m.animating = false
		m.camAz, m.camEl = cameraFor(m.bodies[i].Horizon)
	}
	return m
}

func (m SkyViewModel) indexOf(name string) int {
	for i, b := range m.bodies {
		if strings.EqualFold(b.Body, name) {
			return i
		}
	}
	return -1
}

// FocusedBody returns the focused body's name, or "" before any data.
func (m SkyViewModel) FocusedBody() string {
	if b := m.focused(); b != nil {
		return b.Body
	}
	return ""
}

func (m SkyViewModel) focused() *state.BodyState {
	if m.focusIdx >= 0 && m.focusIdx < len(m.bodies) {
		return &m.bodies[m.focusIdx]
	}
	return nil
}

// cameraFor aims at a body, raising the camera for bodies below the
// horizon so the horizon stays in view.
func cameraFor(hz astro.Horizon) (az, el float64) {
	return hz.AzDeg, math.Max(hz.AltDeg, fovEl/2-5)
}

type glideTickMsg time.Time

func glideTick() tea.Cmd {
	return tea.Tick(glideFrame, func(t time.Time) tea.Msg { return glideTickMsg(t) })
}

func (m SkyViewModel) Init() tea.Cmd { return nil }

func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			return m.step(1)
		case "up", "k":
			return m.step(-1)
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars
		}
	case glideTickMsg:
		if m.animating {
			return m.glide(time.Time(msg))
		}
	}
	return m, nil
}

// step moves focus and starts a glide toward the new body.
func (m SkyViewModel) step(delta int) (SkyViewModel, tea.Cmd) {
	n := len(m.bodies)
	if n == 0 {
		return m, nil
	}
	m.focusIdx = ((m.focusIdx+delta)%n + n) % n
	m.animating = true
	m.fromAz, m.fromEl = m.camAz, m.camEl
	m.toAz, m.toEl = cameraFor(m.bodies[m.focusIdx].Horizon)
	m.glideAt = time.Now()
	return m, glideTick()
}

// glide advances the camera with a cubic ease-out.
func (m SkyViewModel) glide(now time.Time) (SkyViewModel, tea.Cmd) {
	f := float64(now.Sub(m.glideAt)) / float64(glideDuration)
	if f >= 1 {
		m.animating = false
		m.camAz, m.camEl = m.toAz, m.toEl
		return m, nil
	}
	f = 1 - math.Pow(1-math.Max(f, 0), 3)
	m.camAz = lerpAngle(m.fromAz, m.toAz, f)
	m.camEl = m.fromEl + (m.toEl-m.fromEl)*f
	return m, glideTick()
}

func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	return m.renderHeader() + "\n" + m.renderSky(m.width, m.height-4) + "\n" + m.renderStatus()
}

func (m SkyViewModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	accent := lipgloss.NewStyle().Foreground(colorBody)
	dim := lipgloss.NewStyle().Foreground(colorHorizon)

	labels := accent
	if m.labelMode == LabelNone {
		labels = dim
	}
	return strings.Join([]string{
		title.Render("Sky View"),
		accent.Render(siteName(m.observer)),
		labels.Render("Labels: " + m.labelMode.String()),
		dim.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl)),
	}, " | ")
}

func (m SkyViewModel) renderStatus() string {
	b := m.focused()
	if b == nil {
		return "No bodies in view"
	}
	head := fmt.Sprintf(">>> %s | Az:%.1f° Alt:%.1f° | RA %s Dec %s",
		b.Body, b.Horizon.AzDeg, b.Horizon.AltDeg,
		FormatRA(b.Equatorial.RAHours), FormatDeg(b.Equatorial.DecDeg))
	if b.Horizon.AltDeg < 0 {
		head += " | below horizon"
	}
	detail := fmt.Sprintf("    rise %s   set %s", FormatEventAz(b.Rise), FormatEventAz(b.Set))
	if b.DistanceAU > 0 {
		detail += fmt.Sprintf("   %.4f AU", b.DistanceAU)
	}
	return lipgloss.NewStyle().Foreground(colorBodyFocused).Render(head) + "\n" +
		lipgloss.NewStyle().Foreground(colorBody).Render(detail)
}

// skyCanvas is a grid of coloured glyphs. The bottom two rows hold the
// horizon and the observer marker.
type skyCanvas struct {
	w, h    int
	glyphs  [][]rune
	colors  [][]lipgloss.Color
	horizon int
}

func newSkyCanvas(w, h int) *skyCanvas {
	c := &skyCanvas{w: w, h: h, horizon: h - 2}
	c.glyphs = make([][]rune, h)
	c.colors = make([][]lipgloss.Color, h)
	for y := range c.glyphs {
		c.glyphs[y] = []rune(strings.Repeat(" ", w))
		c.colors[y] = make([]lipgloss.Color, w)
		for x := range c.colors[y] {
			c.colors[y][x] = colorSky
		}
	}
	return c
}

// sky reports whether (x, y) is above the horizon row.
func (c *skyCanvas) sky(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.horizon
}

func (c *skyCanvas) set(x, y int, r rune, col lipgloss.Color) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.glyphs[y][x] = r
		c.colors[y][x] = col
	}
}

func (c *skyCanvas) text(x, y int, s string, col lipgloss.Color) {
	for i, r := range []rune(s) {
		if c.sky(x+i, y) {
			c.set(x+i, y, r, col)
		}
	}
}

// String renders runs of one colour with a single style.
func (c *skyCanvas) String() string {
	var b strings.Builder
	for y := range c.glyphs {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			run := string(c.glyphs[y][start:x])
			b.WriteString(lipgloss.NewStyle().Foreground(c.colors[y][start]).Render(run))
			start = x
		}
	}
	return b.String()
}

type placedBody struct {
	x, y    int
	name    string
	focused bool
}

func (m SkyViewModel) renderSky(width, height int) string {
	c := newSkyCanvas(width, height)

	if m.showStars && m.jd != 0 {
		for _, star := range m.stars.Stars {
			hz := astro.EquatorialToHorizon(star.Apparent(m.jd), m.observer, m.jd)
			if hz.AltDeg <= 0 {
				continue
			}
			if x, y, ok := m.projectToScreen(hz.AzDeg, hz.AltDeg, width, height); ok && c.sky(x, y) {
				glyph, col := m.starGlyph(star.Mag)
				c.set(x, y, glyph, col)
			}
		}
	}

	for x := 0; x < width; x++ {
		c.set(x, c.horizon, glyphHorizon, colorHorizon)
	}
	for _, cp := range cardinals {
		if x, _, ok := m.projectToScreen(cp.az, 0, width, height); ok {
			for i, r := range cp.label {
				c.set(x+i, c.horizon, r, colorCardinal)
			}
		}
	}

	var placed []placedBody
	for i, b := range m.bodies {
		x, y, ok := m.projectToScreen(b.Horizon.AzDeg, b.Horizon.AltDeg, width, height)
		if !ok || !c.sky(x, y) {
			continue
		}
		glyph, col := bodyGlyph(b.Body, i == m.focusIdx)
		c.set(x, y, glyph, col)
		placed = append(placed, placedBody{x: x, y: y, name: b.Body, focused: i == m.focusIdx})
	}
	m.drawLabels(c, placed)

	c.set(width/2, height-1, glyphObserver, colorObserver)
	return c.String()
}

func bodyGlyph(name string, focused bool) (rune, lipgloss.Color) {
	switch {
	case focused:
		return glyphBodyFocused, colorBodyFocused
	case name == "Sun":
		return glyphSun, colorSun
	case name == "Moon":
		return glyphMoon, colorMoon
	}
	return glyphBody, colorBody
}

// drawLabels writes names to the right of their glyphs. The focused label
// is drawn last so it wins any overlap.
func (m SkyViewModel) drawLabels(c *skyCanvas, placed []placedBody) {
	if m.labelMode == LabelNone {
		return
	}
	var focus *placedBody
	for i, p := range placed {
		if p.focused {
			focus = &placed[i]
			continue
		}
		if m.labelMode == LabelAll {
			c.text(p.x+2, p.y, p.name, colorBody)
		}
	}
	if focus != nil {
		c.text(focus.x+2, focus.y, "◄ "+focus.name, colorBodyFocused)
	}
}

func (m SkyViewModel) starGlyph(mag float64) (rune, lipgloss.Color) {
	for _, s := range skyStars {
		if mag < s.brighterThan {
			return s.glyph, s.color
		}
	}
	last := skyStars[len(skyStars)-1]
	return last.glyph, last.color
}

// projectToScreen maps an azimuth and altitude to a cell relative to the
// camera, linearly across the field of view. ok is false outside it.
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (x, y int, ok bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl
	if math.Abs(dAz) > fovAz/2 || math.Abs(dEl) > fovEl/2 {
		return 0, 0, false
	}
	x = int((dAz/fovAz + 0.5) * float64(width))
	y = int((0.5 - dEl/fovEl) * float64(height-2))
	return x, y, true
}

// normalizeAngle wraps degrees into [-180, 180].
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a < -180:
		a += 360
	}
	return a
}

// lerpAngle interpolates from a toward b the short way round.
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}
