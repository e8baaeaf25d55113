package ui

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-almanac/internal/state"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	p := testProvider(t)
	cfg := state.DefaultConfig()
	cfg.Site = bostonSite
	m := New(state.NewManager(cfg, p, nil), p)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return next.(Model)
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelViewSwitching(t *testing.T) {
	m := newTestModel(t)
	if m.Mode() != ViewDashboard {
		t.Fatalf("initial mode = %d, want dashboard", m.Mode())
	}

	tests := []struct {
		key  string
		want ViewMode
	}{
		{"2", ViewSky},
		{"3", ViewOrbit},
		{"4", ViewTrack},
		{"1", ViewDashboard},
		{"tab", ViewSky},
		{"tab", ViewOrbit},
		{"tab", ViewTrack},
		{"tab", ViewDashboard},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.Mode() != tt.want {
			t.Errorf("after %q, mode = %d, want %d", tt.key, m.Mode(), tt.want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelDataUpdate(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); !strings.Contains(got, "Computing almanac") {
		t.Errorf("View() before data should say computing")
	}

	snap := testSnapshot(t, m.provider)
	next, _ := m.Update(DataUpdateMsg{Snapshot: snap})
	m = next.(Model)

	if m.snapshot.Almanac != snap.Almanac {
		t.Error("snapshot not stored")
	}
	if len(m.solarSystem.bodies) <= 8 {
		t.Errorf("orbit view has %d bodies, want planets and comets", len(m.solarSystem.bodies))
	}
	if m.skyView.FocusedBody() != "Sun" || m.track.Focused() != "Sun" {
		t.Errorf("views focused %q/%q, want Sun", m.skyView.FocusedBody(), m.track.Focused())
	}

	view := m.View()
	for _, want := range []string{"[1] Almanac", "Jupiter", "v0.", "refresh in"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Hiding comets replots the orbit view
	m = press(t, m, "3")
	m = press(t, m, "m")
	if len(m.solarSystem.bodies) != 8 {
		t.Errorf("orbit view has %d bodies without comets, want 8", len(m.solarSystem.bodies))
	}
}

func TestModelCarriesSelection(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(DataUpdateMsg{Snapshot: testSnapshot(t, m.provider)})
	m = next.(Model)

	// Select Jupiter on the dashboard
	m = press(t, m, "j")
	m = press(t, m, "j")
	if b, _ := m.dashboard.SelectedBody(); b.Body != "Jupiter" {
		t.Fatalf("selected %q, want Jupiter", b.Body)
	}

	m = press(t, m, "2")
	if m.skyView.FocusedBody() != "Jupiter" {
		t.Errorf("sky focused %q, want Jupiter", m.skyView.FocusedBody())
	}
	m = press(t, m, "4")
	if m.track.Focused() != "Jupiter" {
		t.Errorf("track focused %q, want Jupiter", m.track.Focused())
	}
	m = press(t, m, "3")
	if f := m.solarSystem.FocusedBody(); f == nil || f.Name != "Jupiter" {
		t.Errorf("orbit focused %v, want Jupiter", f)
	}
}

func TestModelError(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(ErrorMsg{Error: errors.New("catalog unreadable")})
	m = next.(Model)
	if got := m.View(); !strings.Contains(got, "catalog unreadable") {
		t.Error("error should be shown on the dashboard")
	}
}

func TestModelTickPicksUpRefresh(t *testing.T) {
	m := newTestModel(t)
	if err := m.state.Refresh(time.Date(1986, time.March, 10, 17, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should reschedule itself")
	}
	if m.snapshot.Almanac == nil || !m.state.HasData() {
		t.Error("tick should pick up the refreshed almanac")
	}
}

func TestModelManualRefresh(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	if cmd == nil {
		t.Fatal("R should return a refresh command")
	}
	// The batch wraps a single refresh command
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				msg = c()
			}
		}
	}
	r, ok := msg.(refreshedMsg)
	if !ok {
		t.Fatalf("got %T, want refreshedMsg", msg)
	}
	if r.snapshot.Almanac == nil {
		t.Error("refresh produced no almanac")
	}
}

func TestWaitForSnapshot(t *testing.T) {
	if WaitForSnapshot(nil) != nil {
		t.Error("nil channel should yield no command")
	}

	ch := make(chan state.Snapshot, 1)
	ch <- state.Snapshot{LastUpdate: time.Unix(1, 0)}
	msg, ok := WaitForSnapshot(ch)().(DataUpdateMsg)
	if !ok || msg.Snapshot.LastUpdate.Unix() != 1 {
		t.Errorf("got %+v, want the queued snapshot", msg)
	}

	close(ch)
	if got := WaitForSnapshot(ch)(); got != nil {
		t.Errorf("closed channel yielded %v", got)
	}
}

func TestGradientColor(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for row := 0; row < 3; row++ {
		for col := 0; col < 40; col += 7 {
			if c := gradientColor(col, row, 40, 3); !hex.MatchString(c) {
				t.Errorf("gradientColor(%d, %d) = %q", col, row, c)
			}
		}
	}
	if c := gradientColor(0, 0, 40, 3); c != "#3B82F6" {
		t.Errorf("top-left = %q, want #3B82F6", c)
	}
}

func TestRenderShimmerText(t *testing.T) {
	m := Model{animTick: 3}
	if m.renderShimmerText("") != "" {
		t.Error("empty text should render empty")
	}
	if got := m.renderShimmerText("Computing"); !strings.Contains(stripANSI(got), "Computing") {
		t.Errorf("shimmer lost text: %q", got)
	}
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}
