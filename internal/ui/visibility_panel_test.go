package ui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

func TestTierToBar(t *testing.T) {
	tests := []struct {
		tier  astro.ElevationTier
		bar   string
		color string
	}{
		{astro.ElevationNone, "░░░░", colorVisNone},
		{astro.ElevationLow, "█░░░", colorVisLow},
		{astro.ElevationMedium, "██░░", colorVisMedium},
		{astro.ElevationHigh, "████", colorVisHigh},
	}
	for _, tt := range tests {
		if got := tierToBar(tt.tier); got != tt.bar {
			t.Errorf("tierToBar(%d) = %q, want %q", tt.tier, got, tt.bar)
		}
		if got := tierToColor(tt.tier); got != tt.color {
			t.Errorf("tierToColor(%d) = %q, want %q", tt.tier, got, tt.color)
		}
	}
}

func TestComputeTrack(t *testing.T) {
	p := testProvider(t)
	a := testSnapshot(t, p).Almanac

	tests := []struct {
		body             string
		riseLocal        float64
		setLocal         float64
		peakLo, peakHi   float64
		wantTwoCrossings bool
	}{
		// Unrefracted crossings of the true horizon
		{"Sun", 6.16, 17.66, 42, 45, true},
		{"Sirius", 0, 0, 30, 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			tr, err := ComputeTrack(p, tt.body, a.Site, a.JD)
			if err != nil {
				t.Fatalf("ComputeTrack: %v", err)
			}
			if len(tr.Samples) != 97 {
				t.Errorf("got %d samples, want 97", len(tr.Samples))
			}
			if want := astro.LocalMidnight(a.Civil.Date, a.Site.Zone); tr.Start != want {
				t.Errorf("Start = %v, want %v", tr.Start, want)
			}
			if tt.peakLo > tr.Peak.AltDeg || tr.Peak.AltDeg > tt.peakHi {
				t.Errorf("peak altitude = %.2f, want %v..%v", tr.Peak.AltDeg, tt.peakLo, tt.peakHi)
			}
			if len(tr.Crossings) != 2 {
				t.Fatalf("got %d crossings, want 2", len(tr.Crossings))
			}
			if tt.riseLocal == 0 {
				return
			}
			rise, set := tr.Crossings[0], tr.Crossings[1]
			if !rise.Rising || set.Rising {
				t.Fatalf("crossings out of order: %+v", tr.Crossings)
			}
			if got := float64(rise.JD-tr.Start) * 24; math.Abs(got-tt.riseLocal) > 0.1 {
				t.Errorf("rise at %.3f h, want %.3f", got, tt.riseLocal)
			}
			if got := float64(set.JD-tr.Start) * 24; math.Abs(got-tt.setLocal) > 0.1 {
				t.Errorf("set at %.3f h, want %.3f", got, tt.setLocal)
			}
			panel := RenderTrackPanel(tr)
			for _, want := range []string{"Sun", "Rise 06:", "Peak 1", "Set 17:"} {
				if !strings.Contains(panel, want) {
					t.Errorf("panel %q missing %q", panel, want)
				}
			}
		})
	}

	if _, err := ComputeTrack(p, "Vulcan", a.Site, a.JD); err == nil {
		t.Error("expected an error for an unknown body")
	}
}

// syntheticTrack builds a 24-sample day with the given altitudes.
func syntheticTrack(alts ...float64) BodyTrack {
	tr := BodyTrack{Name: "Test", Start: 2446500.5}
	for i, alt := range alts {
		tr.Samples = append(tr.Samples, astro.AltitudeSample{
			JD:     tr.Start + astro.JulianDate(float64(i)/float64(len(alts)-1)),
			AltDeg: alt,
		})
	}
	tr.Crossings = astro.Crossings(tr.Samples, 0)
	tr.Peak, _ = astro.Culmination(tr.Samples)
	return tr
}

func TestRenderTrackPanel_NoCrossings(t *testing.T) {
	tests := []struct {
		name string
		alts []float64
		want string
	}{
		{"below", []float64{-40, -20, -10, -20, -40}, "Below horizon"},
		{"always up", []float64{20, 40, 60, 40, 20}, "Always visible, 20° to 60°"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderTrackPanel(syntheticTrack(tt.alts...)); !strings.Contains(got, tt.want) {
				t.Errorf("RenderTrackPanel() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := RenderTrackPanel(BodyTrack{}); got != "" {
		t.Errorf("empty track rendered %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	tr := syntheticTrack(-10, -5, 10, 45, 89, 45, 10, -5, -10)

	line := RenderSparkline(tr, 9)
	if n := strings.Count(line, "·"); n != 4 {
		t.Errorf("got %d below-horizon columns, want 4: %q", n, line)
	}
	if !strings.Contains(line, "█") {
		t.Errorf("expected a full bar near the zenith: %q", line)
	}
	if RenderSparkline(BodyTrack{}, 10) != "" || RenderSparkline(tr, 0) != "" {
		t.Error("expected empty sparkline for empty input")
	}
}

func TestRenderSunSeparation(t *testing.T) {
	tests := []struct {
		sep  float64
		want string
		not  string
	}{
		{5, "(warning)", "caution"},
		{15, "(caution)", "warning"},
		{45, "45.0°", "("},
	}
	for _, tt := range tests {
		got := RenderSunSeparation(tt.sep)
		if !strings.Contains(got, tt.want) || strings.Contains(got, tt.not) {
			t.Errorf("RenderSunSeparation(%v) = %q", tt.sep, got)
		}
	}
}

func TestRenderCurrentElevation(t *testing.T) {
	if got := RenderCurrentElevation(-3); !strings.Contains(got, "Below horizon") {
		t.Errorf("got %q", got)
	}
	if got := RenderCurrentElevation(33.4); !strings.Contains(got, "33°") {
		t.Errorf("got %q", got)
	}
}

func TestRenderVisibilityBar(t *testing.T) {
	if RenderVisibilityBar(nil) != "" {
		t.Error("expected empty bar for no bodies")
	}
	bar := RenderVisibilityBar(testSnapshot(t, testProvider(t)).Almanac.All())
	for _, want := range []string{"Sun ", "Moon ", "Jupiter ", "Sirius "} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar %q missing %q", bar, want)
		}
	}
}

func TestTrackModel(t *testing.T) {
	p := testProvider(t)
	snap := testSnapshot(t, p)

	m := NewTrackModel(p).SetSize(100, 30)
	if got := m.View(); !strings.Contains(got, "Computing almanac") {
		t.Errorf("empty View() = %q", got)
	}

	m = m.UpdateData(snap)
	if m.Focused() != "Sun" {
		t.Fatalf("Focused() = %q, want Sun", m.Focused())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.Focused() != "Moon" || m.track.Name != "Moon" {
		t.Errorf("after next, focused %q with track %q", m.Focused(), m.track.Name)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.Focused() != "Sirius" {
		t.Errorf("after wrap, focused %q, want Sirius", m.Focused())
	}

	m = m.Focus("jupiter")
	if m.track.Name != "Jupiter" {
		t.Errorf("track name = %q, want Jupiter", m.track.Name)
	}

	// A refresh keeps the focused body
	m = m.UpdateData(snap)
	if m.Focused() != "Jupiter" {
		t.Errorf("after refresh, focused %q, want Jupiter", m.Focused())
	}

	view := m.View()
	for _, want := range []string{"Altitude track", "Jupiter", "1986-03-10", "sun-sep"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Without data the model keeps the empty state
	if got := NewTrackModel(p).UpdateData(state.Snapshot{}).Focused(); got != "" {
		t.Errorf("Focused() = %q with no almanac", got)
	}
}
