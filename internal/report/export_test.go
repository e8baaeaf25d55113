package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/elements"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/state"
)

var bostonSite = state.Site{
	Observer: astro.Observer{LatDeg: 42.37, LonDeg: -71.05, Name: "Boston"},
	Zone:     astro.Zone{Hours: -5},
	Solver:   events.DefaultSolverConfig(),
	Twilight: events.Astronomical,
	Bodies:   []string{"Jupiter", "Sirius"},
}

var testNow = time.Date(1986, time.March, 10, 17, 0, 0, 0, time.UTC)

func testSnapshot(t *testing.T) state.Snapshot {
	t.Helper()
	c, err := elements.Default()
	if err != nil {
		t.Fatalf("elements.Default: %v", err)
	}
	p := ephem.NewCatalogProvider(c, ephem.StandardAtmosphere)
	a, err := state.Compute(testNow, bostonSite, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return state.Snapshot{Almanac: a, LastUpdate: testNow.Add(time.Second)}
}

func TestExportSnapshot(t *testing.T) {
	export := ExportSnapshot(testSnapshot(t))

	if !export.Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %v, want %v", export.Timestamp, testNow)
	}
	if export.Site.Name != "Boston" || export.Site.ZoneHours != -5 {
		t.Errorf("Site = %+v", export.Site)
	}
	if export.Twilight.Type != "astronomical" {
		t.Errorf("Twilight type = %q", export.Twilight.Type)
	}
	if len(export.Bodies) != 4 {
		t.Fatalf("Bodies count = %d, want 4", len(export.Bodies))
	}

	sun := export.Bodies[0]
	if sun.Name != "Sun" || sun.Kind != "sun" {
		t.Errorf("first body = %s (%s), want Sun", sun.Name, sun.Kind)
	}
	if sun.Rise.Local != "06:05" || sun.Set.Local != "17:45" {
		t.Errorf("sun rise/set = %s/%s, want 06:05/17:45", sun.Rise.Local, sun.Set.Local)
	}
	if sun.Rise.Time == nil {
		t.Error("sunrise should carry a time")
	}
	if export.Bodies[3].Name != "Sirius" || export.Bodies[3].Kind != "star" {
		t.Errorf("last body = %s (%s), want Sirius star", export.Bodies[3].Name, export.Bodies[3].Kind)
	}

	if len(export.Eclipses) != 2 || export.Eclipses[0].Kind != "lunar" || export.Eclipses[1].Kind != "solar" {
		t.Errorf("Eclipses = %+v", export.Eclipses)
	}
}

func TestExportSnapshot_Nil(t *testing.T) {
	computedAt := time.Now()
	export := ExportSnapshot(state.Snapshot{LastUpdate: computedAt, LastError: errors.New("boom")})

	if !export.ComputedAt.Equal(computedAt) {
		t.Errorf("ComputedAt = %v, want %v", export.ComputedAt, computedAt)
	}
	if len(export.Bodies) != 0 {
		t.Error("Bodies should be empty without an almanac")
	}
	if export.Error != "boom" {
		t.Errorf("Error = %q, want boom", export.Error)
	}
}

func TestExportEvent_NoTime(t *testing.T) {
	e := exportEvent(events.Result{Status: events.Circumpolar, Local: 3})
	if e.Status != "circumpolar" {
		t.Errorf("Status = %q", e.Status)
	}
	if e.Time != nil || e.Local != "" {
		t.Errorf("circumpolar event should carry no time, got %+v", e)
	}
}

func TestSnapshotExport_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportSnapshot(testSnapshot(t)).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := parsed["bodies"]; !ok {
		t.Error("JSON should have a bodies field")
	}
	if !strings.Contains(buf.String(), "  ") {
		t.Error("JSON should be indented")
	}
}

func TestGenerateSummaryRows(t *testing.T) {
	snap := testSnapshot(t)
	rows := GenerateSummaryRows(snap.Almanac)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0].Rise != "06:05" {
		t.Errorf("sun rise cell = %q, want 06:05", rows[0].Rise)
	}
	if !strings.HasSuffix(rows[1].Dist, "km") {
		t.Errorf("moon distance = %q, want km", rows[1].Dist)
	}
	if !strings.HasSuffix(rows[2].Dist, "AU") {
		t.Errorf("jupiter distance = %q, want AU", rows[2].Dist)
	}
	if rows[3].Dist != "-" {
		t.Errorf("star distance = %q, want -", rows[3].Dist)
	}

	if GenerateSummaryRows(nil) != nil {
		t.Error("nil almanac should give no rows")
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, testSnapshot(t))
	output := buf.String()

	for _, want := range []string{"Almanac for Boston", "Twilight (astronomical)", "Jupiter", "Sirius", "06:05"} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestWriteSummaryTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, state.Snapshot{LastError: errors.New("no site")})
	if !strings.Contains(buf.String(), "No almanac") || !strings.Contains(buf.String(), "no site") {
		t.Errorf("empty summary = %q", buf.String())
	}
}

func TestWriteEvents(t *testing.T) {
	evts := []state.Event{
		{Type: state.EventNewDay, Timestamp: testNow, Date: "1986-03-10"},
		{Type: state.EventRise, Timestamp: testNow, Body: "Jupiter", AzimuthDeg: 110},
		{Type: state.EventDusk, Timestamp: testNow, Body: "Sun"},
	}

	var buf bytes.Buffer
	WriteEvents(&buf, evts, 2)
	output := buf.String()

	if !strings.Contains(output, "Event Log") {
		t.Error("Should have Event Log header")
	}
	if strings.Contains(output, "1986-03-10") {
		t.Error("Should keep only the last 2 events")
	}
	if !strings.Contains(output, "Jupiter @ 110°") {
		t.Errorf("Should show body and azimuth, got %q", output)
	}
}

func TestWriteEvents_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, nil, 10)
	if !strings.Contains(buf.String(), "No events") {
		t.Error("Empty events should say no events")
	}
}

func TestFormatEventType(t *testing.T) {
	tests := []struct {
		t    state.EventType
		want string
	}{
		{state.EventRise, "↑RISE"},
		{state.EventSet, "↓SET "},
		{state.EventDawn, "☀DAWN"},
		{state.EventDusk, "☾DUSK"},
		{state.EventNewDay, "●DAY "},
	}
	for _, tt := range tests {
		if got := formatEventType(tt.t); got != tt.want {
			t.Errorf("formatEventType(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"Sun", 14, "Sun"},
		{"Tempel-Tuttle 55P", 8, "Tempel.."},
		{"Halley", 3, "Hal"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.s, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
