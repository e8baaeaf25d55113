// Package report renders almanac snapshots for headless output: an
// indented JSON export and plain-text tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/state"
)

// SnapshotExport is the JSON-serializable representation of an almanac.
type SnapshotExport struct {
	Timestamp  time.Time       `json:"timestamp"`
	ComputedAt time.Time       `json:"computed_at"`
	Site       SiteExport      `json:"site"`
	JD         float64         `json:"jd"`
	Civil      string          `json:"civil"`
	GSTHours   float64         `json:"gst_hours"`
	LSTHours   float64         `json:"lst_hours"`
	EoTMinutes float64         `json:"equation_of_time_min"`
	Night      bool            `json:"night"`
	Twilight   TwilightExport  `json:"twilight"`
	Bodies     []BodyExport    `json:"bodies"`
	Eclipses   []EclipseExport `json:"eclipses"`
	Events     []state.Event   `json:"events,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// SiteExport describes the observer.
type SiteExport struct {
	Name       string  `json:"name,omitempty"`
	LatDeg     float64 `json:"lat_deg"`
	LonDeg     float64 `json:"lon_deg"`
	HeightM    float64 `json:"height_m"`
	ZoneHours  float64 `json:"zone_hours"`
	DaylightHr int     `json:"daylight_saving"`
}

// EventExport is a solved event. Time and Local are empty when the status
// carries no time.
type EventExport struct {
	Status     string     `json:"status"`
	Time       *time.Time `json:"time,omitempty"`
	Local      string     `json:"local,omitempty"`
	AzimuthDeg float64    `json:"azimuth_deg,omitempty"`
}

// TwilightExport holds the twilight limits.
type TwilightExport struct {
	Type    string      `json:"type"`
	Morning EventExport `json:"morning"`
	Evening EventExport `json:"evening"`
}

// BodyExport is a body's place and its rising and setting.
type BodyExport struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	RAHours    float64     `json:"ra_hours"`
	DecDeg     float64     `json:"dec_deg"`
	AltDeg     float64     `json:"alt_deg"`
	AzDeg      float64     `json:"az_deg"`
	DistanceAU float64     `json:"distance_au,omitempty"`
	Magnitude  float64     `json:"magnitude,omitempty"`
	Phase      float64     `json:"phase,omitempty"`
	Rise       EventExport `json:"rise"`
	Set        EventExport `json:"set"`
}

// EclipseExport classifies the syzygy of the current lunation.
type EclipseExport struct {
	Kind   string    `json:"kind"`
	Status string    `json:"status"`
	Syzygy time.Time `json:"syzygy"`
}

// ExportSnapshot converts a state snapshot to an exportable form.
func ExportSnapshot(snap state.Snapshot) *SnapshotExport {
	export := &SnapshotExport{
		ComputedAt: snap.LastUpdate,
		Events:     snap.Events,
	}
	if snap.LastError != nil {
		export.Error = snap.LastError.Error()
	}
	a := snap.Almanac
	if a == nil {
		return export
	}

	obs, zone := a.Site.Observer, a.Site.Zone
	export.Timestamp = a.Time
	export.Site = SiteExport{
		Name:       obs.Name,
		LatDeg:     obs.LatDeg,
		LonDeg:     obs.LonDeg,
		HeightM:    obs.HeightM,
		ZoneHours:  zone.Hours,
		DaylightHr: zone.DaylightSaving,
	}
	export.JD = float64(a.JD)
	export.Civil = a.Civil.String()
	export.GSTHours = a.Sidereal.Greenwich()
	export.LSTHours = a.Sidereal.Local()
	export.EoTMinutes = a.EquationOfTime * 60
	export.Night = a.IsNight()
	export.Twilight = TwilightExport{
		Type:    a.Twilight.Type.String(),
		Morning: exportEvent(a.Twilight.Morning),
		Evening: exportEvent(a.Twilight.Evening),
	}

	for _, b := range a.All() {
		export.Bodies = append(export.Bodies, BodyExport{
			Name:       b.Body,
			Kind:       b.Kind.String(),
			RAHours:    b.Equatorial.RAHours,
			DecDeg:     b.Equatorial.DecDeg,
			AltDeg:     b.Horizon.AltDeg,
			AzDeg:      b.Horizon.AzDeg,
			DistanceAU: b.DistanceAU,
			Magnitude:  b.Magnitude,
			Phase:      b.Phase,
			Rise:       exportEvent(b.Rise),
			Set:        exportEvent(b.Set),
		})
	}

	export.Eclipses = []EclipseExport{
		exportEclipse("lunar", a.LunarEclipse),
		exportEclipse("solar", a.SolarEclipse),
	}
	return export
}

func exportEvent(r events.Result) EventExport {
	e := EventExport{Status: r.Status.String()}
	if !r.Status.HasTime() {
		return e
	}
	t := r.Time.Time()
	h, m := r.HourMinute()
	e.Time = &t
	e.Local = fmt.Sprintf("%02d:%02d", h, m)
	e.AzimuthDeg = r.AzimuthDeg
	return e
}

func exportEclipse(kind string, o events.EclipseOccurrence) EclipseExport {
	return EclipseExport{Kind: kind, Status: o.Status.String(), Syzygy: o.Syzygy.Time()}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Body string
	RA   string
	Dec  string
	Alt  float64
	Az   float64
	Rise string
	Set  string
	Dist string
}

// GenerateSummaryRows creates one row per body of the almanac.
func GenerateSummaryRows(a *state.Almanac) []SummaryRow {
	if a == nil {
		return nil
	}

	var rows []SummaryRow
	for _, b := range a.All() {
		rows = append(rows, SummaryRow{
			Body: b.Body,
			RA:   sexa.FmtRA(unit.RAFromHour(b.Equatorial.RAHours)).String(),
			Dec:  sexa.FmtAngle(unit.AngleFromDeg(b.Equatorial.DecDeg)).String(),
			Alt:  b.Horizon.AltDeg,
			Az:   b.Horizon.AzDeg,
			Rise: eventCell(b.Rise),
			Set:  eventCell(b.Set),
			Dist: formatDistance(b.DistanceAU),
		})
	}
	return rows
}

func eventCell(r events.Result) string {
	if !r.Status.HasTime() {
		return r.Status.String()
	}
	h, m := r.HourMinute()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// formatDistance shows lunar distances in km and the rest in AU. Stars
// carry no distance.
func formatDistance(au float64) string {
	switch {
	case au <= 0:
		return "-"
	case au < 0.01:
		return fmt.Sprintf("%.0f km", astro.AUToKm(au))
	default:
		return fmt.Sprintf("%.3f AU", au)
	}
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, snap state.Snapshot) {
	a := snap.Almanac
	if a == nil {
		fmt.Fprintln(w, "No almanac computed")
		if snap.LastError != nil {
			fmt.Fprintf(w, "Error: %v\n", snap.LastError)
		}
		return
	}

	name := a.Site.Observer.Name
	if name == "" {
		name = "Observer"
	}
	fmt.Fprintf(w, "Almanac for %s @ %s\n", name, a.Time.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 90))
	fmt.Fprintf(w, "Local %s   JD %.5f   %s\n", a.Civil, float64(a.JD), astro.Weekday(a.JD))
	fmt.Fprintf(w, "GST %s   LST %s   EoT %+.1f min\n",
		sexa.FmtTime(unit.TimeFromHour(a.Sidereal.Greenwich())),
		sexa.FmtTime(unit.TimeFromHour(a.Sidereal.Local())),
		a.EquationOfTime*60)
	fmt.Fprintf(w, "Twilight (%s): %s to %s\n",
		a.Twilight.Type, eventCell(a.Twilight.Morning), eventCell(a.Twilight.Evening))
	fmt.Fprintln(w, strings.Repeat("─", 90))

	fmt.Fprintf(w, "%-14s %-14s %-14s %6s %6s %-16s %-16s %-12s\n",
		"Body", "RA", "Dec", "Alt", "Az", "Rise", "Set", "Distance")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, r := range GenerateSummaryRows(a) {
		fmt.Fprintf(w, "%-14s %-14s %-14s %6.1f %6.1f %-16s %-16s %-12s\n",
			truncateStr(r.Body, 14),
			r.RA,
			r.Dec,
			r.Alt,
			r.Az,
			truncateStr(r.Rise, 16),
			truncateStr(r.Set, 16),
			r.Dist,
		)
	}

	for _, e := range []struct {
		kind string
		occ  events.EclipseOccurrence
	}{{"Lunar", a.LunarEclipse}, {"Solar", a.SolarEclipse}} {
		if e.occ.Status == events.EclipseNone {
			continue
		}
		fmt.Fprintf(w, "\n%s eclipse %s at syzygy %s UT\n",
			e.kind, e.occ.Status, e.occ.Syzygy.Time().Format("2006-01-02 15:04"))
	}
}

// WriteEvents writes the last n events, oldest first.
func WriteEvents(w io.Writer, evts []state.Event, n int) {
	fmt.Fprintln(w, "Event Log")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if len(evts) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(evts) > n {
		evts = evts[len(evts)-n:]
	}
	for _, e := range evts {
		detail := e.Body
		switch {
		case e.Type == state.EventNewDay:
			detail = e.Date
		case e.AzimuthDeg != 0:
			detail = fmt.Sprintf("%s @ %.0f°", e.Body, e.AzimuthDeg)
		}
		fmt.Fprintf(w, "%s %s %s\n", e.Timestamp.Format("15:04:05"), formatEventType(e.Type), detail)
	}
}

func formatEventType(t state.EventType) string {
	switch t {
	case state.EventRise:
		return "↑RISE"
	case state.EventSet:
		return "↓SET "
	case state.EventDawn:
		return "☀DAWN"
	case state.EventDusk:
		return "☾DUSK"
	case state.EventNewDay:
		return "●DAY "
	default:
		return string(t)
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
