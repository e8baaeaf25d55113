package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/state"
)

var errBadRequest = errors.New("bad request")

// query is a request's observer, zone, civil date and instant, defaulting
// to the manager's site and the current time.
type query struct {
	site state.Site
	date astro.CalendarDate
	at   time.Time
}

func (s *Server) parseQuery(r *http.Request) (query, error) {
	q := query{site: s.state.Site(), at: s.now()}
	v := r.URL.Query()

	float := func(key string, dst *float64, lo, hi float64) error {
		raw := v.Get(key)
		if raw == "" {
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || f < lo || f > hi {
			return fmt.Errorf("%s=%q out of range [%g, %g]: %w", key, raw, lo, hi, errBadRequest)
		}
		*dst = f
		return nil
	}
	if err := errors.Join(
		float("lat", &q.site.Observer.LatDeg, -90, 90),
		float("lon", &q.site.Observer.LonDeg, -180, 180),
		float("height", &q.site.Observer.HeightM, -500, 10000),
		float("tz", &q.site.Zone.Hours, -14, 14),
	); err != nil {
		return q, err
	}
	if raw := v.Get("dst"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 2 {
			return q, fmt.Errorf("dst=%q: %w", raw, errBadRequest)
		}
		q.site.Zone.DaylightSaving = n
	}
	if raw := v.Get("t"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("t=%q: %w", raw, errBadRequest)
		}
		q.at = t
	}

	q.date = astro.UniversalToCivil(astro.FromTime(q.at), q.site.Zone).Date
	if raw := v.Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return q, fmt.Errorf("date=%q: %w", raw, errBadRequest)
		}
		q.date = astro.Date(d.Year(), int(d.Month()), d.Day(), 0)
	}
	return q, nil
}

type eventJSON struct {
	Status     string     `json:"status"`
	UT         *time.Time `json:"ut,omitempty"`
	Local      string     `json:"local,omitempty"`
	LocalHours float64    `json:"local_hours,omitempty"`
	AzimuthDeg float64    `json:"azimuth_deg,omitempty"`
}

func newEvent(r events.Result) eventJSON {
	out := eventJSON{Status: r.Status.String()}
	if !r.Status.HasTime() {
		return out
	}
	ut := r.Time.Time()
	h, m := r.HourMinute()
	out.UT = &ut
	out.Local = fmt.Sprintf("%02d:%02d", h, m)
	out.LocalHours = r.Local
	out.AzimuthDeg = r.AzimuthDeg
	return out
}

type positionJSON struct {
	ephem.Position
	Kind string `json:"kind"`
}

type bodyJSON struct {
	positionJSON
	Rise    eventJSON  `json:"rise"`
	Set     eventJSON  `json:"set"`
	Transit *eventJSON `json:"transit,omitempty"`
}

type riseSetJSON struct {
	Body    string     `json:"body"`
	Date    string     `json:"date"`
	Rise    eventJSON  `json:"rise"`
	Set     eventJSON  `json:"set"`
	Transit *eventJSON `json:"transit,omitempty"`
}

type twilightJSON struct {
	Type    string    `json:"type"`
	Date    string    `json:"date,omitempty"`
	Morning eventJSON `json:"morning"`
	Evening eventJSON `json:"evening"`
}

type occurrenceJSON struct {
	Status          string    `json:"status"`
	Syzygy          time.Time `json:"syzygy"`
	NodeDistanceDeg float64   `json:"node_distance_deg"`
}

func newOccurrence(o events.EclipseOccurrence) occurrenceJSON {
	return occurrenceJSON{
		Status:          o.Status.String(),
		Syzygy:          o.Syzygy.Time(),
		NodeDistanceDeg: o.NodeDistanceRad * 180 / math.Pi,
	}
}

type phaseJSON struct {
	Occurs bool       `json:"occurs"`
	Begin  *eventJSON `json:"begin,omitempty"`
	End    *eventJSON `json:"end,omitempty"`
}

func newPhase(p events.Phase) phaseJSON {
	if !p.Occurs {
		return phaseJSON{}
	}
	begin, end := newEvent(p.Begin), newEvent(p.End)
	return phaseJSON{Occurs: true, Begin: &begin, End: &end}
}

type lunarEclipseJSON struct {
	Occurrence         occurrenceJSON `json:"occurrence"`
	Maximum            eventJSON      `json:"maximum"`
	Penumbral          phaseJSON      `json:"penumbral"`
	Umbral             phaseJSON      `json:"umbral"`
	Total              phaseJSON      `json:"total"`
	UmbralMagnitude    float64        `json:"umbral_magnitude"`
	PenumbralMagnitude float64        `json:"penumbral_magnitude"`
}

type solarEclipseJSON struct {
	Occurrence     occurrenceJSON `json:"occurrence"`
	Maximum        eventJSON      `json:"maximum"`
	Partial        phaseJSON      `json:"partial"`
	Magnitude      float64        `json:"magnitude"`
	SunAltitudeDeg float64        `json:"sun_altitude_deg"`
}

type almanacJSON struct {
	Time              time.Time      `json:"time"`
	JD                float64        `json:"jd"`
	Observer          astro.Observer `json:"observer"`
	Date              string         `json:"date"`
	GSTHours          float64        `json:"gst_hours"`
	LSTHours          float64        `json:"lst_hours"`
	EquationOfTimeMin float64        `json:"equation_of_time_min"`
	Night             bool           `json:"night"`
	Bodies            []bodyJSON     `json:"bodies"`
	Twilight          twilightJSON   `json:"twilight"`
	LunarEclipse      occurrenceJSON `json:"lunar_eclipse"`
	SolarEclipse      occurrenceJSON `json:"solar_eclipse"`
}

func newAlmanac(a *state.Almanac) *almanacJSON {
	out := &almanacJSON{
		Time:              a.Time,
		JD:                float64(a.JD),
		Observer:          a.Site.Observer,
		Date:              dateString(a.Civil.Date),
		GSTHours:          a.Sidereal.Greenwich(),
		LSTHours:          a.Sidereal.Local(),
		EquationOfTimeMin: a.EquationOfTime * 60,
		Night:             a.IsNight(),
		Twilight: twilightJSON{
			Type:    a.Twilight.Type.String(),
			Morning: newEvent(a.Twilight.Morning),
			Evening: newEvent(a.Twilight.Evening),
		},
		LunarEclipse: newOccurrence(a.LunarEclipse),
		SolarEclipse: newOccurrence(a.SolarEclipse),
	}
	for _, b := range a.All() {
		out.Bodies = append(out.Bodies, bodyJSON{
			positionJSON: positionJSON{Position: b.Position, Kind: b.Kind.String()},
			Rise:         newEvent(b.Rise),
			Set:          newEvent(b.Set),
		})
	}
	return out
}

type snapshotJSON struct {
	Almanac       *almanacJSON  `json:"almanac,omitempty"`
	LastUpdate    time.Time     `json:"last_update"`
	LastError     string        `json:"last_error,omitempty"`
	ComputeMillis float64       `json:"compute_ms"`
	Events        []state.Event `json:"events"`
}

func newSnapshot(s state.Snapshot) snapshotJSON {
	out := snapshotJSON{
		LastUpdate:    s.LastUpdate,
		ComputeMillis: float64(s.ComputeDuration.Microseconds()) / 1000,
		Events:        s.Events,
	}
	if s.Almanac != nil {
		out.Almanac = newAlmanac(s.Almanac)
	}
	if s.LastError != nil {
		out.LastError = s.LastError.Error()
	}
	return out
}

func dateString(d astro.CalendarDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, int(d.Day))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// fail maps an error onto a status code.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ephem.ErrUnknownBody):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleAlmanac(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	if snap.Almanac == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("almanac not computed yet"))
		return
	}
	writeJSON(w, http.StatusOK, newSnapshot(snap))
}

func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	var kinds []ephem.BodyKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			k, ok := ephem.ParseKind(strings.TrimSpace(name))
			if !ok {
				fail(w, fmt.Errorf("kind=%q: %w", name, errBadRequest))
				return
			}
			kinds = append(kinds, k)
		}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"bodies": s.provider.Bodies(kinds...)})
}

func (s *Server) handleSun(w http.ResponseWriter, r *http.Request) {
	s.writeBody(w, r, "Sun")
}

func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	s.writeBody(w, r, "Moon")
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	s.writeBody(w, r, r.PathValue("name"))
}

// writeBody reports a body's place at the query instant and its events
// on the query date.
func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, name string) {
	q, err := s.parseQuery(r)
	if err != nil {
		fail(w, err)
		return
	}
	pos, err := s.provider.Position(name, q.at, q.site.Observer)
	if err != nil {
		fail(w, err)
		return
	}
	rs, err := s.riseSet(name, q)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bodyJSON{
		positionJSON: positionJSON{Position: pos, Kind: pos.Kind.String()},
		Rise:         rs.Rise,
		Set:          rs.Set,
		Transit:      rs.Transit,
	})
}

// maxPathHours bounds the span of a path request.
const maxPathHours = 72

type pathJSON struct {
	Body   string         `json:"body"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Step   string         `json:"step"`
	Points []positionJSON `json:"points"`
}

// handlePath samples a body from the query instant, rounded down to the
// step, over hours (default 24) at step (default 10m).
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		fail(w, err)
		return
	}
	v := r.URL.Query()
	span, step := ephem.DefaultPathDuration, ephem.DefaultPathStep
	if raw := v.Get("hours"); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(h > 0 && h <= maxPathHours) {
			fail(w, fmt.Errorf("hours=%q out of range (0, %d]: %w", raw, maxPathHours, errBadRequest))
			return
		}
		span = time.Duration(h * float64(time.Hour))
	}
	if raw := v.Get("step"); raw != "" {
		if step, err = time.ParseDuration(raw); err != nil || step < time.Minute {
			fail(w, fmt.Errorf("step=%q must be at least 1m: %w", raw, errBadRequest))
			return
		}
	}

	start := q.at.UTC().Truncate(step)
	path, err := s.provider.Path(r.PathValue("name"), start, start.Add(span), step, q.site.Observer)
	if err != nil {
		fail(w, err)
		return
	}
	out := pathJSON{Body: path.Body, Start: path.Start, End: path.End, Step: step.String()}
	for _, pos := range path.Points {
		out.Points = append(out.Points, positionJSON{Position: pos, Kind: pos.Kind.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRiseSet(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		fail(w, err)
		return
	}
	name := r.URL.Query().Get("body")
	if name == "" {
		name = "Sun"
	}
	rs, err := s.riseSet(name, q)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) riseSet(name string, q query) (riseSetJSON, error) {
	kind, ok := s.provider.Kind(name)
	if !ok {
		return riseSetJSON{}, fmt.Errorf("%q: %w", name, ephem.ErrUnknownBody)
	}
	obs, zone, cfg := q.site.Observer, q.site.Zone, q.site.Solver

	var rise, set events.Result
	out := riseSetJSON{Body: name, Date: dateString(q.date)}
	switch kind {
	case ephem.KindSun:
		rise, set = events.SunRiseSet(q.date, obs, zone, cfg)
	case ephem.KindMoon:
		rise, set = events.MoonRiseSet(q.date, obs, zone, cfg)
	default:
		f, err := s.provider.PositionFunc(name)
		if err != nil {
			return riseSetJSON{}, err
		}
		rise, set = events.BodyRiseSet(f, events.Fixed(events.StarThreshold), obs, q.date, zone, cfg)
		transit := newEvent(events.Transit(f(astro.LocalNoon(q.date, zone)), obs, q.date, zone))
		out.Transit = &transit
	}
	out.Rise, out.Set = newEvent(rise), newEvent(set)
	return out, nil
}

func (s *Server) handleTwilight(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		fail(w, err)
		return
	}
	tt := q.site.Twilight
	if raw := r.URL.Query().Get("type"); raw != "" {
		if tt, err = events.ParseTwilightType(raw); err != nil {
			fail(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
	}
	morning, evening := events.Twilight(q.date, q.site.Observer, q.site.Zone, tt, q.site.Solver)
	writeJSON(w, http.StatusOK, twilightJSON{
		Type:    tt.String(),
		Date:    dateString(q.date),
		Morning: newEvent(morning),
		Evening: newEvent(evening),
	})
}

func (s *Server) handleEclipse(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		fail(w, err)
		return
	}
	switch kind := r.PathValue("kind"); kind {
	case "lunar":
		e := events.LunarEclipseCircumstances(q.date, q.site.Zone, q.site.Solver)
		writeJSON(w, http.StatusOK, lunarEclipseJSON{
			Occurrence:         newOccurrence(e.Occurrence),
			Maximum:            newEvent(e.Maximum),
			Penumbral:          newPhase(e.Penumbral),
			Umbral:             newPhase(e.Umbral),
			Total:              newPhase(e.Total),
			UmbralMagnitude:    e.UmbralMagnitude,
			PenumbralMagnitude: e.PenumbralMagnitude,
		})
	case "solar":
		e := events.SolarEclipseCircumstances(q.date, q.site.Zone, q.site.Observer, q.site.Solver)
		writeJSON(w, http.StatusOK, solarEclipseJSON{
			Occurrence:     newOccurrence(e.Occurrence),
			Maximum:        newEvent(e.Maximum),
			Partial:        newPhase(e.Partial),
			Magnitude:      e.Magnitude,
			SunAltitudeDeg: e.SunAltitudeDeg,
		})
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("eclipse kind %q: want lunar or solar", kind))
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 20
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			fail(w, fmt.Errorf("n=%q: %w", raw, errBadRequest))
			return
		}
		n = v
	}
	evs := s.state.RecentEvents(n)
	if evs == nil {
		evs = []state.Event{}
	}
	writeJSON(w, http.StatusOK, map[string][]state.Event{"events": evs})
}
