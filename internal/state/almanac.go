package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/events"
)

// Site is what the almanac is computed for.
type Site struct {
	Observer astro.Observer
	Zone     astro.Zone
	Solver   events.SolverConfig
	Twilight events.TwilightType
	// Bodies lists extra bodies to track besides the Sun and Moon.
	Bodies []string
}

// BodyState is a body's current place plus its rising and setting on the
// current civil day.
type BodyState struct {
	ephem.Position
	Rise events.Result
	Set  events.Result
}

// Up reports whether the body is above the horizon.
func (b BodyState) Up() bool {
	return b.Horizon.AltDeg > 0
}

// TwilightState holds the twilight limits of the current civil day.
type TwilightState struct {
	Type    events.TwilightType
	Morning events.Result
	Evening events.Result
}

// Almanac is everything computed for one instant.
type Almanac struct {
	Time     time.Time
	JD       astro.JulianDate
	Civil    astro.CivilDateTime
	Sidereal astro.SiderealTime
	Site     Site

	Sun            BodyState
	Moon           BodyState
	Twilight       TwilightState
	EquationOfTime float64 // hours
	Bodies         []BodyState

	LunarEclipse events.EclipseOccurrence
	SolarEclipse events.EclipseOccurrence
}

// Compute builds the almanac for now. Unknown extra bodies are an error.
func Compute(now time.Time, site Site, p *ephem.CatalogProvider) (*Almanac, error) {
	jd := astro.FromTime(now)
	civil := astro.UniversalToCivil(jd, site.Zone)
	date := civil.Date

	a := &Almanac{
		Time:           now,
		JD:             jd,
		Civil:          civil,
		Sidereal:       astro.SiderealAt(jd, site.Observer.LonDeg),
		Site:           site,
		EquationOfTime: astro.EquationOfTime(jd),
		LunarEclipse:   events.LunarEclipseOccurrence(date, site.Zone),
		SolarEclipse:   events.SolarEclipseOccurrence(date, site.Zone),
	}

	sun, err := p.PositionAt("Sun", jd, site.Observer)
	if err != nil {
		return nil, err
	}
	a.Sun = BodyState{Position: sun}
	a.Sun.Rise, a.Sun.Set = events.SunRiseSet(date, site.Observer, site.Zone, site.Solver)

	moon, err := p.PositionAt("Moon", jd, site.Observer)
	if err != nil {
		return nil, err
	}
	a.Moon = BodyState{Position: moon}
	a.Moon.Rise, a.Moon.Set = events.MoonRiseSet(date, site.Observer, site.Zone, site.Solver)

	a.Twilight.Type = site.Twilight
	a.Twilight.Morning, a.Twilight.Evening = events.Twilight(date, site.Observer, site.Zone, site.Twilight, site.Solver)

	for _, name := range site.Bodies {
		pos, err := p.PositionAt(name, jd, site.Observer)
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", name, err)
		}
		f, err := p.PositionFunc(name)
		if err != nil {
			return nil, err
		}
		b := BodyState{Position: pos}
		b.Rise, b.Set = events.BodyRiseSet(f, events.Fixed(events.StarThreshold), site.Observer, date, site.Zone, site.Solver)
		a.Bodies = append(a.Bodies, b)
	}
	return a, nil
}

// All returns the Sun, the Moon and the tracked bodies in display order.
func (a *Almanac) All() []BodyState {
	out := make([]BodyState, 0, len(a.Bodies)+2)
	out = append(out, a.Sun, a.Moon)
	return append(out, a.Bodies...)
}

// Body finds a body by name.
func (a *Almanac) Body(name string) (BodyState, bool) {
	for _, b := range a.All() {
		if strings.EqualFold(b.Body, name) {
			return b, true
		}
	}
	return BodyState{}, false
}

// IsNight reports whether the Sun is below the twilight depression.
func (a *Almanac) IsNight() bool {
	return a.Sun.Horizon.AltDeg < -a.Twilight.Type.Depression()
}
