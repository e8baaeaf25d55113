package events

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Horizon thresholds in degrees of altitude.
const (
	// SunThreshold allows for refraction and the solar semi-diameter.
	SunThreshold = -0.8333333
	// StarThreshold allows for refraction only.
	StarThreshold = -0.5667
)

// ErrInvalidConfig is returned for solver settings that cannot converge.
var ErrInvalidConfig = errors.New("invalid solver config")

// SolverConfig caps the fixed-point iterations used by the event solver.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations" toml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance_hours" toml:"tolerance_hours"` // hours
}

// DefaultSolverConfig returns 6 iterations and a tolerance of 1e-4 hours
// (about a third of a second).
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations: 6,
		Tolerance:     1e-4,
	}
}

// Validate checks the config.
func (c SolverConfig) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Tolerance <= 0 || math.IsNaN(c.Tolerance) {
		return fmt.Errorf("%w: tolerance %v", ErrInvalidConfig, c.Tolerance)
	}
	return nil
}

func (c SolverConfig) orDefault() SolverConfig {
	if c.Validate() != nil {
		return DefaultSolverConfig()
	}
	return c
}

// ThresholdFunc gives the altitude threshold in degrees at an instant.
type ThresholdFunc func(jd astro.JulianDate) float64

// Fixed returns a ThresholdFunc with a constant value.
func Fixed(deg float64) ThresholdFunc {
	return func(astro.JulianDate) float64 { return deg }
}

// crossing describes one horizon-crossing search.
type crossing struct {
	pos       astro.PositionFunc
	threshold ThresholdFunc
	rising    bool
}

// siderealDay is one sidereal day in mean solar days.
const siderealDay = 0.9972695663

// solve finds the instant on the civil day of date at which the body
// crosses its threshold. The position is re-evaluated at each trial
// instant until successive estimates agree within the tolerance. Each
// estimate is the crossing nearest the previous one, so the iteration may
// settle just outside the civil day; that is reported as NoEventToday.
func (c crossing) solve(date astro.CalendarDate, obs astro.Observer, zone astro.Zone, cfg SolverConfig) Result {
	cfg = cfg.orDefault()

	midnight := astro.LocalMidnight(date, zone)
	jd := midnight.AddHours(12)

	lat := degToRad(obs.LatDeg)
	for i := 0; i < cfg.MaxIterations; i++ {
		eq := c.pos(jd)
		h0 := degToRad(c.threshold(jd))
		dec := degToRad(eq.DecDeg)

		cosH := (math.Sin(h0) - math.Sin(lat)*math.Sin(dec)) / (math.Cos(lat) * math.Cos(dec))
		switch {
		case cosH >= 1:
			return Result{Status: NeverRises}
		case cosH <= -1:
			return Result{Status: Circumpolar}
		}
		h := radToDeg(math.Acos(cosH)) / 15

		lst := astro.Normalize24(eq.RAHours + h)
		if c.rising {
			lst = astro.Normalize24(eq.RAHours - h)
		}

		next := siderealNear(lst, obs.LonDeg, jd)
		settled := i > 0 && math.Abs(float64(next-jd))*24 < cfg.Tolerance
		jd = next
		if settled {
			return onDay(jd, midnight, azimuth(dec, h0, lat, c.rising))
		}
	}
	return Result{
		Time:   jd,
		Local:  localHours(jd, midnight),
		Status: NotConverged,
	}
}

// onDay builds the Result for a settled crossing.
func onDay(jd, midnight astro.JulianDate, az float64) Result {
	r := Result{
		Time:       jd,
		Local:      localHours(jd, midnight),
		AzimuthDeg: az,
		Status:     Ok,
	}
	switch {
	case jd < midnight || jd >= midnight+1:
		r.Status = NoEventToday
	case ambiguous(jd):
		r.Status = ConversionWarning
	}
	return r
}

// siderealNear returns the UT instant closest to near at which the local
// sidereal time is lst.
func siderealNear(lst, lonDeg float64, near astro.JulianDate) astro.JulianDate {
	gd := near.Midnight()
	ut, _ := astro.GSTToUT(gd, astro.LSTToGST(lst, lonDeg))
	jd := gd.AddHours(ut)
	for jd-near > siderealDay/2 {
		jd -= siderealDay
	}
	for near-jd > siderealDay/2 {
		jd += siderealDay
	}
	return jd
}

// ambiguous reports whether the sidereal time at jd also occurs a second
// time on the same UT day.
func ambiguous(jd astro.JulianDate) bool {
	_, warn := astro.GSTToUT(jd.Midnight(), astro.UTToGST(jd))
	return warn
}

// localHours is the civil clock time of jd on the day starting at midnight.
func localHours(jd, midnight astro.JulianDate) float64 {
	return astro.Normalize24(float64(jd-midnight) * 24)
}

// azimuth of the crossing point, measured from north through east.
func azimuth(dec, h0, lat float64, rising bool) float64 {
	cosA := (math.Sin(dec) - math.Sin(h0)*math.Sin(lat)) / (math.Cos(h0) * math.Cos(lat))
	a := radToDeg(math.Acos(math.Max(-1, math.Min(1, cosA))))
	if !rising {
		a = 360 - a
	}
	return a
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
