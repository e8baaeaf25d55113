package events

import (
	"github.com/litescript/ls-almanac/internal/astro"
)

// moonParallaxFactor scales the lunar horizontal parallax into the rise/set
// threshold; the remainder of the threshold is standard refraction.
const moonParallaxFactor = 0.7275

// RiseSet finds the rising and setting of a body at fixed equatorial
// coordinates on the civil day of date. thresholdDeg is the altitude that
// counts as the horizon (StarThreshold for stars).
func RiseSet(eq astro.Equatorial, obs astro.Observer, date astro.CalendarDate, zone astro.Zone, thresholdDeg float64) (rise, set Result) {
	return BodyRiseSet(func(astro.JulianDate) astro.Equatorial { return eq },
		Fixed(thresholdDeg), obs, date, zone, DefaultSolverConfig())
}

// BodyRiseSet finds the rising and setting of a moving body, recomputing
// its position at each trial instant.
func BodyRiseSet(pos astro.PositionFunc, threshold ThresholdFunc, obs astro.Observer, date astro.CalendarDate, zone astro.Zone, cfg SolverConfig) (rise, set Result) {
	rise = crossing{pos: pos, threshold: threshold, rising: true}.solve(date, obs, zone, cfg)
	set = crossing{pos: pos, threshold: threshold}.solve(date, obs, zone, cfg)
	return rise, set
}

// SunRiseSet finds sunrise and sunset from the apparent Sun at the
// conventional -0.8333 degree threshold.
func SunRiseSet(date astro.CalendarDate, obs astro.Observer, zone astro.Zone, cfg SolverConfig) (rise, set Result) {
	return BodyRiseSet(sunEquatorial, Fixed(SunThreshold), obs, date, zone, cfg)
}

// MoonRiseSet finds moonrise and moonset. The threshold follows the
// Moon's horizontal parallax at the trial instant.
func MoonRiseSet(date astro.CalendarDate, obs astro.Observer, zone astro.Zone, cfg SolverConfig) (rise, set Result) {
	return BodyRiseSet(moonEquatorial, moonThreshold, obs, date, zone, cfg)
}

// Transit returns the instant a fixed-coordinate body crosses the local
// meridian on the civil day of date.
func Transit(eq astro.Equatorial, obs astro.Observer, date astro.CalendarDate, zone astro.Zone) Result {
	midnight := astro.LocalMidnight(date, zone)
	jd := siderealNear(eq.RAHours, obs.LonDeg, midnight.AddHours(12))

	az := 180.0
	if eq.DecDeg > obs.LatDeg {
		az = 0
	}
	return onDay(jd, midnight, az)
}

func sunEquatorial(jd astro.JulianDate) astro.Equatorial {
	return astro.SunPosition(jd).Equatorial
}

func moonEquatorial(jd astro.JulianDate) astro.Equatorial {
	return astro.MoonPosition(jd).Equatorial
}

func moonThreshold(jd astro.JulianDate) float64 {
	return moonParallaxFactor*astro.MoonPosition(jd).HorizontalParallax + StarThreshold
}
