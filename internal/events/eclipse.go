package events

import (
	"math"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Eclipse limits on the distance of the Moon's argument of latitude from
// the nearest node at syzygy, in radians.
const (
	LunarCertainLimit  = 0.2426
	LunarPossibleLimit = 0.3787
	SolarCertainLimit  = 0.2688
	SolarPossibleLimit = 0.3229
)

const (
	// shadowEnlargement widens the Earth's shadow for its atmosphere.
	shadowEnlargement = 1.02
	sunParallaxDeg    = 8.794 / 3600 // at 1 AU
	sunDiameterDeg    = 0.533128     // at 1 AU
)

// EclipseOccurrence classifies the syzygy nearest a date.
type EclipseOccurrence struct {
	Status          EclipseStatus
	Syzygy          astro.JulianDate // new or full moon, UT
	NodeDistanceRad float64
}

// LunarEclipseOccurrence looks at the full moon of the lunation containing
// the civil day of date.
func LunarEclipseOccurrence(date astro.CalendarDate, zone astro.Zone) EclipseOccurrence {
	s := astro.FullMoon(astro.LocalNoon(date, zone))
	return classify(s, LunarCertainLimit, LunarPossibleLimit)
}

// SolarEclipseOccurrence looks at the new moon of the lunation containing
// the civil day of date.
func SolarEclipseOccurrence(date astro.CalendarDate, zone astro.Zone) EclipseOccurrence {
	s := astro.NewMoon(astro.LocalNoon(date, zone))
	return classify(s, SolarCertainLimit, SolarPossibleLimit)
}

func classify(s astro.Syzygy, certain, possible float64) EclipseOccurrence {
	d := s.NodeDistance()
	status := EclipseNone
	switch {
	case d < certain:
		status = EclipseCertain
	case d < possible:
		status = EclipsePossible
	}
	return EclipseOccurrence{Status: status, Syzygy: s.JD, NodeDistanceRad: d}
}

// Phase is one stage of an eclipse bounded by two contacts.
type Phase struct {
	Occurs bool
	Begin  Result
	End    Result
}

// LunarEclipse holds the circumstances of a lunar eclipse. They are the
// same for every observer who can see the Moon.
type LunarEclipse struct {
	Occurrence         EclipseOccurrence
	Maximum            Result
	Penumbral          Phase   // P1 to P4
	Umbral             Phase   // U1 to U4
	Total              Phase   // U2 to U3
	UmbralMagnitude    float64 // 0 when the Moon misses the umbra
	PenumbralMagnitude float64 // 0 when the Moon misses the penumbra
	MinSeparationDeg   float64 // Moon centre to shadow centre at maximum
}

// Occurs reports whether the Moon enters the penumbra.
func (e LunarEclipse) Occurs() bool { return e.Penumbral.Occurs }

// SolarEclipse holds the local circumstances of a solar eclipse.
type SolarEclipse struct {
	Occurrence       EclipseOccurrence
	Maximum          Result
	Partial          Phase   // first to last contact
	Magnitude        float64 // 0 when the discs do not touch
	MinSeparationDeg float64 // topocentric Moon to Sun at maximum
	SunAltitudeDeg   float64 // at maximum
}

// Occurs reports whether the discs touch for the observer.
func (e SolarEclipse) Occurs() bool { return e.Partial.Occurs }

// relativeFunc gives the Moon's offset in degrees from the centre of the
// eclipsing body on a plane tangent to it.
type relativeFunc func(jd astro.JulianDate) (x, y float64)

// motion returns the offset at jd and its hourly rate.
func (f relativeFunc) motion(jd astro.JulianDate) (x, y, vx, vy float64) {
	x, y = f(jd)
	x1, y1 := f(jd.AddHours(1))
	return x, y, x1 - x, y1 - y
}

// maximum refines jd to the instant of least separation.
func (f relativeFunc) maximum(jd astro.JulianDate, cfg SolverConfig) (astro.JulianDate, bool) {
	for i := 0; i < cfg.MaxIterations; i++ {
		x, y, vx, vy := f.motion(jd)
		tau := -(x*vx + y*vy) / (vx*vx + vy*vy)
		jd = jd.AddHours(tau)
		if math.Abs(tau) < cfg.Tolerance {
			return jd, true
		}
	}
	return jd, false
}

// contact refines jd to the instant the separation equals radius, before
// the maximum when first is set and after it otherwise. found is false when
// the separation never reaches radius.
func (f relativeFunc) contact(jd astro.JulianDate, radius float64, first bool, cfg SolverConfig) (t astro.JulianDate, found, converged bool) {
	for i := 0; i < cfg.MaxIterations; i++ {
		x, y, vx, vy := f.motion(jd)
		a := vx*vx + vy*vy
		b := 2 * (x*vx + y*vy)
		c := x*x + y*y - radius*radius
		disc := b*b - 4*a*c
		if disc < 0 {
			return jd, false, false
		}
		s := math.Sqrt(disc)
		tau := (-b + s) / (2 * a)
		if first {
			tau = (-b - s) / (2 * a)
		}
		jd = jd.AddHours(tau)
		if math.Abs(tau) < cfg.Tolerance {
			return jd, true, true
		}
	}
	return jd, true, false
}

// phase solves both contacts at radius around the maximum tm.
func (f relativeFunc) phase(tm astro.JulianDate, radius, minSep float64, zone astro.Zone, cfg SolverConfig) Phase {
	if radius <= minSep {
		return Phase{}
	}
	b, bFound, bOK := f.contact(tm, radius, true, cfg)
	e, eFound, eOK := f.contact(tm, radius, false, cfg)
	if !bFound || !eFound {
		return Phase{}
	}
	return Phase{
		Occurs: true,
		Begin:  instant(b, zone, bOK),
		End:    instant(e, zone, eOK),
	}
}

func instant(jd astro.JulianDate, zone astro.Zone, converged bool) Result {
	r := Result{
		Time:  jd,
		Local: astro.Normalize24(jd.Hours() + zone.Offset()),
	}
	if !converged {
		r.Status = NotConverged
	}
	return r
}

// lunarGeometry is the Moon relative to the Earth's shadow at one instant.
type lunarGeometry struct {
	x, y         float64 // degrees
	moonParallax float64
	sunParallax  float64
	sunRadius    float64
	moonRadius   float64
}

func lunarAt(jd astro.JulianDate) lunarGeometry {
	m := astro.MoonPosition(jd)
	sunLon, sunDist := astro.SunGeometric(jd)

	shadow := astro.Normalize360(sunLon + 180)
	dl := math.Mod(m.Ecliptic.LonDeg-shadow+540, 360) - 180
	return lunarGeometry{
		x:            dl * math.Cos(degToRad(m.Ecliptic.LatDeg)),
		y:            m.Ecliptic.LatDeg,
		moonParallax: m.HorizontalParallax,
		sunParallax:  sunParallaxDeg / sunDist,
		sunRadius:    sunDiameterDeg / sunDist / 2,
		moonRadius:   m.AngularDiameterDeg / 2,
	}
}

// umbra and penumbra return the shadow radii in degrees.
func (g lunarGeometry) umbra() float64 {
	return shadowEnlargement * (g.moonParallax + g.sunParallax - g.sunRadius)
}

func (g lunarGeometry) penumbra() float64 {
	return shadowEnlargement * (g.moonParallax + g.sunParallax + g.sunRadius)
}

// LunarEclipseCircumstances computes the contacts and magnitudes of the
// lunar eclipse at the full moon of the lunation containing date. Local
// times are in zone.
func LunarEclipseCircumstances(date astro.CalendarDate, zone astro.Zone, cfg SolverConfig) LunarEclipse {
	cfg = cfg.orDefault()
	occ := LunarEclipseOccurrence(date, zone)

	rel := relativeFunc(func(jd astro.JulianDate) (float64, float64) {
		g := lunarAt(jd)
		return g.x, g.y
	})
	tm, ok := rel.maximum(occ.Syzygy, cfg)

	g := lunarAt(tm)
	dmin := math.Hypot(g.x, g.y)
	ru, rp, sm := g.umbra(), g.penumbra(), g.moonRadius

	return LunarEclipse{
		Occurrence:         occ,
		Maximum:            instant(tm, zone, ok),
		Penumbral:          rel.phase(tm, rp+sm, dmin, zone, cfg),
		Umbral:             rel.phase(tm, ru+sm, dmin, zone, cfg),
		Total:              rel.phase(tm, ru-sm, dmin, zone, cfg),
		UmbralMagnitude:    magnitude(ru, sm, dmin, sm),
		PenumbralMagnitude: magnitude(rp, sm, dmin, sm),
		MinSeparationDeg:   dmin,
	}
}

// solarGeometry is the topocentric Moon relative to the Sun.
type solarGeometry struct {
	x, y       float64
	sunRadius  float64
	moonRadius float64
}

func solarAt(jd astro.JulianDate, obs astro.Observer) solarGeometry {
	m := astro.MoonPosition(jd)
	moonEq := astro.EclipticToEquatorial(m.Ecliptic, jd)
	topo, err := astro.ParallaxEquatorial(moonEq, obs, jd, m.HorizontalParallax, astro.Actual)
	if err != nil {
		// Only reachable for a non-positive parallax, which the lunar
		// series never produces.
		topo = moonEq
	}

	sunLon, sunDist := astro.SunGeometric(jd)
	sun := astro.EclipticToEquatorial(astro.Ecliptic{LonDeg: sunLon}, jd)

	dra := math.Mod((topo.RAHours-sun.RAHours)*15+540, 360) - 180
	return solarGeometry{
		x:          dra * math.Cos(degToRad(sun.DecDeg)),
		y:          topo.DecDeg - sun.DecDeg,
		sunRadius:  sunDiameterDeg / sunDist / 2,
		moonRadius: m.AngularDiameterDeg / 2,
	}
}

// SolarEclipseCircumstances computes first contact, maximum and last
// contact of the solar eclipse at the new moon of the lunation containing
// date, as seen by obs.
func SolarEclipseCircumstances(date astro.CalendarDate, zone astro.Zone, obs astro.Observer, cfg SolverConfig) SolarEclipse {
	cfg = cfg.orDefault()
	occ := SolarEclipseOccurrence(date, zone)

	rel := relativeFunc(func(jd astro.JulianDate) (float64, float64) {
		g := solarAt(jd, obs)
		return g.x, g.y
	})
	tm, ok := rel.maximum(occ.Syzygy, cfg)

	g := solarAt(tm, obs)
	dmin := math.Hypot(g.x, g.y)
	sunAlt := astro.EquatorialToHorizon(sunEquatorial(tm), obs, tm).AltDeg

	return SolarEclipse{
		Occurrence:       occ,
		Maximum:          instant(tm, zone, ok),
		Partial:          rel.phase(tm, g.sunRadius+g.moonRadius, dmin, zone, cfg),
		Magnitude:        magnitude(g.sunRadius, g.moonRadius, dmin, g.sunRadius),
		MinSeparationDeg: dmin,
		SunAltitudeDeg:   sunAlt,
	}
}

// magnitude is the fraction of the eclipsed diameter covered at a centre
// separation of d, or 0 when the discs of radii r1 and r2 do not overlap.
func magnitude(r1, r2, d, eclipsed float64) float64 {
	return math.Max(0, (r1+r2-d)/(2*eclipsed))
}
