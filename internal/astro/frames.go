package astro

import (
	"fmt"
	"math"
)

// AU is the astronomical unit in km (IAU 2012).
const AU = 149597870.7

// Vec3 is a cartesian vector. Heliocentric vectors in this package are
// ecliptic of date in AU, with X toward the equinox and Z toward the north
// ecliptic pole.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Dot(u Vec3) float64 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z }

// Normalized returns the unit vector along v, or the zero vector.
func (v Vec3) Normalized() Vec3 {
	if n := v.Norm(); n > 0 {
		return v.Scale(1 / n)
	}
	return Vec3{}
}

func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

func (v Vec3) Sub(u Vec3) Vec3 { return v.Add(u.Scale(-1)) }

// Ecliptic returns the direction of an ecliptic vector as longitude and
// latitude.
func (v Vec3) Ecliptic() Ecliptic {
	return Ecliptic{
		LonDeg: Normalize360(radToDeg(math.Atan2(v.Y, v.X))),
		LatDeg: radToDeg(math.Atan2(v.Z, math.Hypot(v.X, v.Y))),
	}
}

// OrbitVector places a body at radius r (AU) and argument of latitude u
// (radians) on an orbit with the given node and inclination.
func OrbitVector(r, uRad, nodeDeg, inclDeg float64) Vec3 {
	o := degToRad(nodeDeg)
	i := degToRad(inclDeg)
	su, cu := math.Sincos(uRad)
	so, co := math.Sincos(o)
	return Vec3{
		X: r * (co*cu - so*su*math.Cos(i)),
		Y: r * (so*cu + co*su*math.Cos(i)),
		Z: r * su * math.Sin(i),
	}
}

// EarthFromSun returns the Earth's heliocentric ecliptic vector from the
// solar theory.
func EarthFromSun(jd JulianDate) Vec3 {
	lon, r := SunGeometric(jd)
	l := degToRad(lon + 180)
	return Vec3{X: r * math.Cos(l), Y: r * math.Sin(l)}
}

// ProjectedPoint is a position on the top-down plot. X and Y are display
// units, roughly 1.5 at the edge of the planetary system; R and Z keep the
// unprojected distance and height above the ecliptic in AU.
type ProjectedPoint struct {
	X, Y float64
	R    float64
	Z    float64
}

// ScaleMode selects the radial mapping of the top-down projection.
type ScaleMode int

const (
	ScaleLogR  ScaleMode = iota // log10(r+1) over the whole system
	ScaleInner                  // linear, clipped at innerLimitAU
	ScaleOuter                  // linear inside innerLimitAU, logarithmic beyond
)

// innerLimitAU is a little beyond Jupiter's orbit.
const innerLimitAU = 5.0

var scaleModeNames = [...]string{ScaleLogR: "log", ScaleInner: "inner", ScaleOuter: "outer"}

func (m ScaleMode) String() string {
	if m < 0 || int(m) >= len(scaleModeNames) {
		return scaleModeNames[ScaleLogR]
	}
	return scaleModeNames[m]
}

// ProjectionConfig configures ProjectEclipticTopDown. Scale multiplies the
// mapped radius and acts as zoom.
type ProjectionConfig struct {
	Scale float64
	Mode  ScaleMode
}

func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{Scale: 1, Mode: ScaleLogR}
}

// ProjectEclipticTopDown views a heliocentric ecliptic vector from the north
// ecliptic pole. The direction is kept and only the radius is remapped.
func ProjectEclipticTopDown(v Vec3, cfg ProjectionConfig) ProjectedPoint {
	p := ProjectedPoint{R: v.Norm(), Z: v.Z}
	planar := math.Hypot(v.X, v.Y)
	if planar == 0 {
		return p
	}
	k := scaleRadius(planar, cfg) * cfg.Scale / planar
	p.X, p.Y = v.X*k, v.Y*k
	return p
}

// scaleRadius maps a distance in AU to display units before zoom.
func scaleRadius(rAU float64, cfg ProjectionConfig) float64 {
	switch cfg.Mode {
	case ScaleInner:
		return 1.5 * math.Min(rAU, innerLimitAU) / innerLimitAU
	case ScaleOuter:
		if rAU <= innerLimitAU {
			return 0.5 * rAU / innerLimitAU
		}
		return 0.5 + math.Log10(rAU/innerLimitAU)
	default:
		return math.Log10(rAU + 1)
	}
}

func KmToAU(km float64) float64 { return km / AU }

func AUToKm(au float64) float64 { return au * AU }

// lightSecondsPerAU is the light time for one astronomical unit.
const lightSecondsPerAU = 499.004784

// LightTimeFromAU returns the one-way light time in seconds.
func LightTimeFromAU(au float64) float64 {
	return au * lightSecondsPerAU
}

// FormatLightTime renders seconds as "1.3s", "8m19s" or "4h9m".
func FormatLightTime(seconds float64) string {
	s := int(seconds)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	case s < 3600:
		return fmt.Sprintf("%dm%ds", s/60, s%60)
	}
	return fmt.Sprintf("%dh%dm", s/3600, s%3600/60)
}
