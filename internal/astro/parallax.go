package astro

import (
	"fmt"
	"math"
)

// MaxParallaxIterations caps the apparent-to-true parallax solve.
const MaxParallaxIterations = 20

const (
	parallaxTolerance = 1e-6
	earthPolarRatio   = 0.996647 // b/a of the reference ellipsoid
	earthRadiusM      = 6378160.0
	earthRadiusKm     = 6378.14
)

// geocentricTerms returns rho*sin(phi') and rho*cos(phi') for the observer.
func geocentricTerms(obs Observer) (rs, rc float64) {
	lat := degToRad(obs.LatDeg)
	u := math.Atan(earthPolarRatio * math.Tan(lat))
	h := obs.HeightM / earthRadiusM
	rs = earthPolarRatio*math.Sin(u) + h*math.Sin(lat)
	rc = math.Cos(u) + h*math.Cos(lat)
	return rs, rc
}

// parallaxStep moves a geocentric hour angle and declination (radians) to
// the topocentric place.
func parallaxStep(x, y, rs, rc, rp float64) (p, q float64) {
	dx := math.Atan(rc * math.Sin(x) / (rp*math.Cos(y) - rc*math.Cos(x)))
	p = x + dx
	q = math.Atan(math.Cos(p) * (rp*math.Sin(y) - rs) / (rp*math.Cos(y)*math.Cos(x) - rc))
	return p, q
}

// Parallax corrects hour-angle coordinates for diurnal parallax. hpDeg is
// the body's equatorial horizontal parallax. Actual input is geocentric and
// yields the topocentric apparent place; Apparent input is solved back to
// the geocentric place iteratively and may fail with ErrNoConvergence.
func Parallax(ha HourAngle, obs Observer, hpDeg float64, ct CoordinateType) (HourAngle, error) {
	if hpDeg <= 0 {
		return HourAngle{}, fmt.Errorf("parallax %.6f: %w", hpDeg, ErrInvalidParallax)
	}
	rs, rc := geocentricTerms(obs)
	rp := 1 / math.Sin(degToRad(hpDeg))
	x := degToRad(ha.HAHours * 15)
	y := degToRad(ha.DecDeg)

	if ct == Actual {
		p, q := parallaxStep(x, y, rs, rc, rp)
		return HourAngle{HAHours: Normalize24(radToDeg(p) / 15), DecDeg: radToDeg(q)}, nil
	}

	// Find the geocentric place whose topocentric image is the input.
	var p1, q1 float64
	xl, yl := x, y
	for i := 0; i < MaxParallaxIterations; i++ {
		p, q := parallaxStep(xl, yl, rs, rc, rp)
		p2 := p - xl
		q2 := q - yl
		if math.Abs(p2-p1) < parallaxTolerance && math.Abs(q2-q1) < parallaxTolerance {
			return HourAngle{
				HAHours: Normalize24(radToDeg(x-p2) / 15),
				DecDeg:  radToDeg(y - q2),
			}, nil
		}
		xl = x - p2
		yl = y - q2
		p1, q1 = p2, q2
	}
	return HourAngle{}, fmt.Errorf("parallax after %d iterations: %w", MaxParallaxIterations, ErrNoConvergence)
}

// HorizontalParallax returns the equatorial horizontal parallax in degrees
// of a body at distanceAU from the centre of the Earth.
func HorizontalParallax(distanceAU float64) float64 {
	return radToDeg(math.Asin(earthRadiusKm / AUToKm(distanceAU)))
}

// ParallaxEquatorial applies Parallax to an equatorial position seen by obs
// at jd.
func ParallaxEquatorial(eq Equatorial, obs Observer, jd JulianDate, hpDeg float64, ct CoordinateType) (Equatorial, error) {
	ha, err := Parallax(EquatorialToHourAngle(eq, obs, jd), obs, hpDeg, ct)
	if err != nil {
		return Equatorial{}, err
	}
	return HourAngleToEquatorial(ha, obs, jd), nil
}
