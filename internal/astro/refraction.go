package astro

import (
	"math"
)

// Refraction model limits, in radians of altitude.
const (
	refractionLowLimit  = -0.087    // about -5 degrees; no correction below
	refractionHighModel = 0.2617994 // 15 degrees; switch to the tangent form
)

// MaxRefractionIterations caps the true-to-apparent refraction solve.
const MaxRefractionIterations = 20

const refractionTolerance = 1e-6

// refractionTerm returns the refraction in radians at altitude y (radians).
// dir is +1 going from apparent to true and -1 the other way.
func refractionTerm(y, pressureMbar, tempC, dir float64) float64 {
	if y < refractionHighModel {
		if y < refractionLowLimit {
			return 0
		}
		yd := radToDeg(y)
		a := ((0.00002*yd+0.0196)*yd + 0.1594) * pressureMbar
		b := (273 + tempC) * ((0.0845*yd+0.505)*yd + 1)
		return degToRad(-(a / b) * dir)
	}
	return -dir * 0.00007888888 * pressureMbar / ((273 + tempC) * math.Tan(y))
}

// Refraction returns the correction in degrees to add to altDeg. For an
// Actual (true) altitude the result is positive and lifts the body; for an
// Apparent altitude it is negative. Below about -5 degrees the correction
// is zero.
func Refraction(altDeg, pressureMbar, tempC float64, ct CoordinateType) float64 {
	y := degToRad(altDeg)
	if y < refractionLowLimit {
		return 0
	}

	if ct == Apparent {
		return radToDeg(refractionTerm(y, pressureMbar, tempC, 1))
	}

	// True to apparent: the correction depends on the apparent altitude,
	// which is what we are solving for.
	var r float64
	for i := 0; i < MaxRefractionIterations; i++ {
		next := refractionTerm(y+r, pressureMbar, tempC, -1)
		if next == 0 || math.Abs(next-r) < refractionTolerance {
			return radToDeg(next)
		}
		r = next
	}
	return radToDeg(r)
}

// RefractEquatorial applies refraction to an equatorial position seen by
// obs at jd. Actual input yields the apparent position and Apparent input
// yields the true one.
func RefractEquatorial(eq Equatorial, obs Observer, jd JulianDate, pressureMbar, tempC float64, ct CoordinateType) Equatorial {
	hz := EquatorialToHorizon(eq, obs, jd)
	hz.AltDeg += Refraction(hz.AltDeg, pressureMbar, tempC, ct)
	ha := HorizonToHourAngle(hz, obs.LatDeg)
	return HourAngleToEquatorial(ha, obs, jd)
}
