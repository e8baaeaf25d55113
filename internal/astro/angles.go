// Package astro provides the calendar, sidereal-time, coordinate-transform and
// orbital-position math used by the almanac.
//
// Angles carry their unit in the field or parameter name (RAHours, DecDeg,
// meanAnomalyRad). Longitude is east positive throughout.
package astro

import (
	"errors"
	"math"

	"github.com/soniakeys/unit"
)

// Errors returned by the core routines.
var (
	ErrInvalidMonth        = errors.New("month out of range 1-12")
	ErrInvalidEccentricity = errors.New("eccentricity out of range for orbit type")
	ErrNoConvergence       = errors.New("iteration did not converge")
	ErrInvalidParallax     = errors.New("horizontal parallax must be positive")
	ErrInvalidOrbit        = errors.New("orbit elements out of range")
)

// CoordinateType distinguishes observed (apparent) values from geometric
// (actual) ones for the direction-dependent corrections.
type CoordinateType int

const (
	// Actual is a true geometric position, before refraction or parallax.
	Actual CoordinateType = iota
	// Apparent is the position as seen by the observer.
	Apparent
)

func (c CoordinateType) String() string {
	switch c {
	case Actual:
		return "actual"
	case Apparent:
		return "apparent"
	default:
		return "unknown"
	}
}

// Normalize360 maps any finite angle into [0, 360).
func Normalize360(deg float64) float64 {
	return wrapTo(deg, 360)
}

// Normalize24 maps any finite hour value into [0, 24).
func Normalize24(h float64) float64 {
	return wrapTo(h, 24)
}

// wrapTo reduces x into [0, period). Tiny negative inputs would otherwise
// round up to period itself.
func wrapTo(x, period float64) float64 {
	r := unit.PMod(x, period)
	if r >= period {
		return 0
	}
	return r
}

// HMS builds decimal hours from hours, minutes and seconds. A negative sign
// on any component makes the whole value negative.
func HMS(h, m int, s float64) float64 {
	return unit.FromSexa(sign(h, m, s), abs(h), abs(m), math.Abs(s))
}

// DMS builds decimal degrees from degrees, minutes and seconds, with the
// same sign convention as HMS.
func DMS(d, m int, s float64) float64 {
	return unit.FromSexa(sign(d, m, s), abs(d), abs(m), math.Abs(s))
}

func sign(a, b int, c float64) byte {
	if a < 0 || b < 0 || c < 0 {
		return '-'
	}
	return ' '
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SplitHMS splits decimal hours into whole hours, whole minutes and seconds.
func SplitHMS(decimal float64) (h, m int, s float64) {
	a := math.Abs(decimal)
	h = int(a)
	m = int((a - float64(h)) * 60)
	s = (a - float64(h) - float64(m)/60) * 3600
	if decimal < 0 {
		h = -h
	}
	return h, m, s
}

// HourMinute rounds decimal hours to the nearest minute for display.
func HourMinute(decimal float64) (h, m int) {
	v := Normalize24(decimal + 0.5/60)
	h = int(v)
	m = int((v - float64(h)) * 60)
	return h, m
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// wrap180 maps an angle in degrees into [-180, 180).
func wrap180(deg float64) float64 {
	return Normalize360(deg+180) - 180
}

func clamp1(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

// fracDeg returns 360 times the fractional part of v, matching the
// revolution counters used by the series expansions.
func fracDeg(v float64) float64 {
	return 360 * (v - math.Floor(v))
}
