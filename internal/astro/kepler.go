package astro

import (
	"fmt"
	"math"
)

// Iteration caps for the orbit solvers.
const (
	MaxKeplerIterations = 50
	MaxCubicIterations  = 50
)

const orbitTolerance = 1e-6

// EccentricAnomaly solves Kepler's equation E - e sin E = M by Newton
// iteration. The mean anomaly is reduced to [0, 2pi) first.
func EccentricAnomaly(meanAnomalyRad, ecc float64) (float64, error) {
	if ecc < 0 || ecc >= 1 {
		return 0, fmt.Errorf("kepler e=%v: %w", ecc, ErrInvalidEccentricity)
	}
	m := math.Mod(meanAnomalyRad, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	e := m
	for i := 0; i < MaxKeplerIterations; i++ {
		d := e - ecc*math.Sin(e) - m
		if math.Abs(d) < orbitTolerance {
			return e, nil
		}
		e -= d / (1 - ecc*math.Cos(e))
	}
	return 0, fmt.Errorf("kepler M=%v e=%v: %w", meanAnomalyRad, ecc, ErrNoConvergence)
}

// trueFromEccentric converts eccentric to true anomaly (radians).
func trueFromEccentric(e, ecc float64) float64 {
	return 2 * math.Atan(math.Sqrt((1+ecc)/(1-ecc))*math.Tan(e/2))
}

// TrueAnomaly returns the true anomaly in radians for a mean anomaly.
func TrueAnomaly(meanAnomalyRad, ecc float64) (float64, error) {
	e, err := EccentricAnomaly(meanAnomalyRad, ecc)
	if err != nil {
		return 0, err
	}
	return trueFromEccentric(e, ecc), nil
}

// SolveCubic finds the real root of s^3 + 3s - w = 0, the form taken by
// Barker's equation for parabolic orbits.
func SolveCubic(w float64) (float64, error) {
	s := w / 3
	for i := 0; i < MaxCubicIterations; i++ {
		s2 := s * s
		d := (s2+3)*s - w
		if math.Abs(d) < orbitTolerance {
			return s, nil
		}
		s = (2*s*s2 + w) / (3 * (s2 + 1))
	}
	return 0, fmt.Errorf("cubic w=%v: %w", w, ErrNoConvergence)
}
