package astro

import (
	"errors"
	"math"
	"testing"
)

func TestEccentricAnomaly(t *testing.T) {
	tests := []struct {
		name string
		m, e float64
	}{
		{"circular", 1.0, 0},
		{"earth-like", degToRad(5.498078), 0.016714},
		{"halley", 0.3, 0.9673},
		{"negative mean anomaly", -2.0, 0.5},
		{"many turns", 40.0, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := EccentricAnomaly(tt.m, tt.e)
			if err != nil {
				t.Fatal(err)
			}
			m := math.Mod(tt.m, 2*math.Pi)
			if m < 0 {
				m += 2 * math.Pi
			}
			if r := e - tt.e*math.Sin(e) - m; math.Abs(r) > 1e-6 {
				t.Errorf("residual = %v", r)
			}
		})
	}

	e, _ := EccentricAnomaly(degToRad(5.498078), 0.016714)
	if math.Abs(e-0.097588) > 1e-6 {
		t.Errorf("E = %v, want 0.097588", e)
	}
	nu, _ := TrueAnomaly(degToRad(5.498078), 0.016714)
	if math.Abs(nu-0.099230) > 1e-6 {
		t.Errorf("nu = %v, want 0.099230", nu)
	}
}

func TestEccentricAnomaly_Invalid(t *testing.T) {
	for _, e := range []float64{-0.1, 1, 1.5} {
		if _, err := EccentricAnomaly(1, e); !errors.Is(err, ErrInvalidEccentricity) {
			t.Errorf("e=%v: error = %v", e, err)
		}
	}
}

func TestSolveCubic(t *testing.T) {
	for _, w := range []float64{-50, -3, 0, 0.5, 3, 4, 120} {
		s, err := SolveCubic(w)
		if err != nil {
			t.Fatalf("w=%v: %v", w, err)
		}
		if r := s*s*s + 3*s - w; math.Abs(r) > 1e-6 {
			t.Errorf("w=%v: residual %v", w, r)
		}
	}
	if s, _ := SolveCubic(3); math.Abs(s-0.817732) > 1e-6 {
		t.Errorf("SolveCubic(3) = %v, want 0.817732", s)
	}
}
