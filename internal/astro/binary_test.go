package astro

import (
	"math"
	"testing"
)

func TestBinaryPosition(t *testing.T) {
	etaCor := BinaryOrbit{
		Name: "eta-Cor", PeriodYears: 41.623, EpochYear: 1934.008, PeriastronDeg: 219.907,
		Eccentricity: 0.2763, AxisArcsec: 0.907, InclinationDeg: 59.025, NodePADeg: 23.717,
	}
	pa, sep, err := BinaryPosition(calendarToJD(CalendarDate{1980, 1, 1}), etaCor)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pa-318.4813) > 1e-3 {
		t.Errorf("position angle = %v, want 318.4813", pa)
	}
	if math.Abs(sep-0.4112) > 1e-3 {
		t.Errorf("separation = %v, want 0.4112", sep)
	}
	if math.Round(pa*10)/10 != 318.5 || math.Round(sep*100)/100 != 0.41 {
		t.Errorf("rounded = %.1f %.2f, want 318.5 0.41", pa, sep)
	}
}
