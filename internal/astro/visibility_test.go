package astro

import (
	"errors"
	"math"
	"testing"
)

func fixed(eq Equatorial) PositionFunc {
	return func(JulianDate) Equatorial { return eq }
}

func TestAltitudeTrack(t *testing.T) {
	obs := Observer{LatDeg: 35.4, LonDeg: -116.9}
	start := calendarToJD(CalendarDate{2024, 6, 15})

	track, err := AltitudeTrack(obs, fixed(Equatorial{RAHours: 6.75, DecDeg: -16.7}), start, 24, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if len(track) != 97 {
		t.Fatalf("len = %d, want 97", len(track))
	}

	crossings := Crossings(track, 0)
	if len(crossings) != 2 {
		t.Fatalf("crossings = %d, want 2", len(crossings))
	}
	if crossings[0].Rising == crossings[1].Rising {
		t.Error("expected one rising and one setting crossing")
	}

	top, err := Culmination(track)
	if err != nil {
		t.Fatal(err)
	}
	// Meridian altitude is 90 - lat + dec
	if want := 90 - 35.4 - 16.7; math.Abs(top.AltDeg-want) > 0.05 {
		t.Errorf("culmination = %v, want %v", top.AltDeg, want)
	}
}

func TestAltitudeTrack_Circumpolar(t *testing.T) {
	obs := Observer{LatDeg: 60}
	track, err := AltitudeTrack(obs, fixed(Equatorial{RAHours: 2.5, DecDeg: 89.26}), J2000, 24, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c := Crossings(track, 0); len(c) != 0 {
		t.Errorf("circumpolar star crossed the horizon %d times", len(c))
	}
}

func TestAltitudeTrack_Errors(t *testing.T) {
	obs := Observer{}
	if _, err := AltitudeTrack(obs, fixed(Equatorial{}), J2000, 1, 1); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("error = %v, want ErrInsufficientSamples", err)
	}
	if _, err := AltitudeTrack(obs, fixed(Equatorial{}), J2000, 1, 0); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("error = %v, want ErrInvalidStep", err)
	}
	if _, err := Culmination(nil); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("error = %v, want ErrInsufficientSamples", err)
	}
}

func TestInterpolateCrossing(t *testing.T) {
	a := AltitudeSample{JD: 10, AltDeg: -10}
	b := AltitudeSample{JD: 11, AltDeg: 10}
	if got := interpolateCrossing(a, b, 0); math.Abs(float64(got)-10.5) > 1e-12 {
		t.Errorf("interpolateCrossing() = %v, want 10.5", got)
	}
	if got := interpolateCrossing(a, a, 0); got != a.JD {
		t.Errorf("flat segment = %v, want %v", got, a.JD)
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		el   float64
		want ElevationTier
	}{
		{-5, ElevationNone},
		{0, ElevationNone},
		{10, ElevationLow},
		{30, ElevationMedium},
		{60, ElevationHigh},
	}
	for _, tt := range tests {
		if got := GetElevationTier(tt.el); got != tt.want {
			t.Errorf("GetElevationTier(%v) = %v, want %v", tt.el, got, tt.want)
		}
	}
}
