package astro

import (
	"errors"
	"math"
	"testing"
)

var parallaxObserver = Observer{LatDeg: 50, LonDeg: -100, HeightM: 60}

// 1979-02-26 10:45 local at UTC-6
var parallaxJD = calendarToJD(CalendarDate{1979, 2, 26}).AddHours(HMS(10, 45, 0) + 6)

func TestParallaxEquatorial(t *testing.T) {
	eq := Equatorial{RAHours: HMS(22, 35, 19), DecDeg: DMS(-7, 41, 13)}

	got, err := ParallaxEquatorial(eq, parallaxObserver, parallaxJD, 1.019167, Actual)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.RAHours-22.6120054) > 1e-6 {
		t.Errorf("RAHours = %v, want 22.6120054", got.RAHours)
	}
	if math.Abs(got.DecDeg+8.5381655) > 1e-6 {
		t.Errorf("DecDeg = %v, want -8.5381655", got.DecDeg)
	}

	back, err := ParallaxEquatorial(got, parallaxObserver, parallaxJD, 1.019167, Apparent)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.RAHours-22.5886111) > 1e-5 || math.Abs(back.DecDeg+7.6869442) > 1e-5 {
		t.Errorf("inverse = %+v, want (22.5886111, -7.6869442)", back)
	}
}

func TestParallax_InvalidHP(t *testing.T) {
	_, err := Parallax(HourAngle{HAHours: 1, DecDeg: 10}, parallaxObserver, 0, Actual)
	if !errors.Is(err, ErrInvalidParallax) {
		t.Errorf("error = %v, want ErrInvalidParallax", err)
	}
}

func TestHorizontalParallax(t *testing.T) {
	// The Moon at 384400 km subtends about 0.95 degrees
	got := HorizontalParallax(KmToAU(384400))
	if math.Abs(got-0.9507) > 1e-3 {
		t.Errorf("HorizontalParallax() = %v, want ~0.9507", got)
	}
}
