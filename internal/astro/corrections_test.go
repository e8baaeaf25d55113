package astro

import (
	"math"
	"testing"
)

func TestNutation(t *testing.T) {
	jd := calendarToJD(CalendarDate{1988, 9, 1})
	dLon, dObl := Nutation(jd)

	// Published values from the full theory
	if math.Abs(dLon-0.001525808) > 1.5e-4 {
		t.Errorf("dLon = %v, want ~0.001525808", dLon)
	}
	if math.Abs(dObl-0.0025671) > 1.5e-4 {
		t.Errorf("dObl = %v, want ~0.0025671", dObl)
	}

	// Low-order series, exact
	if math.Abs(dLon-0.00142426) > 1e-7 || math.Abs(dObl-0.00255959) > 1e-7 {
		t.Errorf("Nutation() = (%v, %v), want (0.00142426, 0.00255959)", dLon, dObl)
	}
}

func TestObliquity(t *testing.T) {
	jd := calendarToJD(CalendarDate{2009, 7, 6})
	if got := MeanObliquity(jd); math.Abs(got-23.4380553) > 1e-6 {
		t.Errorf("MeanObliquity() = %v, want 23.4380553", got)
	}
	_, dObl := Nutation(jd)
	if got := Obliquity(jd); math.Abs(got-MeanObliquity(jd)-dObl) > 1e-12 {
		t.Errorf("Obliquity() = %v, want mean + nutation", got)
	}
}

func TestEclipticToEquatorial(t *testing.T) {
	jd := calendarToJD(CalendarDate{2009, 7, 6})
	ecl := Ecliptic{LonDeg: DMS(139, 41, 10), LatDeg: DMS(4, 52, 31)}

	eq := EclipticToEquatorial(ecl, jd)
	if math.Abs(eq.RAHours-9.5815006) > 1e-6 {
		t.Errorf("RAHours = %v, want 9.5815006", eq.RAHours)
	}
	if math.Abs(eq.DecDeg-19.535699) > 1e-5 {
		t.Errorf("DecDeg = %v, want 19.535699", eq.DecDeg)
	}

	back := EquatorialToEcliptic(eq, jd)
	if math.Abs(back.LonDeg-ecl.LonDeg) > 1e-8 || math.Abs(back.LatDeg-ecl.LatDeg) > 1e-8 {
		t.Errorf("round trip = %+v, want %+v", back, ecl)
	}
}

func TestPrecess(t *testing.T) {
	from := calendarToJD(CalendarDate{1950, 1, 0.923})
	to := calendarToJD(CalendarDate{1979, 6, 1})
	eq := Equatorial{RAHours: HMS(9, 10, 43), DecDeg: DMS(14, 23, 25)}

	got := Precess(eq, from, to)

	// Published 9h12m20.18s +14°16'09.12" takes the rates at the first
	// epoch only. Precess evaluates them at the midpoint, which moves the
	// result by 0.05s and 1.4".
	if math.Abs(got.RAHours-HMS(9, 12, 20.18)) > 0.1/3600 {
		t.Errorf("RAHours = %v, want %v", got.RAHours, HMS(9, 12, 20.18))
	}
	if math.Abs(got.DecDeg-DMS(14, 16, 9.12)) > 1.6/3600 {
		t.Errorf("DecDeg = %v, want %v", got.DecDeg, DMS(14, 16, 9.12))
	}
	if math.Abs(got.RAHours-9.2055929) > 1e-6 || math.Abs(got.DecDeg-14.2688199) > 1e-6 {
		t.Errorf("Precess() = %+v, want (9.2055929, 14.2688199)", got)
	}

	back := Precess(got, to, from)
	if math.Abs(back.RAHours-eq.RAHours) > 1e-8 || math.Abs(back.DecDeg-eq.DecDeg) > 1e-8 {
		t.Errorf("round trip = %+v, want %+v", back, eq)
	}
}

func TestAberration(t *testing.T) {
	jd := calendarToJD(CalendarDate{1988, 9, 8})
	sunLon, _ := SunGeometric(jd)
	ecl := Ecliptic{LonDeg: DMS(352, 37, 10.1), LatDeg: DMS(-1, 32, 56.4)}

	got := Aberration(ecl, sunLon)
	if math.Abs(got.LonDeg-352.625126) > 1e-6 {
		t.Errorf("LonDeg = %v, want 352.625126", got.LonDeg)
	}
	if math.Abs(got.LatDeg+1.548981) > 1e-6 {
		t.Errorf("LatDeg = %v, want -1.548981", got.LatDeg)
	}
}

func TestApparentPlace(t *testing.T) {
	// Over a few years the apparent place differs from the mean place by
	// precession plus well under a minute of arc.
	jd := calendarToJD(CalendarDate{2010, 3, 1})
	mean := Equatorial{RAHours: 6.7525, DecDeg: -16.716}

	got := ApparentPlace(mean, J2000, jd)
	precessed := Precess(mean, J2000, jd)
	if sep := AngularSeparation(got, precessed); sep > 60.0/3600 || sep == 0 {
		t.Errorf("apparent - precessed = %v deg", sep)
	}
}
