package astro

import (
	"math"
)

// Nutation returns the nutation in longitude and in obliquity, in degrees,
// from the low-order series referred to 1900 January 0.5.
func Nutation(jd JulianDate) (dLonDeg, dOblDeg float64) {
	t := jd.julianCenturies1900()
	t2 := t * t

	// Mean longitudes of Sun and Moon, anomalies and the lunar node
	l2 := 2 * degToRad(279.6967+0.000303*t2+fracDeg(100.0021358*t))
	d2 := 2 * degToRad(270.4342-0.001133*t2+fracDeg(1336.855231*t))
	m1 := degToRad(358.4758 - 0.00015*t2 + fracDeg(99.99736056*t))
	m2 := degToRad(296.1046 + 0.009192*t2 + fracDeg(1325.552359*t))
	n1 := degToRad(259.1833 + 0.002078*t2 - fracDeg(5.372616667*t))
	n2 := 2 * n1

	// Arc seconds
	dp := (-17.2327 - 0.01737*t) * math.Sin(n1)
	dp += (-1.2729-0.00013*t)*math.Sin(l2) + 0.2088*math.Sin(n2)
	dp += -0.2037*math.Sin(d2) + (0.1261-0.00031*t)*math.Sin(m1)
	dp += 0.0675*math.Sin(m2) - (0.0497-0.00012*t)*math.Sin(l2+m1)
	dp += -0.0342*math.Sin(d2-n1) - 0.0261*math.Sin(d2+m2)
	dp += 0.0214*math.Sin(l2-m1) - 0.0149*math.Sin(l2-d2+m2)
	dp += 0.0124*math.Sin(l2-n1) + 0.0114*math.Sin(d2-m2)

	do := (9.21 + 0.00091*t) * math.Cos(n1)
	do += (0.5522-0.00029*t)*math.Cos(l2) - 0.0904*math.Cos(n2)
	do += 0.0884*math.Cos(d2) + 0.0216*math.Cos(l2+m1)
	do += 0.0183*math.Cos(d2-n1) + 0.0113*math.Cos(d2+m2)
	do += -0.0093*math.Cos(l2-m1) - 0.0066*math.Cos(l2-n1)

	return dp / 3600, do / 3600
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(jd JulianDate) float64 {
	t := jd.julianCenturies2000()
	return 23.439292 - t*(46.815+t*(0.0006-0.00181*t))/3600
}

// Obliquity returns the true obliquity (mean plus nutation) in degrees.
func Obliquity(jd JulianDate) float64 {
	_, dObl := Nutation(jd)
	return MeanObliquity(jd) + dObl
}

// EclipticToEquatorial converts ecliptic coordinates to equatorial using the
// true obliquity at jd.
func EclipticToEquatorial(ecl Ecliptic, jd JulianDate) Equatorial {
	return eclipticToEquatorial(ecl, Obliquity(jd))
}

func eclipticToEquatorial(ecl Ecliptic, oblDeg float64) Equatorial {
	e := degToRad(oblDeg)
	l := degToRad(ecl.LonDeg)
	b := degToRad(ecl.LatDeg)

	sinD := math.Sin(b)*math.Cos(e) + math.Cos(b)*math.Sin(e)*math.Sin(l)
	y := math.Sin(l)*math.Cos(e) - math.Tan(b)*math.Sin(e)
	x := math.Cos(l)

	return Equatorial{
		RAHours: Normalize24(radToDeg(math.Atan2(y, x)) / 15),
		DecDeg:  radToDeg(math.Asin(clamp1(sinD))),
	}
}

// EquatorialToEcliptic converts equatorial coordinates to ecliptic using the
// true obliquity at jd.
func EquatorialToEcliptic(eq Equatorial, jd JulianDate) Ecliptic {
	return ecliptic(eq, Obliquity(jd))
}

// precessionRates returns the annual precession in RA (hours/year) and
// declination (degrees/year) at a position and epoch.
func precessionRates(eq Equatorial, jd JulianDate) (dRA, dDec float64) {
	t := jd.julianCenturies1900()
	m := 3.07234 + 0.00186*t // seconds of time
	n := 20.0468 - 0.0085*t  // arc seconds
	a := degToRad(eq.RAHours * 15)
	d := degToRad(eq.DecDeg)

	dRA = (m + n*math.Sin(a)*math.Tan(d)/15) / 3600
	dDec = n * math.Cos(a) / 3600
	return dRA, dDec
}

// Precess moves mean equatorial coordinates from the epoch fromJD to toJD.
// The rates are evaluated at the midpoint of the interval so that
// precessing forward and then back returns the starting position.
func Precess(eq Equatorial, fromJD, toJD JulianDate) Equatorial {
	years := float64(toJD-fromJD) / 365.25

	r1, d1 := precessionRates(eq, fromJD)
	mid := Equatorial{
		RAHours: eq.RAHours + r1*years/2,
		DecDeg:  eq.DecDeg + d1*years/2,
	}
	r2, d2 := precessionRates(mid, (fromJD+toJD)/2)

	return Equatorial{
		RAHours: Normalize24(eq.RAHours + r2*years),
		DecDeg:  eq.DecDeg + d2*years,
	}
}

// aberrationConstant is the constant of annual aberration in arc seconds.
const aberrationConstant = 20.5

// Aberration applies annual aberration to ecliptic coordinates, given the
// Sun's geometric longitude.
func Aberration(ecl Ecliptic, sunLonDeg float64) Ecliptic {
	d := degToRad(sunLonDeg - ecl.LonDeg)
	b := degToRad(ecl.LatDeg)

	dl := -aberrationConstant * math.Cos(d) / math.Cos(b)
	db := -aberrationConstant * math.Sin(d) * math.Sin(b)

	return Ecliptic{
		LonDeg: Normalize360(ecl.LonDeg + dl/3600),
		LatDeg: ecl.LatDeg + db/3600,
	}
}

// ApparentPlace takes a mean position referred to epoch and returns the
// apparent position at jd. It precesses to jd, adds nutation in longitude,
// applies aberration and converts back with the true obliquity.
func ApparentPlace(mean Equatorial, epoch, jd JulianDate) Equatorial {
	eq := Precess(mean, epoch, jd)

	ecl := ecliptic(eq, MeanObliquity(jd))
	dLon, _ := Nutation(jd)
	ecl.LonDeg = Normalize360(ecl.LonDeg + dLon)

	sun := SunPosition(jd)
	ecl = Aberration(ecl, sun.TrueLonDeg)

	return EclipticToEquatorial(ecl, jd)
}

// ecliptic converts with an explicit obliquity.
func ecliptic(eq Equatorial, oblDeg float64) Ecliptic {
	e := degToRad(oblDeg)
	a := degToRad(eq.RAHours * 15)
	d := degToRad(eq.DecDeg)

	sinB := math.Sin(d)*math.Cos(e) - math.Cos(d)*math.Sin(e)*math.Sin(a)
	y := math.Sin(a)*math.Cos(e) + math.Tan(d)*math.Sin(e)

	return Ecliptic{
		LonDeg: Normalize360(radToDeg(math.Atan2(y, math.Cos(a)))),
		LatDeg: radToDeg(math.Asin(clamp1(sinB))),
	}
}
