package astro

import (
	"math"
)

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg  float64 // Latitude in degrees (north positive)
	LonDeg  float64 // Longitude in degrees (east positive)
	HeightM float64 // Height above sea level in metres
	Name    string  // Optional name for the site
}

// Equatorial holds right ascension and declination.
type Equatorial struct {
	RAHours float64 // Right Ascension in hours (0-24)
	DecDeg  float64 // Declination in degrees (-90 to +90)
}

// HourAngle holds local hour angle and declination.
type HourAngle struct {
	HAHours float64 // Hour angle in hours (0-24), west of the meridian
	DecDeg  float64
}

// Horizon holds horizontal coordinates.
type Horizon struct {
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
}

// Ecliptic holds ecliptic longitude and latitude.
type Ecliptic struct {
	LonDeg float64
	LatDeg float64
}

// Galactic holds galactic longitude and latitude.
type Galactic struct {
	LonDeg float64
	LatDeg float64
}

// HourAngleToHorizon converts hour-angle coordinates to azimuth and altitude
// for an observer at latDeg.
func HourAngleToHorizon(ha HourAngle, latDeg float64) Horizon {
	h := degToRad(ha.HAHours * 15)
	dec := degToRad(ha.DecDeg)
	lat := degToRad(latDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(h)
	alt := math.Asin(clamp1(sinAlt))

	// atan2 keeps the quadrant without a separate sin(H) test
	y := -math.Cos(dec) * math.Cos(lat) * math.Sin(h)
	x := math.Sin(dec) - math.Sin(lat)*sinAlt

	return Horizon{
		AzDeg:  Normalize360(radToDeg(math.Atan2(y, x))),
		AltDeg: radToDeg(alt),
	}
}

// HorizonToHourAngle is the inverse of HourAngleToHorizon.
func HorizonToHourAngle(hz Horizon, latDeg float64) HourAngle {
	az := degToRad(hz.AzDeg)
	alt := degToRad(hz.AltDeg)
	lat := degToRad(latDeg)

	sinDec := math.Sin(alt)*math.Sin(lat) + math.Cos(alt)*math.Cos(lat)*math.Cos(az)
	dec := math.Asin(clamp1(sinDec))

	y := -math.Cos(alt) * math.Cos(lat) * math.Sin(az)
	x := math.Sin(alt) - math.Sin(lat)*sinDec

	return HourAngle{
		HAHours: Normalize24(radToDeg(math.Atan2(y, x)) / 15),
		DecDeg:  radToDeg(dec),
	}
}

// EquatorialToHourAngle converts RA to hour angle for an observer at jd.
func EquatorialToHourAngle(eq Equatorial, obs Observer, jd JulianDate) HourAngle {
	lst := LocalSiderealTime(jd, obs.LonDeg)
	return HourAngle{HAHours: RAToHA(eq.RAHours, lst), DecDeg: eq.DecDeg}
}

// HourAngleToEquatorial converts hour angle back to RA for an observer at jd.
func HourAngleToEquatorial(ha HourAngle, obs Observer, jd JulianDate) Equatorial {
	lst := LocalSiderealTime(jd, obs.LonDeg)
	return Equatorial{RAHours: HAToRA(ha.HAHours, lst), DecDeg: ha.DecDeg}
}

// EquatorialToHorizon converts RA/Dec to azimuth and altitude for an
// observer at a UT instant.
func EquatorialToHorizon(eq Equatorial, obs Observer, jd JulianDate) Horizon {
	return HourAngleToHorizon(EquatorialToHourAngle(eq, obs, jd), obs.LatDeg)
}

// AngularSeparation returns the angle between two equatorial positions in
// degrees.
func AngularSeparation(a, b Equatorial) float64 {
	// Convert to radians
	ra1 := degToRad(a.RAHours * 15)
	dec1 := degToRad(a.DecDeg)
	ra2 := degToRad(b.RAHours * 15)
	dec2 := degToRad(b.DecDeg)

	// Haversine formula for angular separation
	dRA := ra2 - ra1
	dDec := dec2 - dec1
	h := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Sin(dRA/2)*math.Sin(dRA/2)

	return radToDeg(2 * math.Asin(math.Sqrt(math.Min(h, 1))))
}

// Galactic north pole and node, B1950.
const (
	galacticPoleRADeg  = 192.25
	galacticPoleDecDeg = 27.4
	galacticNodeLonDeg = 33.0
)

// EquatorialToGalactic converts B1950 equatorial coordinates to galactic.
func EquatorialToGalactic(eq Equatorial) Galactic {
	a := degToRad(eq.RAHours*15 - galacticPoleRADeg)
	d := degToRad(eq.DecDeg)
	g := degToRad(galacticPoleDecDeg)

	sinB := math.Cos(d)*math.Cos(g)*math.Cos(a) + math.Sin(d)*math.Sin(g)
	y := math.Sin(d) - sinB*math.Sin(g)
	x := math.Cos(d) * math.Sin(a) * math.Cos(g)

	return Galactic{
		LonDeg: Normalize360(radToDeg(math.Atan2(y, x)) + galacticNodeLonDeg),
		LatDeg: radToDeg(math.Asin(clamp1(sinB))),
	}
}

// GalacticToEquatorial converts galactic coordinates to B1950 equatorial.
func GalacticToEquatorial(gc Galactic) Equatorial {
	l := degToRad(gc.LonDeg - galacticNodeLonDeg)
	b := degToRad(gc.LatDeg)
	g := degToRad(galacticPoleDecDeg)

	sinD := math.Cos(b)*math.Cos(g)*math.Sin(l) + math.Sin(b)*math.Sin(g)
	y := math.Cos(b) * math.Cos(l)
	x := math.Sin(b)*math.Cos(g) - math.Cos(b)*math.Sin(g)*math.Sin(l)

	return Equatorial{
		RAHours: Normalize24((radToDeg(math.Atan2(y, x)) + galacticPoleRADeg) / 15),
		DecDeg:  radToDeg(math.Asin(clamp1(sinD))),
	}
}
