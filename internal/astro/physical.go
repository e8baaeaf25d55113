package astro

import (
	"math"
)

// Solar rotation: the Sun's equator is inclined 7°15' to the ecliptic and
// rotates once in 25.38 days against the stars.
const (
	solarEquatorInclDeg = 7.25
	solarSiderealDays   = 25.38
)

// Mean inclination of the lunar equator to the ecliptic, 1°32'32.7".
var lunarEquatorInclDeg = DMS(1, 32, 32.7)

// Heliographic is a point on the solar surface, longitude counted in the
// Carrington frame.
type Heliographic struct {
	LonDeg float64
	LatDeg float64
}

// SolarDisk returns the orientation of the solar disk at jd: the
// heliographic longitude and latitude of its centre and the position
// angle of the rotation axis, all in degrees.
func SolarDisk(jd JulianDate) (l0Deg, b0Deg, pDeg float64) {
	t := jd.julianCenturies1900()
	node := DMS(74, 22, 0) + 84*t/60
	sunLon, _ := SunGeometric(jd)
	incl := degToRad(solarEquatorInclDeg)

	y := math.Sin(degToRad(node-sunLon)) * math.Cos(incl)
	x := -math.Cos(degToRad(node - sunLon))
	m := Normalize360(360 - 360*float64(jd-2398220)/solarSiderealDays)
	l0Deg = m + radToDeg(math.Atan2(y, x))

	b0Deg = radToDeg(math.Asin(math.Sin(degToRad(sunLon-node)) * math.Sin(incl)))

	th1 := math.Atan(-math.Cos(degToRad(sunLon)) * math.Tan(degToRad(Obliquity(jd))))
	th2 := math.Atan(-math.Cos(degToRad(node-sunLon)) * math.Tan(incl))
	pDeg = radToDeg(th1 + th2)
	return l0Deg, b0Deg, pDeg
}

// HeliographicCoordinates converts a feature seen on the solar disk, given
// by its position angle from north and its distance from the disk centre
// in arcminutes, to heliographic longitude and latitude.
func HeliographicCoordinates(positionAngleDeg, displacementArcmin float64, jd JulianDate) Heliographic {
	l0, b0Deg, p := SolarDisk(jd)
	_, dist := SunGeometric(jd)
	b0 := degToRad(b0Deg)

	rho1 := displacementArcmin / 60
	rho := math.Asin(2*rho1/(sunAngularDiameterDeg/dist)) - degToRad(rho1)
	theta := degToRad(p - positionAngleDeg)

	b := math.Asin(math.Sin(b0)*math.Cos(rho) + math.Cos(b0)*math.Sin(rho)*math.Cos(theta))
	l := radToDeg(math.Asin(math.Sin(rho)*math.Sin(theta)/math.Cos(b))) + l0
	return Heliographic{LonDeg: Normalize360(l), LatDeg: radToDeg(b)}
}

// CarringtonRotation returns the number of the synodic solar rotation in
// progress at jd. Rotation 1690 began on 1980 January 9.84.
func CarringtonRotation(jd JulianDate) int {
	return 1690 + int(math.Round(float64(jd-2444235.34)/27.2753))
}

// Selenographic describes the Moon's orientation: the sub-Earth point
// (optical libration), the position angle of the lunar axis, and the
// sub-solar point that sets the terminator.
type Selenographic struct {
	SubEarthLonDeg float64
	SubEarthLatDeg float64
	PoleAngleDeg   float64
	SubSolarLonDeg float64
	SubSolarLatDeg float64
	ColongitudeDeg float64 // 90° minus the sub-solar longitude
}

// SelenographicCoordinates returns the Moon's orientation at jd.
func SelenographicCoordinates(jd JulianDate) Selenographic {
	t := jd.julianCenturies2000()
	node := 125.044522 - 1934.136261*t
	f := Normalize360(93.27191 + 483202.0175*t)
	incl := degToRad(lunarEquatorInclDeg)

	moon := MoonPosition(jd)
	lon := moon.Ecliptic.LonDeg
	lat := degToRad(moon.Ecliptic.LatDeg)

	// Sub-Earth point and axis position angle
	subLon, subLat := selenographicPoint(node, f, lon, lat, incl)
	w := degToRad(node - lon)
	c1 := math.Atan(math.Cos(w) * math.Sin(incl) /
		(math.Cos(lat)*math.Cos(incl) + math.Sin(lat)*math.Sin(incl)*math.Sin(w)))
	e := degToRad(Obliquity(jd))
	l := degToRad(lon)
	c2 := math.Atan(math.Sin(e) * math.Cos(l) /
		(math.Sin(e)*math.Sin(lat)*math.Sin(l) - math.Cos(e)*math.Cos(lat)))

	// The sub-solar point is seen from the Sun, displaced from the
	// anti-solar direction by the Moon's parallax.
	sunLon, dist := SunGeometric(jd)
	hpDist := moon.HorizontalParallax * 60 * dist
	hLon := sunLon + 180 + 26.4*math.Cos(lat)*math.Sin(degToRad(sunLon-lon))/hpDist
	hLat := 0.14666 * lat / hpDist
	solLon, solLat := selenographicPoint(node, f, hLon, hLat, incl)

	return Selenographic{
		SubEarthLonDeg: subLon,
		SubEarthLatDeg: subLat,
		PoleAngleDeg:   radToDeg(c1 + c2),
		SubSolarLonDeg: solLon,
		SubSolarLatDeg: solLat,
		ColongitudeDeg: 90 - solLon,
	}
}

// selenographicPoint maps a direction with ecliptic longitude lonDeg and
// latitude latRad onto the lunar globe. Longitude is in (-180, 180].
func selenographicPoint(nodeDeg, fDeg, lonDeg, latRad, incl float64) (lon, lat float64) {
	w := degToRad(nodeDeg - lonDeg)
	sinB := -math.Cos(incl)*math.Sin(latRad) + math.Sin(incl)*math.Cos(latRad)*math.Sin(w)
	a := math.Atan2(-math.Sin(latRad)*math.Sin(incl)-math.Cos(latRad)*math.Cos(incl)*math.Sin(w),
		math.Cos(latRad)*math.Cos(w))

	lon = Normalize360(radToDeg(a) - fDeg)
	if lon > 180 {
		lon -= 360
	}
	return lon, radToDeg(math.Asin(sinB))
}
