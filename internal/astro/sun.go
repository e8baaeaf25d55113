package astro

import (
	"math"
)

// Sun is the Sun's position at an instant.
type Sun struct {
	// TrueLonDeg is the geometric ecliptic longitude, used by aberration.
	TrueLonDeg float64
	// Ecliptic is the apparent position (nutation and aberration applied).
	Ecliptic Ecliptic
	// Equatorial is the apparent RA/Dec.
	Equatorial Equatorial

	DistanceAU         float64
	DistanceKm         float64
	AngularDiameterDeg float64
	MeanAnomalyRad     float64
	TrueAnomalyRad     float64
}

// aberrationLonDeg is the constant aberration in the Sun's longitude.
const aberrationLonDeg = 0.005694

// sunAngularDiameterDeg is the apparent diameter at mean distance.
const sunAngularDiameterDeg = 0.533128

// sunTheory holds the intermediate terms of the solar series.
type sunTheory struct {
	lonDeg  float64 // geometric longitude
	radius  float64 // AU
	nu      float64 // true anomaly, rad
	ecc     float64
	meanAnm float64 // rad
}

func solarTheory(jd JulianDate) sunTheory {
	t := jd.julianCenturies1900()
	t2 := t * t

	l := 279.69668 + 0.0003025*t2 + fracDeg(100.0021359*t)
	m1 := 358.47583 - (0.00015+0.0000033*t)*t2 + fracDeg(99.99736042*t)
	ec := 0.01675104 - 0.0000418*t - 0.000000126*t2
	am := degToRad(m1)

	// The solar eccentricity is small enough that this always converges.
	e, _ := EccentricAnomaly(am, ec)
	nu := trueFromEccentric(e, ec)

	// Planetary and lunar perturbations
	a1 := degToRad(153.23 + fracDeg(62.55209472*t))
	b1 := degToRad(216.57 + fracDeg(125.1041894*t))
	c1 := degToRad(312.69 + fracDeg(91.56766028*t))
	d1 := degToRad(350.74 - 0.00144*t2 + fracDeg(1236.853095*t))
	e1 := degToRad(231.19 + 20.2*t)
	h1 := degToRad(353.4 + fracDeg(183.1353208*t))

	d2 := 0.00134*math.Cos(a1) + 0.00154*math.Cos(b1) + 0.002*math.Cos(c1) +
		0.00179*math.Sin(d1) + 0.00178*math.Sin(e1)
	d3 := 0.00000543*math.Sin(a1) + 0.00001575*math.Sin(b1) + 0.00001627*math.Sin(c1) +
		0.00003076*math.Cos(d1) + 0.00000927*math.Sin(h1)

	return sunTheory{
		lonDeg:  Normalize360(radToDeg(nu) + l - m1 + d2),
		radius:  1.0000002*(1-ec*math.Cos(e)) + d3,
		nu:      nu,
		ecc:     ec,
		meanAnm: am,
	}
}

// SunPosition returns the apparent position of the Sun at a UT instant.
func SunPosition(jd JulianDate) Sun {
	th := solarTheory(jd)
	dLon, _ := Nutation(jd)

	ecl := Ecliptic{LonDeg: Normalize360(th.lonDeg + dLon - aberrationLonDeg)}

	// Distance and size from the unperturbed ellipse
	f := (1 + th.ecc*math.Cos(th.nu)) / (1 - th.ecc*th.ecc)

	return Sun{
		TrueLonDeg:         th.lonDeg,
		Ecliptic:           ecl,
		Equatorial:         EclipticToEquatorial(ecl, jd),
		DistanceAU:         th.radius,
		DistanceKm:         149598500 / f,
		AngularDiameterDeg: f * sunAngularDiameterDeg,
		MeanAnomalyRad:     th.meanAnm,
		TrueAnomalyRad:     th.nu,
	}
}

// SunGeometric returns the Sun's geometric ecliptic longitude in degrees
// and its distance in AU.
func SunGeometric(jd JulianDate) (lonDeg, distanceAU float64) {
	th := solarTheory(jd)
	return th.lonDeg, th.radius
}

// EquationOfTime returns apparent minus mean solar time in hours on the UT
// day containing date.
func EquationOfTime(date JulianDate) float64 {
	noon := date.Midnight().AddHours(12)
	lon, _ := SunGeometric(noon)
	eq := EclipticToEquatorial(Ecliptic{LonDeg: lon}, noon)
	ut, _ := GSTToUT(noon.Midnight(), eq.RAHours)
	return ut - 12
}

// SolarElongation returns the angular distance in degrees between a body
// and the Sun at jd.
func SolarElongation(eq Equatorial, jd JulianDate) float64 {
	return AngularSeparation(eq, SunPosition(jd).Equatorial)
}

// SunSeparationTier categorizes sun separation for display.
type SunSeparationTier int

const (
	SunSepSafe    SunSeparationTier = iota // >= 20 degrees
	SunSepCaution                          // 10-20 degrees
	SunSepWarning                          // < 10 degrees
)

// GetSunSeparationTier returns the tier for a given separation angle.
func GetSunSeparationTier(sepDeg float64) SunSeparationTier {
	switch {
	case sepDeg < 10:
		return SunSepWarning
	case sepDeg < 20:
		return SunSepCaution
	default:
		return SunSepSafe
	}
}
