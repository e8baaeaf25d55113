package astro

import (
	"fmt"
	"math"
)

// lightTimeDaysPerAU is the light travel time across 1 AU in days.
const lightTimeDaysPerAU = 0.0057755183

// Planet is a planet's geocentric position and visual aspect.
type Planet struct {
	Name string

	// Heliocentric is the ecliptic vector at the light-time corrected
	// instant.
	Heliocentric   Vec3
	HelioLonDeg    float64
	RadiusAU       float64
	Ecliptic       Ecliptic
	Equatorial     Equatorial
	DistanceAU     float64
	Phase          float64 // illuminated fraction
	Magnitude      float64
	DiameterArcsec float64
	LightTimeHours float64
}

// PlanetPosition evaluates a planet's orbit for a UT instant, correcting
// for the light time between the planet and Earth.
func PlanetPosition(jd JulianDate, planet, earth OrbitalElements) (Planet, error) {
	earthVec, _, _, err := earth.heliocentric(jd)
	if err != nil {
		return Planet{}, fmt.Errorf("earth: %w", err)
	}
	pv, _, _, err := planet.heliocentric(jd)
	if err != nil {
		return Planet{}, fmt.Errorf("%s: %w", planet.Name, err)
	}
	delta := pv.Sub(earthVec).Norm()

	// Where the planet was when the light left it
	pv, r, _, err := planet.heliocentric(jd - JulianDate(delta*lightTimeDaysPerAU))
	if err != nil {
		return Planet{}, fmt.Errorf("%s: %w", planet.Name, err)
	}
	geo := pv.Sub(earthVec)
	delta = geo.Norm()
	ecl := geo.Ecliptic()
	hl := pv.Ecliptic().LonDeg

	phase := 0.5 * (1 + math.Cos(degToRad(ecl.LonDeg-hl)))
	return Planet{
		Name:           planet.Name,
		Heliocentric:   pv,
		HelioLonDeg:    hl,
		RadiusAU:       r,
		Ecliptic:       ecl,
		Equatorial:     EclipticToEquatorial(ecl, jd),
		DistanceAU:     delta,
		Phase:          phase,
		Magnitude:      5*math.Log10(r*delta/math.Sqrt(phase)) + planet.MagnitudeV0,
		DiameterArcsec: planet.AngularDiameterArcsec / delta,
		LightTimeHours: LightTimeFromAU(delta) / 3600,
	}, nil
}
