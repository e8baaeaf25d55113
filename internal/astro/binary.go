package astro

import (
	"math"
)

// BinaryOrbit holds the relative orbit of a visual binary star.
type BinaryOrbit struct {
	Name           string  `yaml:"name"`
	PeriodYears    float64 `yaml:"period_years"`
	EpochYear      float64 `yaml:"epoch_year"` // periastron passage
	PeriastronDeg  float64 `yaml:"periastron_deg"`
	Eccentricity   float64 `yaml:"eccentricity"`
	AxisArcsec     float64 `yaml:"axis_arcsec"`
	InclinationDeg float64 `yaml:"inclination_deg"`
	NodePADeg      float64 `yaml:"node_pa_deg"` // position angle of the ascending node
}

// BinaryPosition returns the position angle (degrees east of north) and
// separation (arc seconds) of the companion at jd.
func BinaryPosition(jd JulianDate, b BinaryOrbit) (posAngleDeg, sepArcsec float64, err error) {
	years := yearFraction(jd) - b.EpochYear
	m := degToRad(360 * years / b.PeriodYears)

	e, err := EccentricAnomaly(m, b.Eccentricity)
	if err != nil {
		return 0, 0, err
	}
	nu := trueFromEccentric(e, b.Eccentricity)
	r := (1 - b.Eccentricity*math.Cos(e)) * b.AxisArcsec
	u := nu + degToRad(b.PeriastronDeg)

	su, cu := math.Sincos(u)
	theta := Normalize360(radToDeg(math.Atan2(su*math.Cos(degToRad(b.InclinationDeg)), cu)) + b.NodePADeg)
	rho := r * cu / math.Cos(degToRad(theta-b.NodePADeg))
	return theta, rho, nil
}
