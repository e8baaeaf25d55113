package astro

import (
	"math"
)

// OrbitalElements describe a planet's mean orbit at the 2010 January 0.0
// epoch.
type OrbitalElements struct {
	Name                  string  `yaml:"name" json:"name"`
	PeriodYears           float64 `yaml:"period_years" json:"period_years"`             // tropical years
	EpochLonDeg           float64 `yaml:"epoch_lon_deg" json:"epoch_lon_deg"`           // mean longitude at epoch
	PerihelionLonDeg      float64 `yaml:"perihelion_lon_deg" json:"perihelion_lon_deg"` // longitude of perihelion
	Eccentricity          float64 `yaml:"eccentricity" json:"eccentricity"`
	SemiMajorAxisAU       float64 `yaml:"semi_major_axis_au" json:"semi_major_axis_au"`
	InclinationDeg        float64 `yaml:"inclination_deg" json:"inclination_deg"`
	NodeDeg               float64 `yaml:"node_deg" json:"node_deg"`                               // longitude of ascending node
	AngularDiameterArcsec float64 `yaml:"angular_diameter_arcsec" json:"angular_diameter_arcsec"` // at 1 AU
	MagnitudeV0           float64 `yaml:"magnitude_v0" json:"magnitude_v0"`                       // at 1 AU, full phase
}

// planetEpoch is 2010 January 0.0.
const planetEpoch JulianDate = 2455196.5

// heliocentric returns the heliocentric ecliptic vector (AU), radius and
// heliocentric longitude of the orbit at jd.
func (el OrbitalElements) heliocentric(jd JulianDate) (Vec3, float64, float64, error) {
	d := float64(jd - planetEpoch)
	np := Normalize360(360 * d / (365.242191 * el.PeriodYears))
	m := degToRad(np + el.EpochLonDeg - el.PerihelionLonDeg)

	nu, err := TrueAnomaly(m, el.Eccentricity)
	if err != nil {
		return Vec3{}, 0, 0, err
	}
	l := radToDeg(nu) + el.PerihelionLonDeg
	r := el.SemiMajorAxisAU * (1 - el.Eccentricity*el.Eccentricity) / (1 + el.Eccentricity*math.Cos(nu))
	u := degToRad(l - el.NodeDeg)

	return OrbitVector(r, u, el.NodeDeg, el.InclinationDeg), r, Normalize360(l), nil
}
