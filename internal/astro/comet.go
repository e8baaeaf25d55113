package astro

import (
	"fmt"
	"math"
)

// Orbit is a comet orbit that can be evaluated at an instant.
type Orbit interface {
	// Heliocentric returns the ecliptic position vector and radius in AU.
	Heliocentric(jd JulianDate) (Vec3, float64, error)
	OrbitName() string
}

// EllipticalOrbit is a periodic comet orbit.
type EllipticalOrbit struct {
	Name             string  `yaml:"name"`
	EpochYear        float64 `yaml:"epoch_year"`         // perihelion passage, decimal year
	PerihelionLonDeg float64 `yaml:"perihelion_lon_deg"` // longitude of perihelion
	NodeDeg          float64 `yaml:"node_deg"`
	PeriodYears      float64 `yaml:"period_years"`
	SemiMajorAxisAU  float64 `yaml:"semi_major_axis_au"`
	Eccentricity     float64 `yaml:"eccentricity"`
	InclinationDeg   float64 `yaml:"inclination_deg"`
}

// OrbitName returns the comet's name.
func (o EllipticalOrbit) OrbitName() string { return o.Name }

// Heliocentric implements Orbit.
func (o EllipticalOrbit) Heliocentric(jd JulianDate) (Vec3, float64, error) {
	years := yearFraction(jd) - o.EpochYear
	m := degToRad(360 * years / o.PeriodYears)

	nu, err := TrueAnomaly(m, o.Eccentricity)
	if err != nil {
		return Vec3{}, 0, fmt.Errorf("comet %s: %w", o.Name, err)
	}
	r := o.SemiMajorAxisAU * (1 - o.Eccentricity*o.Eccentricity) / (1 + o.Eccentricity*math.Cos(nu))
	u := nu + degToRad(o.PerihelionLonDeg-o.NodeDeg)
	return OrbitVector(r, u, o.NodeDeg, o.InclinationDeg), r, nil
}

// ParabolicOrbit is a non-periodic comet orbit.
type ParabolicOrbit struct {
	Name            string  `yaml:"name"`
	PerihelionYear  int     `yaml:"perihelion_year"`
	PerihelionMonth int     `yaml:"perihelion_month"`
	PerihelionDay   float64 `yaml:"perihelion_day"`
	ArgPeriDeg      float64 `yaml:"arg_perihelion_deg"`
	NodeDeg         float64 `yaml:"node_deg"`
	PerihelionAU    float64 `yaml:"perihelion_au"`
	InclinationDeg  float64 `yaml:"inclination_deg"`
}

// OrbitName returns the comet's name.
func (o ParabolicOrbit) OrbitName() string { return o.Name }

// PerihelionJD returns the instant of perihelion passage.
func (o ParabolicOrbit) PerihelionJD() (JulianDate, error) {
	return CalendarToJD(CalendarDate{Year: o.PerihelionYear, Month: o.PerihelionMonth, Day: o.PerihelionDay})
}

// barkerConstant is 3k/sqrt(2), k being the Gaussian gravitational
// constant.
const barkerConstant = 0.0364911624

// Heliocentric implements Orbit by solving Barker's equation.
func (o ParabolicOrbit) Heliocentric(jd JulianDate) (Vec3, float64, error) {
	if o.PerihelionAU <= 0 {
		return Vec3{}, 0, fmt.Errorf("comet %s q=%v: %w", o.Name, o.PerihelionAU, ErrInvalidOrbit)
	}
	tp, err := o.PerihelionJD()
	if err != nil {
		return Vec3{}, 0, fmt.Errorf("comet %s: %w", o.Name, err)
	}
	q := o.PerihelionAU
	s, err := SolveCubic(barkerConstant * float64(jd-tp) / (q * math.Sqrt(q)))
	if err != nil {
		return Vec3{}, 0, fmt.Errorf("comet %s: %w", o.Name, err)
	}
	nu := 2 * math.Atan(s)
	r := q * (1 + s*s)
	return OrbitVector(r, nu+degToRad(o.ArgPeriDeg), o.NodeDeg, o.InclinationDeg), r, nil
}

// Comet is a comet's geocentric position.
type Comet struct {
	Name         string
	Heliocentric Vec3
	RadiusAU     float64
	Ecliptic     Ecliptic
	Equatorial   Equatorial
	DistanceAU   float64
}

// CometPosition evaluates a comet orbit at a UT instant. The Earth is
// placed opposite the Sun at the solar-theory distance.
func CometPosition(jd JulianDate, orbit Orbit) (Comet, error) {
	v, r, err := orbit.Heliocentric(jd)
	if err != nil {
		return Comet{}, err
	}
	geo := v.Sub(EarthFromSun(jd))
	ecl := geo.Ecliptic()
	return Comet{
		Name:         orbit.OrbitName(),
		Heliocentric: v,
		RadiusAU:     r,
		Ecliptic:     ecl,
		Equatorial:   EclipticToEquatorial(ecl, jd),
		DistanceAU:   geo.Norm(),
	}, nil
}
