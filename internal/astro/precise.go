package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrMissingElements is returned when a planet, or a planet whose
// attraction perturbs it, has no secular elements.
var ErrMissingElements = errors.New("missing secular elements")

// SecularElements give a planet's orbit as cubic polynomials in Julian
// centuries from 1900 January 0.5. Each polynomial is [c0, c1, c2, c3].
//
// MeanLon is special: c1 counts whole revolutions per century, so the
// mean longitude is c0 + 360*frac(c1*t) + (c3*t + c2)*t*t.
type SecularElements struct {
	Name                  string     `yaml:"name" json:"name"`
	MeanLon               [4]float64 `yaml:"mean_lon" json:"mean_lon"`
	Perihelion            [4]float64 `yaml:"perihelion" json:"perihelion"`
	Eccentricity          [4]float64 `yaml:"eccentricity" json:"eccentricity"`
	Inclination           [4]float64 `yaml:"inclination" json:"inclination"`
	Node                  [4]float64 `yaml:"node" json:"node"`
	SemiMajorAxisAU       float64    `yaml:"semi_major_axis_au" json:"semi_major_axis_au"`
	AngularDiameterArcsec float64    `yaml:"angular_diameter_arcsec" json:"angular_diameter_arcsec"`
	MagnitudeV0           float64    `yaml:"magnitude_v0" json:"magnitude_v0"`
}

// meanOrbit is a set of secular elements evaluated at one instant.
type meanOrbit struct {
	lonDeg    float64
	motionDeg float64 // degrees per day
	periDeg   float64
	ecc       float64
	inclDeg   float64
	nodeDeg   float64
}

func cubic(c [4]float64, t float64) float64 {
	return ((c[3]*t+c[2])*t+c[1])*t + c[0]
}

func (s SecularElements) at(t float64) meanOrbit {
	a := s.MeanLon
	return meanOrbit{
		lonDeg:    Normalize360(a[0] + fracDeg(a[1]*t) + (a[3]*t+a[2])*t*t),
		motionDeg: a[1]*0.009856263 + (a[2]+a[3])/36525,
		periDeg:   cubic(s.Perihelion, t),
		ecc:       cubic(s.Eccentricity, t),
		inclDeg:   cubic(s.Inclination, t),
		nodeDeg:   cubic(s.Node, t),
	}
}

// perturbation holds the corrections one planet's neighbours make to its
// osculating orbit. Angles are radians unless noted.
type perturbation struct {
	lonDeg  float64 // heliocentric longitude, degrees
	radius  float64 // radius vector, AU
	arg     float64 // longitude of perihelion
	ecc     float64
	anomaly float64 // mean anomaly
	axis    float64 // semi-major axis, AU
	lat     float64 // heliocentric latitude
}

// PlanetPositionPrecise evaluates a planet from secular elements with
// the major planetary perturbations applied. Mercury, Venus and Mars
// are perturbed through the mean anomalies of their neighbours, so
// theory must also hold the planets they depend on.
func PlanetPositionPrecise(jd JulianDate, name string, theory []SecularElements) (Planet, error) {
	t := jd.julianCenturies1900()
	byName := make(map[string]SecularElements, len(theory))
	for _, s := range theory {
		byName[s.Name] = s
	}
	el, ok := byName[name]
	if !ok {
		return Planet{}, fmt.Errorf("%s: %w", name, ErrMissingElements)
	}
	for _, need := range perturbers[name] {
		if _, ok := byName[need]; !ok {
			return Planet{}, fmt.Errorf("%s perturbed by %s: %w", name, need, ErrMissingElements)
		}
	}

	orbits := make(map[string]meanOrbit, len(byName))
	for n, s := range byName {
		orbits[n] = s.at(t)
	}
	mo := orbits[name]

	// The solar mean anomaly here runs at the Sun's mean-longitude rate.
	ms := math.Mod(degToRad(358.47583-(0.00015+0.0000033*t)*t*t+fracDeg(100.0021359*t)), 2*math.Pi)
	sunLon, re := SunGeometric(jd)
	lg := degToRad(sunLon) + math.Pi

	var (
		li      float64 // light time, days
		helio   Vec3
		radius  float64
		helioLn float64
		delta   float64
	)
	for k := 0; k < 3; k++ {
		ap := make(map[string]float64, len(orbits))
		for n, o := range orbits {
			ap[n] = degToRad(o.lonDeg - o.periDeg - li*o.motionDeg)
		}

		var q perturbation
		switch name {
		case "Mercury":
			q = mercuryTerms(ap)
		case "Venus":
			q = venusTerms(ap, ms, t)
		case "Mars":
			q = marsTerms(ap, ms)
		case "Jupiter", "Saturn":
			q = jupiterSaturnTerms(name, t, mo.ecc)
		case "Uranus", "Neptune":
			q = uranusNeptuneTerms(name, t, mo.ecc)
		}

		ec := mo.ecc + q.ecc
		nu, err := TrueAnomaly(ap[name]+q.anomaly, ec)
		if err != nil {
			return Planet{}, fmt.Errorf("%s: %w", name, err)
		}
		r := (el.SemiMajorAxisAU+q.axis)*(1-ec*ec)/(1+ec*math.Cos(nu)) + q.radius
		lp := nu + degToRad(mo.periDeg) + q.arg - q.anomaly
		om := degToRad(mo.nodeDeg)
		incl := degToRad(mo.inclDeg)
		so, co := math.Sincos(lp - om)

		psi := math.Asin(so*math.Sin(incl)) + q.lat
		lon := math.Atan2(so*math.Cos(incl), co) + om + degToRad(q.lonDeg)

		rd := r * math.Cos(psi)
		helio = Vec3{rd * math.Cos(lon), rd * math.Sin(lon), r * math.Sin(psi)}
		earth := Vec3{re * math.Cos(lg), re * math.Sin(lg), 0}
		delta = helio.Sub(earth).Norm()
		radius = r
		helioLn = Normalize360(radToDeg(lon))
		li = delta * lightTimeDaysPerAU
	}

	geo := helio.Sub(Vec3{re * math.Cos(lg), re * math.Sin(lg), 0})
	ecl := geo.Ecliptic()
	phase := 0.5 * (1 + math.Cos(degToRad(ecl.LonDeg-helioLn)))
	return Planet{
		Name:           name,
		Heliocentric:   helio,
		HelioLonDeg:    helioLn,
		RadiusAU:       radius,
		Ecliptic:       ecl,
		Equatorial:     EclipticToEquatorial(ecl, jd),
		DistanceAU:     delta,
		Phase:          phase,
		Magnitude:      5*math.Log10(radius*delta/math.Sqrt(phase)) + el.MagnitudeV0,
		DiameterArcsec: el.AngularDiameterArcsec / delta,
		LightTimeHours: LightTimeFromAU(delta) / 3600,
	}, nil
}

// perturbers lists the planets whose mean anomalies enter each inner
// planet's terms.
var perturbers = map[string][]string{
	"Mercury": {"Venus", "Jupiter"},
	"Venus":   {"Jupiter"},
	"Mars":    {"Venus", "Jupiter"},
}

func mercuryTerms(ap map[string]float64) perturbation {
	me, ve, ju := ap["Mercury"], ap["Venus"], ap["Jupiter"]

	qa := 0.00204*math.Cos(5*ve-2*me+0.21328) +
		0.00103*math.Cos(2*ve-me-2.8046) +
		0.00091*math.Cos(2*ju-me-0.64582) +
		0.00078*math.Cos(5*ve-3*me+0.17692)
	qb := 0.000007525*math.Cos(2*ju-me+0.925251) +
		0.000006802*math.Cos(5*ve-3*me-4.53642) +
		0.000005457*math.Cos(2*ve-2*me-1.24246) +
		0.000003569*math.Cos(5*ve-me-1.35699)

	return perturbation{lonDeg: qa, radius: qb}
}

func venusTerms(ap map[string]float64, ms, t float64) perturbation {
	ve, ju := ap["Venus"], ap["Jupiter"]
	qc := degToRad(0.00077 * math.Sin(4.1406+t*2.6227))

	qa := 0.00313*math.Cos(2*ms-2*ve-2.587) +
		0.00198*math.Cos(3*ms-3*ve+0.044768) +
		0.00136*math.Cos(ms-ve-2.0788) +
		0.00096*math.Cos(3*ms-2*ve-2.3721) +
		0.00082*math.Cos(ju-ve-3.6318)
	qb := 0.000022501*math.Cos(2*ms-2*ve-1.01592) +
		0.000019045*math.Cos(3*ms-3*ve+1.61577) +
		0.000006887*math.Cos(ju-ve-2.06106) +
		0.000005172*math.Cos(ms-ve-0.508065) +
		0.00000362*math.Cos(5*ms-4*ve-1.81877) +
		0.000003283*math.Cos(4*ms-4*ve+1.10851) +
		0.000003074*math.Cos(2*ju-2*ve-0.962846)

	return perturbation{lonDeg: qa, radius: qb, arg: qc, anomaly: qc}
}

func marsTerms(ap map[string]float64, ms float64) perturbation {
	ve, ma, ju := ap["Venus"], ap["Mars"], ap["Jupiter"]
	sa, ca := math.Sincos(3*ju - 8*ma + 4*ms)
	qc := degToRad(-(0.01133*sa + 0.00933*ca))

	qa := 0.00705*math.Cos(ju-ma-0.85448) +
		0.00607*math.Cos(2*ju-ma-3.2873) +
		0.00445*math.Cos(2*ju-2*ma-3.3492) +
		0.00388*math.Cos(ms-2*ma+0.35771) +
		0.00238*math.Cos(ms-ma+0.61256) +
		0.00204*math.Cos(2*ms-3*ma+2.7688) +
		0.00177*math.Cos(3*ma-ve-1.0053) +
		0.00136*math.Cos(2*ms-4*ma+2.6894) +
		0.00104*math.Cos(ju+0.30749)
	qb := 0.000053227*math.Cos(ju-ma+0.717864) +
		0.000050989*math.Cos(2*ju-2*ma-1.77997) +
		0.000038278*math.Cos(2*ju-ma-1.71617) +
		0.000015996*math.Cos(ms-ma-0.969618) +
		0.000014764*math.Cos(2*ms-3*ma+1.19768) +
		0.000008966*math.Cos(ju-2*ma+0.761225) +
		0.000007914*math.Cos(3*ju-2*ma-2.43887) +
		0.000007004*math.Cos(2*ju-3*ma-1.79573) +
		0.00000662*math.Cos(ms-2*ma+1.97575) +
		0.00000493*math.Cos(3*ju-3*ma-1.33069) +
		0.000004693*math.Cos(3*ms-5*ma+3.32665) +
		0.000004571*math.Cos(2*ms-4*ma+4.27086) +
		0.000004409*math.Cos(3*ju-ma-2.02158)

	return perturbation{lonDeg: qa, radius: qb, arg: qc, anomaly: qc}
}

// outerArgs are the long-period arguments shared by the outer planets.
type outerArgs struct {
	j1, j2, j3, j4, j5, j6 float64
}

func newOuterArgs(t float64) outerArgs {
	j2 := unwindRad(4.14473 + 52.9691*t)
	j3 := unwindRad(4.641118 + 21.32991*t)
	j4 := unwindRad(4.250177 + 7.478172*t)
	return outerArgs{
		j1: t/5 + 0.1,
		j2: j2,
		j3: j3,
		j4: j4,
		j5: 5*j3 - 2*j2,
		j6: 2*j2 - 6*j3 + 3*j4,
	}
}

func unwindRad(a float64) float64 {
	return a - 2*math.Pi*math.Floor(a/(2*math.Pi))
}

func jupiterSaturnTerms(name string, t, ecc float64) perturbation {
	g := newOuterArgs(t)
	j1 := g.j1
	j7 := g.j3 - g.j2
	u1, u2 := math.Sincos(g.j3)
	u3, u4 := math.Sincos(2 * g.j3)
	u5, u6 := math.Sincos(g.j5)
	u7 := math.Sin(2 * g.j5)
	u8a := math.Sin(g.j6)
	u9, ua := math.Sincos(j7)
	ub, uc := math.Sincos(2 * j7)
	ud, ue := math.Sincos(3 * j7)
	uf, ug := math.Sincos(4 * j7)
	vh := math.Cos(5 * j7)

	var q perturbation
	if name == "Saturn" {
		ui, uj := math.Sincos(3 * g.j3)
		uk, ul := math.Sincos(4 * g.j3)
		vi := math.Cos(2 * g.j5)
		un := math.Sin(5 * j7)
		j8 := g.j4 - g.j3
		uo, up := math.Sincos(2 * j8)
		uq, ur := math.Sincos(3 * j8)

		qc := 0.007581*u7 - 0.007986*u8a - 0.148811*u9
		qc -= (0.814181 - (0.01815-0.016714*j1)*j1) * u5
		qc -= (0.010497 - (0.160906-0.0041*j1)*j1) * u6
		qc = qc - 0.015208*ud - 0.006339*uf - 0.006244*u1
		qc = qc - 0.0165*ub*u1 - 0.040786*ub
		qc = qc + (0.008931+0.002728*j1)*u9*u1 - 0.005775*ud*u1
		qc = qc + (0.081344+0.003206*j1)*ua*u1 + 0.015019*uc*u1
		qc = qc + (0.085581+0.002494*j1)*u9*u2 + 0.014394*uc*u2
		qc = qc + (0.025328-0.003117*j1)*ua*u2 + 0.006319*ue*u2
		qc = qc + 0.006369*u9*u3 + 0.009156*ub*u3 + 0.007525*uq*u3
		qc = qc - 0.005236*ua*u4 - 0.007736*uc*u4 - 0.007528*ur*u4
		q.arg = degToRad(qc)

		qd := (-7927 + (2548+91*j1)*j1) * u5
		qd = qd + (13381+(1226-253*j1)*j1)*u6 + (248-121*j1)*u7
		qd = qd - (305+91*j1)*vi + 412*ub + 12415*u1
		qd = qd + (390-617*j1)*u9*u1 + (165-204*j1)*ub*u1
		qd = qd + 26599*ua*u1 - 4687*uc*u1 - 1870*ue*u1 - 821*ug*u1
		qd = qd - 377*vh*u1 + 497*up*u1 + (163-611*j1)*u2
		qd = qd - 12696*u9*u2 - 4200*ub*u2 - 1503*ud*u2 - 619*uf*u2
		qd = qd - 268*un*u2 - (282+1306*j1)*ua*u2
		qd = qd + (-86+230*j1)*uc*u2 + 461*uo*u2 - 350*u3
		qd = qd + (2211-286*j1)*u9*u3 - 2208*ub*u3 - 568*ud*u3
		qd = qd - 346*uf*u3 - (2780+222*j1)*ua*u3
		qd = qd + (2022+263*j1)*uc*u3 + 248*ue*u3 + 242*uq*u3
		qd = qd + 467*ur*u3 - 490*u4 - (2842+279*j1)*u9*u4
		qd = qd + (128+226*j1)*ub*u4 + 224*ud*u4
		qd = qd + (-1594+282*j1)*ua*u4 + (2162-207*j1)*uc*u4
		qd = qd + 561*ue*u4 + 343*ug*u4 + 469*uq*u4 - 242*ur*u4
		qd = qd - 205*u9*ui + 262*ud*ui + 208*ua*uj - 271*ue*uj
		qd = qd - 382*ue*uk - 376*ud*ul
		q.ecc = qd * 1e-7

		vk := (0.077108 + (0.007186-0.001533*j1)*j1) * u5
		vk -= 0.007075 * u9
		vk += (0.045803 - (0.014766+0.000536*j1)*j1) * u6
		vk = vk - 0.072586*u2 - 0.075825*u9*u1 - 0.024839*ub*u1
		vk = vk - 0.008631*ud*u1 - 0.150383*ua*u2
		vk = vk + 0.026897*uc*u2 + 0.010053*ue*u2
		vk = vk - (0.013597+0.001719*j1)*u9*u3 + 0.011981*ub*u4
		vk -= (0.007742 - 0.001517*j1) * ua * u3
		vk += (0.013586 - 0.001375*j1) * uc * u3
		vk -= (0.013667 - 0.001239*j1) * u9 * u4
		vk += (0.014861 + 0.001136*j1) * ua * u4
		vk -= (0.013064 + 0.001628*j1) * uc * u4
		q.anomaly = q.arg - degToRad(vk)/ecc

		qf := 572*u5 - 1590*ub*u2 + 2933*u6 - 647*ud*u2
		qf = qf + 33629*ua - 344*uf*u2 - 3081*uc + 2885*ua*u2
		qf = qf - 1423*ue + (2172+102*j1)*uc*u2 - 671*ug
		qf = qf + 296*ue*u2 - 320*vh - 267*ub*u3 + 1098*u1
		qf = qf - 778*ua*u3 - 2812*u9*u1 + 495*uc*u3 + 688*ub*u1
		qf = qf + 250*ue*u3 - 393*ud*u1 - 856*u9*u4 - 228*uf*u1
		qf = qf + 441*ub*u4 + 2138*ua*u1 + 296*uc*u4 - 999*uc*u1
		qf = qf + 211*ue*u4 - 642*ue*u1 - 427*u9*ui - 325*ug*u1
		qf = qf + 398*ud*ui - 890*u2 + 344*ua*uj + 2206*u9*u2
		qf -= 427 * ue * uj
		q.axis = qf * 1e-6

		qg := 0.000747*ua*u1 + 0.001069*ua*u2 + 0.002108*ub*u3
		qg = qg + 0.001261*uc*u3 + 0.001236*ub*u4 - 0.002075*uc*u4
		q.lat = degToRad(qg)
		return q
	}

	qc := (0.331364 - (0.010281+0.004692*j1)*j1) * u5
	qc += (0.003228 - (0.064436-0.002075*j1)*j1) * u6
	qc -= (0.003083 + (0.000275-0.000489*j1)*j1) * u7
	qc = qc + 0.002472*u8a + 0.013619*u9 + 0.018472*ub
	qc = qc + 0.006717*ud + 0.002775*uf + 0.006417*ub*u1
	qc = qc + (0.007275-0.001253*j1)*u9*u1 + 0.002439*ud*u1
	qc = qc - (0.035681+0.001208*j1)*u9*u2 - 0.003767*uc*u1
	qc = qc - (0.033839+0.001125*j1)*ua*u1 - 0.004261*ub*u2
	qc = qc + (0.001161*j1-0.006333)*ua*u2 + 0.002178*u2
	qc = qc - 0.006675*uc*u2 - 0.002664*ue*u2 - 0.002572*u9*u3
	qc = qc - 0.003567*ub*u3 + 0.002094*ua*u4 + 0.003342*uc*u4
	q.arg = degToRad(qc)

	qd := (3606+(130-43*j1)*j1)*u5 + (1289-580*j1)*u6
	qd = qd - 6764*u9*u1 - 1110*ub*u1 - 224*ud*u1 - 204*u1
	qd = qd + (1284+116*j1)*ua*u1 + 188*uc*u1
	qd = qd + (1460+130*j1)*u9*u2 + 224*ub*u2 - 817*u2
	qd = qd + 6074*u2*ua + 992*uc*u2 + 508*ue*u2 + 230*ug*u2
	qd = qd + 108*vh*u2 - (956+73*j1)*u9*u3 + 448*ub*u3
	qd = qd + 137*ud*u3 + (108*j1-997)*ua*u3 + 480*uc*u3
	qd = qd + 148*ue*u3 + (99*j1-956)*u9*u4 + 490*ub*u4
	qd = qd + 158*ud*u4 + 179*u4 + (1024+75*j1)*ua*u4
	qd = qd - 437*uc*u4 - 132*ue*u4
	q.ecc = qd * 1e-7

	vk := (0.007192-0.003147*j1)*u5 - 0.004344*u1
	vk += (j1*(0.000197*j1-0.000675) - 0.020428) * u6
	vk = vk + 0.034036*ua*u1 + (0.007269+0.000672*j1)*u9*u1
	vk = vk + 0.005614*uc*u1 + 0.002964*ue*u1 + 0.037761*u9*u2
	vk = vk + 0.006158*ub*u2 - 0.006603*ua*u2 - 0.005356*u9*u3
	vk = vk + 0.002722*ub*u3 + 0.004483*ua*u3
	vk = vk - 0.002642*uc*u3 + 0.004403*u9*u4
	vk = vk - 0.002536*ub*u4 + 0.005547*ua*u4 - 0.002689*uc*u4
	q.anomaly = q.arg - degToRad(vk)/ecc

	qf := 205*ua - 263*u6 + 693*uc + 312*ue + 147*ug + 299*u9*u1
	qf = qf + 181*uc*u1 + 204*ub*u2 + 111*ud*u2 - 337*ua*u2
	qf -= 111 * uc * u2
	q.axis = qf * 1e-6
	return q
}

func uranusNeptuneTerms(name string, t, ecc float64) perturbation {
	g := newOuterArgs(t)
	j1, j4 := g.j1, g.j4
	j8 := unwindRad(1.46205 + 3.81337*t)
	j9 := 2*j8 - j4
	vj, uu := math.Sincos(j9)
	uv, uw := math.Sincos(2 * j9)

	var q perturbation
	if name == "Neptune" {
		ja := j8 - g.j2
		jb := j8 - g.j3
		jc := j8 - j4

		qc := (0.001089*j1-0.589833)*vj + (0.004658*j1-0.056094)*uu - 0.024286*uv
		q.arg = degToRad(qc)

		vk := 0.024039*vj - 0.025303*uu + 0.006206*uv - 0.005992*uw
		q.anomaly = q.arg - degToRad(vk)/ecc

		q.ecc = (4389*vj + 1129*uv + 4262*uu + 1089*uw) * 1e-7
		q.axis = (8189*uu - 817*vj + 781*uw) * 1e-6

		vd, ve := math.Sincos(2 * jc)
		vf, vg := math.Sincos(j8)
		q.lonDeg = -0.009556*math.Sin(ja) - 0.005178*math.Sin(jb) +
			0.002572*vd - 0.002972*ve*vf - 0.002833*vd*vg
		q.lat = degToRad(0.000336*ve*vf + 0.000364*vd*vg)
		q.radius = (-40596 + 4992*math.Cos(ja) + 2744*math.Cos(jb) +
			2044*math.Cos(jc) + 1051*ve) * 1e-6
		return q
	}

	ja := j4 - g.j2
	jb := j4 - g.j3
	jc := j8 - j4

	qc := (0.864319-0.001583*j1)*vj + (0.082222-0.006833*j1)*uu + 0.036017*uv
	qc = qc - 0.003019*uw + 0.008122*math.Sin(g.j6)
	q.arg = degToRad(qc)

	vk := 0.120303*vj + 0.006197*uv + (0.019472-0.000947*j1)*uu
	q.anomaly = q.arg - degToRad(vk)/ecc

	q.ecc = ((163*j1-3349)*vj + 20981*uu + 1311*uw) * 1e-7
	q.axis = -0.003825 * uu

	qa := (-0.038581 + (0.002031-0.00191*j1)*j1) * math.Cos(j4+jb)
	qa += (0.010122 - 0.000988*j1) * math.Sin(j4+jb)
	qa += (0.034964 - (0.001038-0.000868*j1)*j1) * math.Cos(2*j4+jb)
	qa = qa + 0.005594*math.Sin(j4+3*jc) - 0.014808*math.Sin(ja)
	qa = qa - 0.005794*math.Sin(jb) + 0.002347*math.Cos(jb)
	qa = qa + 0.009872*math.Sin(jc) + 0.008803*math.Sin(2*jc)
	qa -= 0.004308 * math.Sin(3*jc)
	q.lonDeg = qa

	ux, uy := math.Sincos(jb)
	uz, va := math.Sincos(j4)
	vb, vc := math.Sincos(2 * j4)
	qg := (0.000458*ux - 0.000642*uy - 0.000517*math.Cos(4*jc)) * uz
	qg -= (0.000347*ux + 0.000853*uy + 0.000517*math.Sin(4*jb)) * va
	qg += 0.000403 * (math.Cos(2*jc)*vb + math.Sin(2*jc)*vc)
	q.lat = degToRad(qg)

	qb := -25948 + 4985*math.Cos(ja) - 1230*va + 3354*uy
	qb = qb + 904*math.Cos(2*jc) + 894*(math.Cos(jc)-math.Cos(3*jc))
	qb += (5795*va - 1165*uz + 1388*vc) * ux
	qb += (1351*va + 5702*uz + 1388*vb) * uy
	q.radius = qb * 1e-6
	return q
}
