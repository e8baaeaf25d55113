package astro

import (
	"math"
)

// Moon is the geocentric position of the Moon.
type Moon struct {
	Ecliptic           Ecliptic // geometric, without nutation
	Equatorial         Equatorial
	HorizontalParallax float64 // degrees
	DistanceKm         float64
	AngularDiameterDeg float64
}

// moonArgs are the fundamental lunar arguments in radians.
type moonArgs struct {
	ml, ms, md, me, mf, na float64
	c                      float64 // node term used by the latitude correction
	e                      float64 // eccentricity factor of the Earth's orbit
}

func lunarArguments(jd JulianDate) moonArgs {
	t := jd.julianCenturies1900()
	t2 := t * t
	q := float64(jd - B1900)
	rev := func(period float64) float64 { return fracDeg(q / period) }

	ml := 270.434164 + rev(27.32158213) - (0.001133-0.0000019*t)*t2
	ms := 358.475833 + rev(365.2596407) - (0.00015+0.0000033*t)*t2
	md := 296.104608 + rev(27.55455094) + (0.009192+0.0000144*t)*t2
	me := 350.737486 + rev(29.53058868) - (0.001436-0.0000019*t)*t2
	mf := 11.250889 + rev(27.21222039) - (0.003211+0.0000003*t)*t2
	na := 259.183275 - rev(6798.363307) + (0.002078+0.0000022*t)*t2

	s1 := math.Sin(degToRad(51.2 + 20.2*t))
	s2 := math.Sin(degToRad(na))
	s3 := 0.003964 * math.Sin(degToRad(346.56+(132.87-0.0091731*t)*t))
	c := degToRad(na + 275.05 - 2.3*t)
	s4 := math.Sin(c)

	ml += 0.000233*s1 + s3 + 0.001964*s2
	ms -= 0.001778 * s1
	md += 0.000817*s1 + s3 + 0.002541*s2
	mf += s3 - 0.024691*s2 - 0.004328*s4
	me += 0.002011*s1 + s3 + 0.001964*s2

	return moonArgs{
		ml: degToRad(ml), ms: degToRad(ms), md: degToRad(md),
		me: degToRad(me), mf: degToRad(mf), na: degToRad(na),
		c: c,
		e: 1 - (0.002495+0.00000752*t)*t,
	}
}

// moonLongitude returns the perturbation in longitude, degrees.
func moonLongitude(a moonArgs) float64 {
	md, ms, me, mf, e := a.md, a.ms, a.me, a.mf, a.e
	e2 := e * e
	sin := math.Sin

	l := 6.28875*sin(md) + 1.274018*sin(2*me-md)
	l += 0.658309*sin(2*me) + 0.213616*sin(2*md)
	l += -e*0.185596*sin(ms) - 0.114336*sin(2*mf)
	l += 0.058793 * sin(2*(me-md))
	l += 0.057212*e*sin(2*me-ms-md) + 0.05332*sin(2*me+md)
	l += 0.045874*e*sin(2*me-ms) + 0.041024*e*sin(md-ms)
	l += -0.034718*sin(me) - e*0.030465*sin(ms+md)
	l += 0.015326*sin(2*(me-mf)) - 0.012528*sin(2*mf+md)
	l += -0.01098*sin(2*mf-md) + 0.010674*sin(4*me-md)
	l += 0.010034*sin(3*md) + 0.008548*sin(4*me-2*md)
	l += -e*0.00791*sin(ms-md+2*me) - e*0.006783*sin(2*me+ms)
	l += 0.005162*sin(md-me) + e*0.005*sin(ms+me)
	l += 0.003862*sin(4*me) + e*0.004049*sin(md-ms+2*me)
	l += 0.003996*sin(2*(md+me)) + 0.003665*sin(2*me-3*md)
	l += e*0.002695*sin(2*md-ms) + 0.002602*sin(md-2*(mf+me))
	l += e*0.002396*sin(2*(me-md)-ms) - 0.002349*sin(md+me)
	l += e2*0.002249*sin(2*(me-ms)) - e*0.002125*sin(2*md+ms)
	l += -e2*0.002079*sin(2*ms) + e2*0.002059*sin(2*(me-ms)-md)
	l += -0.001773*sin(md+2*(me-mf)) - 0.001595*sin(2*(mf+me))
	l += e*0.00122*sin(4*me-ms-md) - 0.00111*sin(2*(md+mf))
	l += 0.000892*sin(md-3*me) - e*0.000811*sin(ms+md+2*me)
	l += e * 0.000761 * sin(4*me-ms-2*md)
	l += e2 * 0.000704 * sin(md-2*(ms+me))
	l += e * 0.000693 * sin(ms-2*(md-me))
	l += e * 0.000598 * sin(2*(me-mf)-ms)
	l += 0.00055*sin(md+4*me) + 0.000538*sin(4*md)
	l += e*0.000521*sin(4*me-ms) + 0.000486*sin(2*md-me)
	l += e2 * 0.000717 * sin(md-2*ms)
	return l
}

// moonLatitude returns the ecliptic latitude, degrees.
func moonLatitude(a moonArgs) float64 {
	md, ms, me, mf, e := a.md, a.ms, a.me, a.mf, a.e
	e2 := e * e
	sin := math.Sin

	g := 5.128189*sin(mf) + 0.280606*sin(md+mf)
	g += 0.277693*sin(md-mf) + 0.173238*sin(2*me-mf)
	g += 0.055413*sin(2*me+mf-md) + 0.046272*sin(2*me-mf-md)
	g += 0.032573*sin(2*me+mf) + 0.017198*sin(2*md+mf)
	g += 0.009267*sin(2*me+md-mf) + 0.008823*sin(2*md-mf)
	g += e*0.008247*sin(2*me-ms-mf) + 0.004323*sin(2*(me-md)-mf)
	g += 0.0042*sin(2*me+mf+md) + e*0.003372*sin(mf-ms-2*me)
	g += e * 0.002472 * sin(2*me+mf-ms-md)
	g += e * 0.002222 * sin(2*me+mf-ms)
	g += e * 0.002072 * sin(2*me-mf-ms-md)
	g += e*0.001877*sin(mf-ms+md) + 0.001828*sin(4*me-mf-md)
	g += -e*0.001803*sin(mf+ms) - 0.00175*sin(3*mf)
	g += e*0.00157*sin(md-ms-mf) - 0.001487*sin(mf+me)
	g += -e*0.001481*sin(mf+ms+md) + e*0.001417*sin(mf-ms-md)
	g += e*0.00135*sin(mf-ms) + 0.00133*sin(mf-me)
	g += 0.001106*sin(mf+3*md) + 0.00102*sin(4*me-mf)
	g += 0.000833*sin(mf+4*me-md) + 0.000781*sin(md-3*mf)
	g += 0.00067*sin(mf+4*me-2*md) + 0.000606*sin(2*me-3*mf)
	g += 0.000597 * sin(2*(me+md)-mf)
	g += e*0.000492*sin(2*me+md-ms-mf) + 0.00045*sin(2*(md-me)-mf)
	g += 0.000439*sin(3*md-mf) + 0.000423*sin(mf+2*(me+md))
	g += 0.000422*sin(2*me-mf-3*md) - e*0.000367*sin(ms+mf+2*me-md)
	g += -e*0.000353*sin(ms+mf+2*me) + 0.000331*sin(mf+4*me)
	g += e * 0.000317 * sin(2*me+mf-ms+md)
	g += e2*0.000306*sin(2*(me-ms)-mf) - 0.000283*sin(md+3*mf)

	w1 := 0.0004664 * math.Cos(a.na)
	w2 := 0.0000754 * math.Cos(a.c)
	return g * (1 - w1 - w2)
}

// moonParallax returns the horizontal parallax, degrees.
func moonParallax(a moonArgs) float64 {
	md, ms, me, mf, e := a.md, a.ms, a.me, a.mf, a.e
	e2 := e * e
	cos := math.Cos

	p := 0.950724 + 0.051818*cos(md) + 0.009531*cos(2*me-md)
	p += 0.007843*cos(2*me) + 0.002824*cos(2*md)
	p += 0.000857*cos(2*me+md) + e*0.000533*cos(2*me-ms)
	p += e * 0.000401 * cos(2*me-md-ms)
	p += e*0.00032*cos(md-ms) - 0.000271*cos(me)
	p += -e*0.000264*cos(ms+md) - 0.000198*cos(2*mf-md)
	p += 0.000173*cos(3*md) + 0.000167*cos(4*me-md)
	p += -e*0.000111*cos(ms) + 0.000103*cos(4*me-2*md)
	p += -0.000084*cos(2*md-2*me) - e*0.000083*cos(2*me+ms)
	p += 0.000079*cos(2*me+2*md) + 0.000072*cos(4*me)
	p += e*0.000064*cos(2*me-ms+md) - e*0.000063*cos(2*me+ms-md)
	p += e*0.000041*cos(ms+me) + e*0.000035*cos(2*md-ms)
	p += -0.000033*cos(3*md-2*me) - 0.00003*cos(md+me)
	p += -0.000029*cos(2*(mf-me)) - e*0.000029*cos(2*md+ms)
	p += e2*0.000026*cos(2*(me-ms)) - 0.000023*cos(2*(mf-me)+md)
	p += e * 0.000019 * cos(4*me-ms-md)
	return p
}

// MoonPosition returns the Moon's geocentric position at a UT instant. The
// equatorial coordinates include nutation in longitude.
func MoonPosition(jd JulianDate) Moon {
	a := lunarArguments(jd)
	ecl := Ecliptic{
		LonDeg: Normalize360(radToDeg(a.ml) + moonLongitude(a)),
		LatDeg: moonLatitude(a),
	}
	hp := moonParallax(a)
	dist := earthRadiusKm / math.Sin(degToRad(hp))

	dLon, _ := Nutation(jd)
	app := Ecliptic{LonDeg: Normalize360(ecl.LonDeg + dLon), LatDeg: ecl.LatDeg}

	return Moon{
		Ecliptic:           ecl,
		Equatorial:         EclipticToEquatorial(app, jd),
		HorizontalParallax: hp,
		DistanceKm:         dist,
		AngularDiameterDeg: 384401 * 0.5181 / dist,
	}
}

// MoonPhase returns the illuminated fraction of the Moon's disk, 0 at new
// moon and 1 at full.
func MoonPhase(jd JulianDate) float64 {
	m := MoonPosition(jd)
	sunLon, _ := SunGeometric(jd)
	a := lunarArguments(jd)

	d := math.Acos(math.Cos(degToRad(m.Ecliptic.LonDeg-sunLon)) * math.Cos(degToRad(m.Ecliptic.LatDeg)))
	sd := math.Sin(d)
	i := math.Pi - d - degToRad(0.1468*sd*(1-0.0549*math.Sin(a.md))/(1-0.0167*math.Sin(a.ms)))
	return (1 + math.Cos(i)) / 2
}

// Syzygy is a new or full moon.
type Syzygy struct {
	JD JulianDate
	// ArgLatitudeRad is the Moon's argument of latitude; its distance from
	// 0 or pi decides whether an eclipse can occur.
	ArgLatitudeRad float64
}

// NodeDistance returns the angular distance of the argument of latitude
// from the nearest node, in radians.
func (s Syzygy) NodeDistance() float64 {
	f := math.Mod(s.ArgLatitudeRad, math.Pi)
	if f < 0 {
		f += math.Pi
	}
	return math.Min(f, math.Pi-f)
}

// syzygyAt evaluates the lunation series for lunation number k (half
// integers are full moons).
func syzygyAt(k float64) Syzygy {
	t := k / 1236.85
	t2 := t * t
	frac := func(w float64) float64 { return w - math.Floor(w) }

	e := 29.53 * k
	c := degToRad(166.56 + (132.87-0.009173*t)*t)
	b := 0.00058868*k + (0.0001178-0.000000155*t)*t2
	b += 0.00033*math.Sin(c) + 0.75933

	a1 := degToRad(Normalize360(359.2242 + 360*frac(k/12.36886) - (0.0000333+0.00000347*t)*t2))
	a2 := degToRad(Normalize360(306.0253 + 360*frac(k/0.9330851) + (0.0107306+0.00001236*t)*t2))
	f := degToRad(Normalize360(21.2964 + 360*frac(k/0.9214926) - (0.0016528+0.00000239*t)*t2))

	dd := (0.1734-0.000393*t)*math.Sin(a1) + 0.0021*math.Sin(2*a1)
	dd += -0.4068*math.Sin(a2) + 0.0161*math.Sin(2*a2) - 0.0004*math.Sin(3*a2)
	dd += 0.0104*math.Sin(2*f) - 0.0051*math.Sin(a1+a2)
	dd += -0.0074*math.Sin(a1-a2) + 0.0004*math.Sin(2*f+a1)
	dd += -0.0004*math.Sin(2*f-a1) - 0.0006*math.Sin(2*f+a2) + 0.001*math.Sin(2*f-a2)
	dd += 0.0005 * math.Sin(a1+2*a2)

	return Syzygy{JD: B1900 + JulianDate(e+b+dd), ArgLatitudeRad: f}
}

// lunation returns the lunation number nearest the UT instant jd.
func lunation(jd JulianDate) float64 {
	c := JDToCalendar(jd)
	day := math.Floor(c.Day)
	j0 := mustJD(c.Year, 1, 0)
	dj := mustJD(c.Year, c.Month, day)
	years := float64(c.Year-1900) + float64(dj-j0)/365
	return math.Floor(years*12.3685 + 0.5)
}

// NewMoon returns the new moon of the lunation containing jd.
func NewMoon(jd JulianDate) Syzygy {
	return syzygyAt(lunation(jd))
}

// FullMoon returns the full moon following the new moon of the lunation
// containing jd.
func FullMoon(jd JulianDate) Syzygy {
	return syzygyAt(lunation(jd) + 0.5)
}
