package elements

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-almanac/internal/astro"
)

func builtin(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Names(KindPlanet), 8)
	assert.Len(t, c.Names(KindComet), 16)
	assert.Equal(t, []string{"eta-Cor"}, c.Names(KindBinary))

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, again, "default catalog should be parsed once")
}

func TestPlanet(t *testing.T) {
	c := builtin(t)

	jupiter, err := c.Planet("jupiter")
	require.NoError(t, err)
	want := astro.OrbitalElements{
		Name: "Jupiter", PeriodYears: 11.857911, EpochLonDeg: 337.917132, PerihelionLonDeg: 14.6633,
		Eccentricity: 0.048907, SemiMajorAxisAU: 5.20278, InclinationDeg: 1.3035, NodeDeg: 100.595,
		AngularDiameterArcsec: 196.74, MagnitudeV0: -9.4,
	}
	if diff := cmp.Diff(want, jupiter); diff != "" {
		t.Errorf("Planet(jupiter) mismatch (-want +got):\n%s", diff)
	}

	earth := c.Earth()
	assert.Equal(t, "Earth", earth.Name)
	assert.InDelta(t, 0.016671, earth.Eccentricity, 1e-12)

	_, err = c.Planet("Pluto")
	assert.ErrorIs(t, err, ErrUnknownBody)
}

func TestPlanet_Position(t *testing.T) {
	c := builtin(t)
	jupiter, err := c.Planet("Jupiter")
	require.NoError(t, err)

	jd := astro.JulianDate(2452965.5) // 2003-11-22
	p, err := astro.PlanetPosition(jd, jupiter, c.Earth())
	require.NoError(t, err)
	assert.InDelta(t, astro.HMS(11, 10, 30.99), p.Equatorial.RAHours, 0.01)
}

func TestSecular(t *testing.T) {
	c := builtin(t)
	theory := c.Secular()
	require.Len(t, theory, 7)

	jd := astro.JulianDate(2452965.5) // 2003-11-22
	p, err := astro.PlanetPositionPrecise(jd, "Jupiter", theory)
	require.NoError(t, err)
	assert.InDelta(t, astro.HMS(11, 10, 30.99), p.Equatorial.RAHours, 1e-5)
	assert.InDelta(t, astro.DMS(6, 25, 49.46), p.Equatorial.DecDeg, 1e-4)

	theory[0].Name = "changed"
	assert.Equal(t, "Mercury", c.Secular()[0].Name, "Secular should return a copy")
}

func TestComet(t *testing.T) {
	c := builtin(t)

	tests := []struct {
		name string
		want string
	}{
		{"Halley", "Halley"},
		{"pons brooks", "Pons-Brooks"},
		{"SCHWASSMANN-WACHMANN 1", "Schwassmann-Wachmann 1"},
		{"kohler", "Kohler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := c.Comet(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.OrbitName())
		})
	}

	_, err := c.Comet("Hale-Bopp")
	assert.ErrorIs(t, err, ErrUnknownBody)
}

func TestComet_Kinds(t *testing.T) {
	c := builtin(t)

	halley, err := c.Comet("Halley")
	require.NoError(t, err)
	assert.IsType(t, astro.EllipticalOrbit{}, halley)

	kohler, err := c.Comet("Kohler")
	require.NoError(t, err)
	p, ok := kohler.(astro.ParabolicOrbit)
	require.True(t, ok)
	assert.Equal(t, 1977, p.PerihelionYear)
	assert.InDelta(t, 0.990662, p.PerihelionAU, 1e-12)

	comet, err := astro.CometPosition(astro.JulianDate(2445700.5), halley) // 1984-01-01
	require.NoError(t, err)
	assert.InDelta(t, 6.4804424, comet.Equatorial.RAHours, 1e-6)
}

func TestBinary(t *testing.T) {
	c := builtin(t)
	b, err := c.Binary("Eta-Cor")
	require.NoError(t, err)
	assert.InDelta(t, 41.623, b.PeriodYears, 1e-12)

	pa, sep, err := astro.BinaryPosition(astro.JulianDate(2444239.5), b) // 1980-01-01
	require.NoError(t, err)
	assert.False(t, math.IsNaN(pa) || math.IsNaN(sep))

	_, err = c.Binary("Sirius")
	assert.ErrorIs(t, err, ErrUnknownBody)
}

func TestLookup(t *testing.T) {
	c := builtin(t)

	kind, ok := c.Lookup("Mars")
	assert.True(t, ok)
	assert.Equal(t, KindPlanet, kind)

	kind, ok = c.Lookup("encke")
	assert.True(t, ok)
	assert.Equal(t, KindComet, kind)

	kind, ok = c.Lookup("eta cor")
	assert.True(t, ok)
	assert.Equal(t, KindBinary, kind)

	_, ok = c.Lookup("Vulcan")
	assert.False(t, ok)
}

func TestNames_ReturnsCopy(t *testing.T) {
	c := builtin(t)
	names := c.Names(KindPlanet)
	names[0] = "changed"
	assert.NotEqual(t, "changed", c.Names(KindPlanet)[0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "no earth",
			yaml: "planets:\n  - {name: Mars, period_years: 1.88, eccentricity: 0.09}\n",
			want: ErrNoEarth,
		},
		{
			name: "bad eccentricity",
			yaml: "planets:\n  - {name: Earth, period_years: 1, eccentricity: 1.2}\n",
			want: ErrInvalidEntry,
		},
		{
			name: "duplicate",
			yaml: "planets:\n  - {name: Earth, period_years: 1}\n  - {name: earth, period_years: 1}\n",
			want: ErrInvalidEntry,
		},
		{
			name: "secular for unknown planet",
			yaml: "planets:\n  - {name: Earth, period_years: 1}\nsecular:\n  - {name: Vulcan, eccentricity: [0.1, 0, 0, 0], semi_major_axis_au: 0.2}\n",
			want: ErrInvalidEntry,
		},
		{
			name: "secular without axis",
			yaml: "planets:\n  - {name: Earth, period_years: 1}\nsecular:\n  - {name: Earth, eccentricity: [0.01, 0, 0, 0]}\n",
			want: ErrInvalidEntry,
		},
		{
			name: "parabolic without perihelion",
			yaml: "planets:\n  - {name: Earth, period_years: 1}\nparabolic_comets:\n  - {name: X, perihelion_year: 2000, perihelion_month: 1, perihelion_day: 1}\n",
			want: ErrInvalidEntry,
		},
		{
			name: "bad month",
			yaml: "planets:\n  - {name: Earth, period_years: 1}\nparabolic_comets:\n  - {name: X, perihelion_year: 2000, perihelion_month: 13, perihelion_day: 1, perihelion_au: 1}\n",
			want: ErrInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("planets: [oops"))
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "planet", KindPlanet.String())
	assert.Equal(t, "comet", KindComet.String())
	assert.Equal(t, "binary", KindBinary.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
