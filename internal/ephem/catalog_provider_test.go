package ephem

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/elements"
)

var boston = astro.Observer{LatDeg: 42.37, LonDeg: -71.05, Name: "Boston"}

func newTestProvider(t *testing.T) *CatalogProvider {
	t.Helper()
	c, err := elements.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewCatalogProvider(c, StandardAtmosphere)
}

func TestCatalogProvider_Kind(t *testing.T) {
	p := newTestProvider(t)

	tests := []struct {
		body string
		want BodyKind
		ok   bool
	}{
		{"Sun", KindSun, true},
		{"moon", KindMoon, true},
		{"Jupiter", KindPlanet, true},
		{"Halley", KindComet, true},
		{"Kohler", KindComet, true},
		{"Sirius", KindStar, true},
		{"Earth", 0, false},
		{"Vulcan", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			got, ok := p.Kind(tc.body)
			if got != tc.want || ok != tc.ok {
				t.Errorf("Kind(%q) = %v, %v, want %v, %v", tc.body, got, ok, tc.want, tc.ok)
			}
			if p.Available(tc.body) != tc.ok {
				t.Errorf("Available(%q) = %v", tc.body, !tc.ok)
			}
		})
	}
}

func TestCatalogProvider_Bodies(t *testing.T) {
	p := newTestProvider(t)

	all := p.Bodies()
	if all[0] != "Sun" || all[1] != "Moon" {
		t.Errorf("Bodies() starts %v, want Sun, Moon", all[:2])
	}
	for _, b := range all {
		if b == "Earth" {
			t.Errorf("Bodies() includes Earth")
		}
	}

	planets := p.Bodies(KindPlanet)
	if len(planets) != 7 {
		t.Errorf("len(planets) = %d, want 7", len(planets))
	}
	comets := p.Bodies(KindComet)
	if len(comets) != 16 {
		t.Errorf("len(comets) = %d, want 16", len(comets))
	}
}

func TestCatalogProvider_Position(t *testing.T) {
	p := newTestProvider(t)
	jd := astro.JulianDate(2452965.5) // 2003-11-22 0h UT

	pos, err := p.PositionAt("jupiter", jd, boston)
	if err != nil {
		t.Fatalf("PositionAt: %v", err)
	}
	if !pos.Valid || pos.Kind != KindPlanet || pos.Body != "Jupiter" {
		t.Errorf("pos = %+v", pos)
	}
	if math.Abs(pos.Equatorial.RAHours-astro.HMS(11, 10, 30.99)) > 0.01 {
		t.Errorf("RAHours = %v", pos.Equatorial.RAHours)
	}
	if pos.Heliocentric == nil {
		t.Errorf("planet position has no heliocentric vector")
	}
	if pos.Horizon.AltDeg < -90 || pos.Horizon.AltDeg > 90 {
		t.Errorf("altitude %v out of range", pos.Horizon.AltDeg)
	}
}

func TestCatalogProvider_Secular(t *testing.T) {
	c, err := elements.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	p := NewCatalogProvider(c, StandardAtmosphere).WithSecular(c.Secular())
	jd := astro.JulianDate(2452965.5) // 2003-11-22 0h UT

	pos, err := p.PositionAt("Jupiter", jd, boston)
	if err != nil {
		t.Fatalf("PositionAt: %v", err)
	}
	if math.Abs(pos.Equatorial.RAHours-astro.HMS(11, 10, 30.99)) > 1e-5 {
		t.Errorf("RAHours = %v", pos.Equatorial.RAHours)
	}
	if math.Abs(pos.Equatorial.DecDeg-astro.DMS(6, 25, 49.46)) > 1e-4 {
		t.Errorf("DecDeg = %v", pos.Equatorial.DecDeg)
	}

	// Planets without secular elements keep the mean orbit.
	partial := NewCatalogProvider(c, StandardAtmosphere).WithSecular(c.Secular()[:4])
	got, err := partial.Planet("Saturn", jd)
	if err != nil {
		t.Fatalf("Planet(Saturn): %v", err)
	}
	mean, err := NewCatalogProvider(c, StandardAtmosphere).Planet("Saturn", jd)
	if err != nil {
		t.Fatalf("Planet(Saturn): %v", err)
	}
	if got.Equatorial != mean.Equatorial {
		t.Errorf("Saturn = %+v, want mean orbit %+v", got.Equatorial, mean.Equatorial)
	}

	if _, err := p.Planet("Vulcan", jd); !errors.Is(err, elements.ErrUnknownBody) {
		t.Errorf("Planet(Vulcan) err = %v", err)
	}
}

func TestCatalogProvider_PositionKinds(t *testing.T) {
	p := newTestProvider(t)
	when := time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC)

	for _, body := range []string{"Sun", "Moon", "Mars", "Encke", "Vega"} {
		t.Run(body, func(t *testing.T) {
			pos, err := p.Position(body, when, boston)
			if err != nil {
				t.Fatalf("Position: %v", err)
			}
			if !pos.Valid {
				t.Errorf("position not valid")
			}
			if pos.Equatorial.RAHours < 0 || pos.Equatorial.RAHours >= 24 {
				t.Errorf("RA %v out of range", pos.Equatorial.RAHours)
			}
		})
	}

	sun, _ := p.Position("sun", when, boston)
	if math.Abs(sun.DistanceAU-1) > 0.02 {
		t.Errorf("sun distance %v AU", sun.DistanceAU)
	}
	// Near the March equinox the Sun is close to the equator.
	if math.Abs(sun.Equatorial.DecDeg) > 1 {
		t.Errorf("sun declination %v at equinox", sun.Equatorial.DecDeg)
	}
}

func TestCatalogProvider_Unknown(t *testing.T) {
	p := newTestProvider(t)
	pos, err := p.Position("Nibiru", time.Now(), boston)
	if !errors.Is(err, ErrUnknownBody) {
		t.Errorf("err = %v, want ErrUnknownBody", err)
	}
	if pos.Valid {
		t.Errorf("unknown body reported valid")
	}
	if _, err := p.PositionFunc("Nibiru"); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("PositionFunc err = %v", err)
	}
}

func TestCatalogProvider_PositionFunc(t *testing.T) {
	p := newTestProvider(t)
	f, err := p.PositionFunc("Sun")
	if err != nil {
		t.Fatal(err)
	}
	jd := astro.JulianDate(2446499.5)
	got := f(jd)
	want := astro.SunPosition(jd).Equatorial
	if math.Abs(got.RAHours-want.RAHours) > 1e-12 || math.Abs(got.DecDeg-want.DecDeg) > 1e-12 {
		t.Errorf("PositionFunc(Sun) = %+v, want %+v", got, want)
	}
}

func TestCatalogProvider_Path(t *testing.T) {
	p := newTestProvider(t)
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	path, err := p.Path("Moon", start, end, 30*time.Minute, boston)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if len(path.Points) != 5 {
		t.Fatalf("len(points) = %d, want 5", len(path.Points))
	}
	if math.Abs(float64(path.Points[4].JD-astro.FromTime(end))) > 1e-9 {
		t.Errorf("last point %v, want %v", path.Points[4].JD, end)
	}

	// Second call is served from the cache.
	again, err := p.Path("moon", start, end, 30*time.Minute, boston)
	if err != nil {
		t.Fatal(err)
	}
	if &again.Points[0] != &path.Points[0] {
		t.Errorf("path not cached")
	}

	// A different observer is not served from the cache.
	elsewhere := astro.Observer{LatDeg: -33.87, LonDeg: 151.21}
	fresh, _ := p.Path("Moon", start, end, 30*time.Minute, elsewhere)
	if &fresh.Points[0] == &path.Points[0] {
		t.Errorf("path cached across observers")
	}
}

func TestCatalogProvider_PathCacheExpiry(t *testing.T) {
	p := newTestProvider(t)
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	start := now
	end := now.Add(time.Hour)
	first, _ := p.Path("Sun", start, end, 20*time.Minute, boston)

	now = now.Add(PathCacheTTL + time.Second)
	second, _ := p.Path("Sun", start, end, 20*time.Minute, boston)
	if &first.Points[0] == &second.Points[0] {
		t.Errorf("expired path reused")
	}
}

func TestCatalogProvider_PathErrors(t *testing.T) {
	p := newTestProvider(t)
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		step time.Duration
		want error
	}{
		{"zero step", start.Add(time.Hour), 0, ErrInvalidStep},
		{"reversed", start.Add(-time.Hour), time.Minute, ErrInvalidRange},
		{"too long", start.Add(365 * 24 * time.Hour), time.Second, ErrPathTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Path("Sun", start, tc.end, tc.step, boston)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestObserverMatch(t *testing.T) {
	if !observerMatch(boston, astro.Observer{LatDeg: 42.375, LonDeg: -71.045}) {
		t.Errorf("nearby observers should match")
	}
	if observerMatch(boston, astro.Observer{LatDeg: 40, LonDeg: -71.05}) {
		t.Errorf("distant observers should not match")
	}
}
