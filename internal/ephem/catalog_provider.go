package ephem

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/elements"
)

const (
	// DefaultPathDuration is the default time span for altitude paths.
	DefaultPathDuration = 24 * time.Hour

	// DefaultPathStep is the default step between path points.
	DefaultPathStep = 10 * time.Minute

	// PathCacheTTL is how long a computed path is reused.
	PathCacheTTL = 5 * time.Minute

	// maxPathPoints bounds a single Path call.
	maxPathPoints = 10000
)

// Errors for path requests.
var (
	ErrInvalidRange = errors.New("path end before start")
	ErrInvalidStep  = errors.New("path step must be positive")
	ErrPathTooLong  = errors.New("path has too many points")
)

// Atmosphere sets the refraction applied to horizon coordinates.
type Atmosphere struct {
	PressureMbar float64
	TempC        float64
}

// StandardAtmosphere is 1010 mbar at 10 C.
var StandardAtmosphere = Atmosphere{PressureMbar: 1010, TempC: 10}

// CatalogProvider computes positions from the orbital-element catalog, the
// solar and lunar theories, and the bright-star list.
type CatalogProvider struct {
	catalog *elements.Catalog
	stars   astro.StarCatalog
	atmos   Atmosphere
	secular []astro.SecularElements

	mu        sync.RWMutex
	pathCache map[string]*cachedPath
	now       func() time.Time
}

// cachedPath stores a computed path.
type cachedPath struct {
	path       Path
	observer   astro.Observer
	step       time.Duration
	computedAt time.Time
}

// NewCatalogProvider creates a provider over a catalog.
func NewCatalogProvider(catalog *elements.Catalog, atmos Atmosphere) *CatalogProvider {
	return &CatalogProvider{
		catalog:   catalog,
		stars:     astro.DefaultStarCatalog(),
		atmos:     atmos,
		pathCache: make(map[string]*cachedPath),
		now:       time.Now,
	}
}

// WithSecular switches planets to the perturbed theory over the given
// secular elements. Planets without an entry keep the mean orbit. Call it
// before the provider is shared.
func (p *CatalogProvider) WithSecular(theory []astro.SecularElements) *CatalogProvider {
	p.secular = theory
	return p
}

// Planet evaluates a catalog planet at jd, using the perturbed theory when
// one is configured for it.
func (p *CatalogProvider) Planet(name string, jd astro.JulianDate) (astro.Planet, error) {
	el, err := p.catalog.Planet(name)
	if err != nil {
		return astro.Planet{}, err
	}
	if p.secular != nil {
		pl, err := astro.PlanetPositionPrecise(jd, el.Name, p.secular)
		if !errors.Is(err, astro.ErrMissingElements) {
			return pl, err
		}
	}
	return astro.PlanetPosition(jd, el, p.catalog.Earth())
}

// Name implements Provider.
func (p *CatalogProvider) Name() string {
	return "catalog"
}

// Kind reports what a body name refers to.
func (p *CatalogProvider) Kind(body string) (BodyKind, bool) {
	switch normalizeName(body) {
	case "sun":
		return KindSun, true
	case "moon":
		return KindMoon, true
	}
	if k, ok := p.catalog.Lookup(body); ok {
		switch k {
		case elements.KindPlanet:
			if normalizeName(body) == "earth" {
				return 0, false
			}
			return KindPlanet, true
		case elements.KindComet:
			return KindComet, true
		}
	}
	if _, err := p.stars.Lookup(body); err == nil {
		return KindStar, true
	}
	return 0, false
}

// Available implements Provider.
func (p *CatalogProvider) Available(body string) bool {
	_, ok := p.Kind(body)
	return ok
}

// Bodies lists the names the provider can place, Sun and Moon first, then
// planets, comets and stars.
func (p *CatalogProvider) Bodies(kinds ...BodyKind) []string {
	want := func(k BodyKind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, w := range kinds {
			if w == k {
				return true
			}
		}
		return false
	}

	var out []string
	if want(KindSun) {
		out = append(out, "Sun")
	}
	if want(KindMoon) {
		out = append(out, "Moon")
	}
	if want(KindPlanet) {
		for _, n := range p.catalog.Names(elements.KindPlanet) {
			if normalizeName(n) != "earth" {
				out = append(out, n)
			}
		}
	}
	if want(KindComet) {
		out = append(out, p.catalog.Names(elements.KindComet)...)
	}
	if want(KindStar) {
		stars := make([]string, 0, len(p.stars.Stars))
		for _, s := range p.stars.Stars {
			stars = append(stars, s.Name)
		}
		sort.Strings(stars)
		out = append(out, stars...)
	}
	return out
}

// Position implements Provider.
func (p *CatalogProvider) Position(body string, t time.Time, obs astro.Observer) (Position, error) {
	return p.PositionAt(body, astro.FromTime(t), obs)
}

// PositionAt is Position for a Julian date.
func (p *CatalogProvider) PositionAt(body string, jd astro.JulianDate, obs astro.Observer) (Position, error) {
	kind, ok := p.Kind(body)
	if !ok {
		return Position{Body: body, JD: jd}, fmt.Errorf("%q: %w", body, ErrUnknownBody)
	}

	pos := Position{Body: body, Kind: kind, JD: jd}
	switch kind {
	case KindSun:
		s := astro.SunPosition(jd)
		pos.Body = "Sun"
		pos.Equatorial = s.Equatorial
		pos.Ecliptic = s.Ecliptic
		pos.DistanceAU = s.DistanceAU
		pos.Magnitude = -26.74
		pos.Phase = 1

	case KindMoon:
		m := astro.MoonPosition(jd)
		pos.Body = "Moon"
		pos.Equatorial = m.Equatorial
		pos.Ecliptic = m.Ecliptic
		pos.DistanceAU = astro.KmToAU(m.DistanceKm)
		pos.Phase = astro.MoonPhase(jd)

	case KindPlanet:
		pl, err := p.Planet(body, jd)
		if err != nil {
			return Position{Body: body, JD: jd}, err
		}
		pos.Body = pl.Name
		pos.Equatorial = pl.Equatorial
		pos.Ecliptic = pl.Ecliptic
		pos.DistanceAU = pl.DistanceAU
		pos.Magnitude = pl.Magnitude
		pos.Phase = pl.Phase
		v := pl.Heliocentric
		pos.Heliocentric = &v

	case KindComet:
		orbit, err := p.catalog.Comet(body)
		if err != nil {
			return Position{Body: body, JD: jd}, err
		}
		c, err := astro.CometPosition(jd, orbit)
		if err != nil {
			return Position{Body: body, JD: jd}, err
		}
		pos.Body = c.Name
		pos.Equatorial = c.Equatorial
		pos.Ecliptic = c.Ecliptic
		pos.DistanceAU = c.DistanceAU
		v := c.Heliocentric
		pos.Heliocentric = &v

	case KindStar:
		s, _ := p.stars.Lookup(body)
		pos.Body = s.Name
		pos.Equatorial = s.Apparent(jd)
		pos.Ecliptic = astro.EquatorialToEcliptic(pos.Equatorial, jd)
		pos.Magnitude = s.Mag
	}

	pos.Horizon = p.horizon(pos.Equatorial, obs, jd, kind)
	pos.Valid = true
	return pos, nil
}

// horizon converts to refracted horizon coordinates, applying the Moon's
// parallax first.
func (p *CatalogProvider) horizon(eq astro.Equatorial, obs astro.Observer, jd astro.JulianDate, kind BodyKind) astro.Horizon {
	if kind == KindMoon {
		hp := astro.MoonPosition(jd).HorizontalParallax
		if topo, err := astro.ParallaxEquatorial(eq, obs, jd, hp, astro.Actual); err == nil {
			eq = topo
		}
	}
	eq = astro.RefractEquatorial(eq, obs, jd, p.atmos.PressureMbar, p.atmos.TempC, astro.Actual)
	return astro.EquatorialToHorizon(eq, obs, jd)
}

// PositionFunc returns a function giving the body's apparent equatorial
// place, for the event solver and altitude tracks.
func (p *CatalogProvider) PositionFunc(body string) (astro.PositionFunc, error) {
	if !p.Available(body) {
		return nil, fmt.Errorf("%q: %w", body, ErrUnknownBody)
	}
	obs := astro.Observer{}
	return func(jd astro.JulianDate) astro.Equatorial {
		pos, _ := p.PositionAt(body, jd, obs)
		return pos.Equatorial
	}, nil
}

// Path implements Provider. Results are cached per body for PathCacheTTL
// while the observer and step stay the same.
func (p *CatalogProvider) Path(body string, start, end time.Time, step time.Duration, obs astro.Observer) (Path, error) {
	switch {
	case step <= 0:
		return Path{}, ErrInvalidStep
	case end.Before(start):
		return Path{}, ErrInvalidRange
	case end.Sub(start)/step > maxPathPoints:
		return Path{}, ErrPathTooLong
	}

	key := normalizeName(body)
	p.mu.RLock()
	cached, ok := p.pathCache[key]
	p.mu.RUnlock()

	if ok && p.now().Sub(cached.computedAt) < PathCacheTTL && cached.step == step &&
		observerMatch(cached.observer, obs) && cached.path.Start.Equal(start) && cached.path.End.Equal(end) {
		return cached.path, nil
	}

	path := Path{Body: body, Start: start, End: end}
	for t := start; !t.After(end); t = t.Add(step) {
		pos, err := p.Position(body, t, obs)
		if err != nil {
			return Path{}, err
		}
		path.Points = append(path.Points, pos)
	}

	p.mu.Lock()
	p.pathCache[key] = &cachedPath{
		path:       path,
		observer:   obs,
		step:       step,
		computedAt: p.now(),
	}
	p.mu.Unlock()

	return path, nil
}

// observerMatch checks if two observers are close enough to share cache.
func observerMatch(a, b astro.Observer) bool {
	const tolerance = 0.01 // degrees
	return abs(a.LatDeg-b.LatDeg) <= tolerance && abs(a.LonDeg-b.LonDeg) <= tolerance
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// normalizeName lowercases a body name for matching.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
