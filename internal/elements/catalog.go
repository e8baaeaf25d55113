// Package elements holds the orbital-element catalog: planets, periodic and
// parabolic comets, and visual binaries. A Catalog is built once and never
// modified, so it can be shared freely between goroutines.
package elements

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-almanac/internal/astro"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Errors returned by catalog lookups and parsing.
var (
	ErrUnknownBody  = errors.New("unknown body")
	ErrInvalidEntry = errors.New("invalid catalog entry")
	ErrNoEarth      = errors.New("catalog has no Earth entry")
)

// Kind identifies the section of the catalog a body comes from.
type Kind int

const (
	KindPlanet Kind = iota
	KindComet
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindComet:
		return "comet"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// file is the on-disk layout.
type file struct {
	Planets    []astro.OrbitalElements `yaml:"planets"`
	Secular    []astro.SecularElements `yaml:"secular"`
	Elliptical []astro.EllipticalOrbit `yaml:"elliptical_comets"`
	Parabolic  []astro.ParabolicOrbit  `yaml:"parabolic_comets"`
	Binaries   []astro.BinaryOrbit     `yaml:"binaries"`
}

// Catalog is an immutable set of orbital elements looked up by name.
type Catalog struct {
	planets  map[string]astro.OrbitalElements
	secular  []astro.SecularElements
	comets   map[string]astro.Orbit
	binaries map[string]astro.BinaryOrbit
	names    map[Kind][]string
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCatalog)
})

// Default returns the built-in catalog. It is parsed on first use.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Parse builds a catalog from YAML. Names are matched case-insensitively
// and must be unique within their section.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		planets:  make(map[string]astro.OrbitalElements, len(f.Planets)),
		comets:   make(map[string]astro.Orbit, len(f.Elliptical)+len(f.Parabolic)),
		binaries: make(map[string]astro.BinaryOrbit, len(f.Binaries)),
		names:    make(map[Kind][]string),
	}

	for _, p := range f.Planets {
		if err := checkEccentricity(p.Name, p.Eccentricity, p.PeriodYears); err != nil {
			return nil, err
		}
		if err := c.add(KindPlanet, p.Name, func(k string) bool {
			if _, dup := c.planets[k]; dup {
				return false
			}
			c.planets[k] = p
			return true
		}); err != nil {
			return nil, err
		}
	}
	if _, ok := c.planets[normalizeName("Earth")]; !ok {
		return nil, ErrNoEarth
	}

	seen := make(map[string]bool, len(f.Secular))
	for _, p := range f.Secular {
		if e := p.Eccentricity[0]; e < 0 || e >= 1 || p.SemiMajorAxisAU <= 0 {
			return nil, fmt.Errorf("%w: %s secular eccentricity %v axis %v", ErrInvalidEntry, p.Name, e, p.SemiMajorAxisAU)
		}
		key := normalizeName(p.Name)
		if _, ok := c.planets[key]; !ok {
			return nil, fmt.Errorf("%w: secular elements for unknown planet %q", ErrInvalidEntry, p.Name)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate secular elements %q", ErrInvalidEntry, p.Name)
		}
		seen[key] = true
		c.secular = append(c.secular, p)
	}

	for _, o := range f.Elliptical {
		if err := checkEccentricity(o.Name, o.Eccentricity, o.PeriodYears); err != nil {
			return nil, err
		}
		if err := c.addComet(o.Name, o); err != nil {
			return nil, err
		}
	}
	for _, o := range f.Parabolic {
		if o.PerihelionAU <= 0 {
			return nil, fmt.Errorf("%w: %s perihelion distance %v", ErrInvalidEntry, o.Name, o.PerihelionAU)
		}
		if _, err := o.PerihelionJD(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntry, o.Name, err)
		}
		if err := c.addComet(o.Name, o); err != nil {
			return nil, err
		}
	}

	for _, b := range f.Binaries {
		if err := checkEccentricity(b.Name, b.Eccentricity, b.PeriodYears); err != nil {
			return nil, err
		}
		if err := c.add(KindBinary, b.Name, func(k string) bool {
			if _, dup := c.binaries[k]; dup {
				return false
			}
			c.binaries[k] = b
			return true
		}); err != nil {
			return nil, err
		}
	}

	for k := range c.names {
		sort.Strings(c.names[k])
	}
	return c, nil
}

func (c *Catalog) addComet(name string, o astro.Orbit) error {
	return c.add(KindComet, name, func(k string) bool {
		if _, dup := c.comets[k]; dup {
			return false
		}
		c.comets[k] = o
		return true
	})
}

// add stores an entry through insert, which reports false on a duplicate.
func (c *Catalog) add(kind Kind, name string, insert func(key string) bool) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("%w: %s with no name", ErrInvalidEntry, kind)
	}
	if !insert(key) {
		return fmt.Errorf("%w: duplicate %s %q", ErrInvalidEntry, kind, name)
	}
	c.names[kind] = append(c.names[kind], name)
	return nil
}

func checkEccentricity(name string, e, period float64) error {
	if e < 0 || e >= 1 {
		return fmt.Errorf("%w: %s eccentricity %v", ErrInvalidEntry, name, e)
	}
	if period <= 0 {
		return fmt.Errorf("%w: %s period %v", ErrInvalidEntry, name, period)
	}
	return nil
}

// Planet returns a planet's elements. Earth is included.
func (c *Catalog) Planet(name string) (astro.OrbitalElements, error) {
	p, ok := c.planets[normalizeName(name)]
	if !ok {
		return astro.OrbitalElements{}, fmt.Errorf("planet %q: %w", name, ErrUnknownBody)
	}
	return p, nil
}

// Earth returns the Earth's elements, needed for every geocentric planet
// position.
func (c *Catalog) Earth() astro.OrbitalElements {
	return c.planets[normalizeName("Earth")]
}

// Secular returns the secular elements for the perturbed planet theory,
// or nil when the catalog carries none.
func (c *Catalog) Secular() []astro.SecularElements {
	if len(c.secular) == 0 {
		return nil
	}
	out := make([]astro.SecularElements, len(c.secular))
	copy(out, c.secular)
	return out
}

// Comet returns a comet's orbit, elliptical or parabolic.
func (c *Catalog) Comet(name string) (astro.Orbit, error) {
	o, ok := c.comets[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("comet %q: %w", name, ErrUnknownBody)
	}
	return o, nil
}

// Binary returns a binary star's orbit.
func (c *Catalog) Binary(name string) (astro.BinaryOrbit, error) {
	b, ok := c.binaries[normalizeName(name)]
	if !ok {
		return astro.BinaryOrbit{}, fmt.Errorf("binary %q: %w", name, ErrUnknownBody)
	}
	return b, nil
}

// Names returns the sorted names in one section of the catalog.
func (c *Catalog) Names(kind Kind) []string {
	out := make([]string, len(c.names[kind]))
	copy(out, c.names[kind])
	return out
}

// Lookup reports which section holds name. Planets shadow comets and
// binaries of the same name.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	key := normalizeName(name)
	if _, ok := c.planets[key]; ok {
		return KindPlanet, true
	}
	if _, ok := c.comets[key]; ok {
		return KindComet, true
	}
	if _, ok := c.binaries[key]; ok {
		return KindBinary, true
	}
	return 0, false
}

// normalizeName lowercases a name and treats spaces, hyphens and
// underscores alike, so "Pons-Brooks" and "pons brooks" match.
func normalizeName(name string) string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	return strings.Join(f, "-")
}
