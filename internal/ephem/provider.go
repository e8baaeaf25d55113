// Package ephem evaluates the positions of named bodies for an observer:
// the Sun, the Moon, catalog planets and comets, and bright stars.
package ephem

import (
	"errors"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// ErrUnknownBody is returned for names no provider knows.
var ErrUnknownBody = errors.New("unknown body")

// BodyKind classifies a named body.
type BodyKind int

const (
	KindSun BodyKind = iota
	KindMoon
	KindPlanet
	KindComet
	KindStar
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	case KindPlanet:
		return "planet"
	case KindComet:
		return "comet"
	case KindStar:
		return "star"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Unknown names return false.
func ParseKind(s string) (BodyKind, bool) {
	switch s {
	case "sun":
		return KindSun, true
	case "moon":
		return KindMoon, true
	case "planet":
		return KindPlanet, true
	case "comet":
		return KindComet, true
	case "star":
		return KindStar, true
	default:
		return 0, false
	}
}

// Position is a body's place at one instant for one observer.
type Position struct {
	Body       string           `json:"body"`
	Kind       BodyKind         `json:"-"`
	JD         astro.JulianDate `json:"jd"`
	Equatorial astro.Equatorial `json:"equatorial"` // apparent geocentric
	Ecliptic   astro.Ecliptic   `json:"ecliptic"`
	Horizon    astro.Horizon    `json:"horizon"` // refracted
	DistanceAU float64          `json:"distance_au,omitempty"`
	Magnitude  float64          `json:"magnitude,omitempty"`
	Phase      float64          `json:"phase,omitempty"` // illuminated fraction
	// Heliocentric is set for planets and comets.
	Heliocentric *astro.Vec3 `json:"heliocentric,omitempty"`
	Valid        bool        `json:"valid"`
}

// Path is a sequence of positions over a time range.
type Path struct {
	Body   string
	Points []Position
	Start  time.Time
	End    time.Time
}

// Provider defines the interface for position sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Position returns a body's place at t. Unknown bodies return an
	// invalid position and an error wrapping ErrUnknownBody.
	Position(body string, t time.Time, obs astro.Observer) (Position, error)

	// Path samples a body from start to end at step intervals.
	Path(body string, start, end time.Time, step time.Duration, obs astro.Observer) (Path, error)

	// Available returns true if this provider can place the body.
	Available(body string) bool
}
