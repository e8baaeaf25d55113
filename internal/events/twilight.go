package events

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-almanac/internal/astro"
)

// TwilightType selects the solar depression that bounds twilight.
type TwilightType int

const (
	Civil TwilightType = iota
	Nautical
	Astronomical
)

// Depression returns the Sun's depression below the horizon in degrees.
func (t TwilightType) Depression() float64 {
	switch t {
	case Civil:
		return 6
	case Nautical:
		return 12
	default:
		return 18
	}
}

func (t TwilightType) String() string {
	switch t {
	case Civil:
		return "civil"
	case Nautical:
		return "nautical"
	default:
		return "astronomical"
	}
}

// ParseTwilightType parses "civil", "nautical" or "astronomical".
func ParseTwilightType(s string) (TwilightType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "civil":
		return Civil, nil
	case "nautical":
		return Nautical, nil
	case "astronomical", "astro", "":
		return Astronomical, nil
	}
	return Astronomical, fmt.Errorf("unknown twilight type %q", s)
}

// Twilight finds the start of morning twilight and the end of evening
// twilight on the civil day of date.
func Twilight(date astro.CalendarDate, obs astro.Observer, zone astro.Zone, tt TwilightType, cfg SolverConfig) (morning, evening Result) {
	morning, evening = BodyRiseSet(sunEquatorial, Fixed(-tt.Depression()), obs, date, zone, cfg)
	return twilightStatus(morning), twilightStatus(evening)
}

// twilightStatus renames the horizon outcomes for twilight: a Sun that
// never sinks below the depression means twilight lasts all night, one
// that never rises to it means there is no twilight.
func twilightStatus(r Result) Result {
	switch r.Status {
	case Circumpolar:
		r.Status = LastsAllNight
	case NeverRises:
		r.Status = SunTooFarBelowHorizon
	}
	return r
}
