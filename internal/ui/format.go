package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/events"
)

// FormatRA renders right ascension in hours, minutes and seconds.
func FormatRA(hours float64) string {
	return sexa.FmtRA(unit.RAFromHour(hours)).String()
}

// FormatDeg renders an angle in degrees, minutes and seconds.
func FormatDeg(deg float64) string {
	return sexa.FmtAngle(unit.AngleFromDeg(deg)).String()
}

// FormatHours renders a time of day or sidereal time.
func FormatHours(hours float64) string {
	return sexa.FmtTime(unit.TimeFromHour(unit.PMod(hours, 24))).String()
}

// FormatEvent renders an event as local hh:mm, or its status when there
// is no time to show.
func FormatEvent(r events.Result) string {
	if !r.Status.HasTime() {
		return r.Status.String()
	}
	h, m := r.HourMinute()
	s := fmt.Sprintf("%02d:%02d", h, m)
	if r.Status == events.ConversionWarning {
		s += "*"
	}
	return s
}

// FormatEventAz renders an event with its azimuth.
func FormatEventAz(r events.Result) string {
	if !r.Status.HasTime() {
		return r.Status.String()
	}
	return fmt.Sprintf("%s @ %3.0f°", FormatEvent(r), r.AzimuthDeg)
}

// zoneName renders a civil zone as "UT", "UT-4" or "UT+5:30".
func zoneName(z astro.Zone) string {
	off := z.Offset()
	if off == 0 {
		return "UT"
	}
	sign := '+'
	if off < 0 {
		sign = '-'
	}
	h, m := astro.HourMinute(math.Abs(off))
	if m == 0 {
		return fmt.Sprintf("UT%c%d", sign, h)
	}
	return fmt.Sprintf("UT%c%d:%02d", sign, h, m)
}

func zoneLocation(z astro.Zone) *time.Location {
	return time.FixedZone(zoneName(z), int(z.Offset()*3600))
}

func siteName(obs astro.Observer) string {
	if obs.Name == "" {
		return "Observer"
	}
	return obs.Name
}

func latString(lat float64) string { return hemisphere(lat, 'N', 'S') }

func lonString(lon float64) string { return hemisphere(lon, 'E', 'W') }

func hemisphere(deg float64, pos, neg rune) string {
	h := pos
	if deg < 0 {
		h = neg
	}
	return fmt.Sprintf("%.2f°%c", math.Abs(deg), h)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate shortens s to n bytes, ending in "..." when there is room.
func truncate(s string, n int) string {
	switch {
	case len(s) <= n:
		return s
	case n <= 3:
		return s[:n]
	}
	return s[:n-3] + "..."
}
