// Package events solves for horizon crossings, twilight and eclipses on
// top of the astro position routines.
package events

import (
	"github.com/litescript/ls-almanac/internal/astro"
)

// Status describes the outcome of an event search. Geometric outcomes such
// as a body that never rises are statuses, not errors.
type Status int

const (
	// Ok means the event was found.
	Ok Status = iota
	// NeverRises means the body stays below the threshold all day.
	NeverRises
	// Circumpolar means the body stays above the threshold all day.
	Circumpolar
	// ConversionWarning means the event was found but falls where a
	// sidereal time maps to two UT instants; the earlier one is reported.
	ConversionWarning
	// LastsAllNight means twilight never ends.
	LastsAllNight
	// SunTooFarBelowHorizon means the Sun never climbs to the twilight
	// depression, so twilight never begins.
	SunTooFarBelowHorizon
	// NotConverged means the solver hit its iteration cap.
	NotConverged
	// NoEventToday means the body crosses the horizon, but not during
	// this civil day. Time holds the crossing on the adjacent day.
	NoEventToday
)

var statusNames = [...]string{
	Ok:                    "OK",
	NeverRises:            "never rises",
	Circumpolar:           "circumpolar",
	ConversionWarning:     "conversion warning",
	LastsAllNight:         "lasts all night",
	SunTooFarBelowHorizon: "sun too far below horizon",
	NotConverged:          "not converged",
	NoEventToday:          "no event today",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// HasTime reports whether a Result with this status carries an event time.
func (s Status) HasTime() bool {
	return s == Ok || s == ConversionWarning
}

// Result is one solved event.
type Result struct {
	Time       astro.JulianDate // UT instant
	Local      float64          // local civil time in hours (0-24)
	AzimuthDeg float64
	Status     Status
}

// HourMinute returns the local time rounded to the minute.
func (r Result) HourMinute() (h, m int) {
	return astro.HourMinute(r.Local)
}

// EclipseStatus classifies whether an eclipse can occur at a syzygy.
type EclipseStatus int

const (
	EclipseNone EclipseStatus = iota
	EclipsePossible
	EclipseCertain
)

func (s EclipseStatus) String() string {
	switch s {
	case EclipsePossible:
		return "possible"
	case EclipseCertain:
		return "certain"
	default:
		return "none"
	}
}
