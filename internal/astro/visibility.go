package astro

import (
	"errors"
	"math"
)

// Errors for altitude tracks.
var (
	ErrInsufficientSamples = errors.New("insufficient samples for altitude track")
	ErrInvalidStep         = errors.New("track step must be positive")
)

// PositionFunc returns a body's apparent equatorial position at an instant.
type PositionFunc func(jd JulianDate) Equatorial

// AltitudeSample is a body's horizon position at one instant.
type AltitudeSample struct {
	JD     JulianDate
	AzDeg  float64
	AltDeg float64
}

// Crossing is an interpolated passage through a threshold altitude.
type Crossing struct {
	JD     JulianDate
	Rising bool
}

// AltitudeTrack samples a body's altitude from start for spanHours at
// stepHours intervals. The track is used for charts; exact event times
// come from the event solver.
func AltitudeTrack(obs Observer, pos PositionFunc, start JulianDate, spanHours, stepHours float64) ([]AltitudeSample, error) {
	if stepHours <= 0 {
		return nil, ErrInvalidStep
	}
	n := int(spanHours/stepHours) + 1
	if n < 3 {
		return nil, ErrInsufficientSamples
	}

	samples := make([]AltitudeSample, n)
	for i := range samples {
		jd := start.AddHours(float64(i) * stepHours)
		hz := EquatorialToHorizon(pos(jd), obs, jd)
		samples[i] = AltitudeSample{JD: jd, AzDeg: hz.AzDeg, AltDeg: hz.AltDeg}
	}
	return samples, nil
}

// Crossings returns every passage of the track through thresholdDeg, in
// order, by linear interpolation between samples.
func Crossings(samples []AltitudeSample, thresholdDeg float64) []Crossing {
	var out []Crossing
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		switch {
		case prev.AltDeg <= thresholdDeg && curr.AltDeg > thresholdDeg:
			out = append(out, Crossing{JD: interpolateCrossing(prev, curr, thresholdDeg), Rising: true})
		case prev.AltDeg > thresholdDeg && curr.AltDeg <= thresholdDeg:
			out = append(out, Crossing{JD: interpolateCrossing(prev, curr, thresholdDeg)})
		}
	}
	return out
}

// interpolateCrossing finds the instant when altitude crosses a threshold.
func interpolateCrossing(a, b AltitudeSample, threshold float64) JulianDate {
	if math.Abs(b.AltDeg-a.AltDeg) < 0.0001 {
		return a.JD
	}
	fraction := (threshold - a.AltDeg) / (b.AltDeg - a.AltDeg)
	fraction = math.Max(0, math.Min(1, fraction))
	return a.JD + (b.JD-a.JD)*JulianDate(fraction)
}

// Culmination returns the highest point of the track, refined by a parabola
// through the highest sample and its neighbours.
func Culmination(samples []AltitudeSample) (AltitudeSample, error) {
	if len(samples) < 3 {
		return AltitudeSample{}, ErrInsufficientSamples
	}

	best := 0
	for i, s := range samples {
		if s.AltDeg > samples[best].AltDeg {
			best = i
		}
	}
	if best == 0 || best == len(samples)-1 {
		return samples[best], nil
	}

	// Parabola y = at^2 + bt + c through t = -1, 0, +1
	y0, y1, y2 := samples[best-1].AltDeg, samples[best].AltDeg, samples[best+1].AltDeg
	a := (y0+y2)/2 - y1
	b := (y2 - y0) / 2
	if a >= 0 {
		return samples[best], nil
	}
	t := math.Max(-1, math.Min(1, -b/(2*a)))

	out := samples[best]
	out.JD += (samples[best+1].JD - samples[best].JD) * JulianDate(t)
	out.AltDeg = a*t*t + b*t + y1
	return out, nil
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
