package astro

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownStar is returned when a star name is not in the catalog.
var ErrUnknownStar = errors.New("unknown star")

// Star is a bright star with its J2000 mean position.
type Star struct {
	Name    string
	RAHours float64
	DecDeg  float64
	Mag     float64 // apparent visual magnitude
}

// Equatorial returns the star's catalog position.
func (s Star) Equatorial() Equatorial {
	return Equatorial{RAHours: s.RAHours, DecDeg: s.DecDeg}
}

// Apparent returns the star's apparent place at jd.
func (s Star) Apparent(jd JulianDate) Equatorial {
	return ApparentPlace(s.Equatorial(), J2000, jd)
}

// StarCatalog holds the bright stars used for rise/set and the sky view.
type StarCatalog struct {
	Stars []Star
}

// DefaultStarCatalog returns the built-in catalog, brightest first.
func DefaultStarCatalog() StarCatalog {
	stars := make([]Star, len(brightStars))
	copy(stars, brightStars)
	return StarCatalog{Stars: stars}
}

// Lookup finds a star by name, ignoring case.
func (c StarCatalog) Lookup(name string) (Star, error) {
	for _, s := range c.Stars {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Star{}, fmt.Errorf("star %q: %w", name, ErrUnknownStar)
}

// Brighter returns the stars at or brighter than mag, brightest first.
func (c StarCatalog) Brighter(mag float64) []Star {
	var out []Star
	for _, s := range c.Stars {
		if s.Mag <= mag {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mag < out[j].Mag })
	return out
}

// brightStars is sourced from the Yale Bright Star Catalog.
var brightStars = []Star{
	{Name: "Sirius", RAHours: 6.7525, DecDeg: -16.716, Mag: -1.46},
	{Name: "Canopus", RAHours: 6.3992, DecDeg: -52.696, Mag: -0.74},
	{Name: "Arcturus", RAHours: 14.2610, DecDeg: 19.182, Mag: -0.05},
	{Name: "Vega", RAHours: 18.6157, DecDeg: 38.784, Mag: 0.03},
	{Name: "Capella", RAHours: 5.2781, DecDeg: 45.998, Mag: 0.08},
	{Name: "Rigel", RAHours: 5.2423, DecDeg: -8.202, Mag: 0.13},
	{Name: "Procyon", RAHours: 7.6551, DecDeg: 5.225, Mag: 0.34},
	{Name: "Achernar", RAHours: 1.6286, DecDeg: -57.237, Mag: 0.46},
	{Name: "Betelgeuse", RAHours: 5.9195, DecDeg: 7.407, Mag: 0.50},
	{Name: "Hadar", RAHours: 14.0637, DecDeg: -60.373, Mag: 0.61},
	{Name: "Altair", RAHours: 19.8464, DecDeg: 8.868, Mag: 0.76},
	{Name: "Acrux", RAHours: 12.4433, DecDeg: -63.099, Mag: 0.76},
	{Name: "Aldebaran", RAHours: 4.5987, DecDeg: 16.509, Mag: 0.85},
	{Name: "Antares", RAHours: 16.4901, DecDeg: -26.432, Mag: 0.96},
	{Name: "Spica", RAHours: 13.4199, DecDeg: -11.161, Mag: 0.97},
	{Name: "Pollux", RAHours: 7.7553, DecDeg: 28.026, Mag: 1.14},
	{Name: "Fomalhaut", RAHours: 22.9609, DecDeg: -29.622, Mag: 1.16},
	{Name: "Deneb", RAHours: 20.6905, DecDeg: 45.280, Mag: 1.25},
	{Name: "Mimosa", RAHours: 12.7953, DecDeg: -59.689, Mag: 1.25},
	{Name: "Regulus", RAHours: 10.1395, DecDeg: 11.967, Mag: 1.35},
	{Name: "Adhara", RAHours: 6.9771, DecDeg: -28.972, Mag: 1.50},
	{Name: "Castor", RAHours: 7.5767, DecDeg: 31.889, Mag: 1.58},
	{Name: "Gacrux", RAHours: 12.5194, DecDeg: -57.113, Mag: 1.63},
	{Name: "Shaula", RAHours: 17.5601, DecDeg: -37.104, Mag: 1.63},
	{Name: "Bellatrix", RAHours: 5.4189, DecDeg: 6.350, Mag: 1.64},
	{Name: "Elnath", RAHours: 5.4382, DecDeg: 28.608, Mag: 1.65},
	{Name: "Miaplacidus", RAHours: 9.2200, DecDeg: -69.717, Mag: 1.68},
	{Name: "Alnilam", RAHours: 5.6035, DecDeg: -1.202, Mag: 1.69},
	{Name: "Alnair", RAHours: 22.1372, DecDeg: -46.961, Mag: 1.74},
	{Name: "Alnitak", RAHours: 5.6793, DecDeg: -1.943, Mag: 1.77},
	{Name: "Alioth", RAHours: 12.9005, DecDeg: 55.960, Mag: 1.77},
	{Name: "Dubhe", RAHours: 11.0621, DecDeg: 61.751, Mag: 1.79},
	{Name: "Mirfak", RAHours: 3.4054, DecDeg: 49.861, Mag: 1.79},
	{Name: "Wezen", RAHours: 7.1399, DecDeg: -26.393, Mag: 1.84},
	{Name: "Sargas", RAHours: 17.6220, DecDeg: -42.998, Mag: 1.87},
	{Name: "Kaus Australis", RAHours: 18.4029, DecDeg: -34.384, Mag: 1.85},
	{Name: "Avior", RAHours: 8.3753, DecDeg: -59.509, Mag: 1.86},
	{Name: "Alkaid", RAHours: 13.7923, DecDeg: 49.313, Mag: 1.86},
	{Name: "Menkalinan", RAHours: 5.9921, DecDeg: 44.948, Mag: 1.90},
	{Name: "Atria", RAHours: 16.8111, DecDeg: -69.028, Mag: 1.92},
	{Name: "Alhena", RAHours: 6.6285, DecDeg: 16.399, Mag: 1.93},
	{Name: "Peacock", RAHours: 20.4275, DecDeg: -56.735, Mag: 1.94},
	{Name: "Alsephina", RAHours: 8.7451, DecDeg: -54.709, Mag: 1.96},
	{Name: "Mirzam", RAHours: 6.3783, DecDeg: -17.956, Mag: 1.98},
	{Name: "Polaris", RAHours: 2.5303, DecDeg: 89.264, Mag: 2.02},
	{Name: "Alphard", RAHours: 9.4598, DecDeg: -8.659, Mag: 2.00},
	{Name: "Hamal", RAHours: 2.1195, DecDeg: 23.463, Mag: 2.00},
	{Name: "Algieba", RAHours: 9.7642, DecDeg: 19.842, Mag: 2.08},
}
