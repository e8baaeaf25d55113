// Package config loads almanac settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/logging"
)

// Errors returned by Load and Validate.
var (
	ErrInvalid           = errors.New("invalid config")
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Duration is a time.Duration written as "30s" or "1m" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Observer is the observing site.
type Observer struct {
	Name    string  `yaml:"name" toml:"name"`
	LatDeg  float64 `yaml:"lat_deg" toml:"lat_deg"`
	LonDeg  float64 `yaml:"lon_deg" toml:"lon_deg"` // east positive
	HeightM float64 `yaml:"height_m" toml:"height_m"`
}

// Zone is the civil time zone of the observer.
type Zone struct {
	Hours          float64 `yaml:"hours" toml:"hours"`
	DaylightSaving int     `yaml:"daylight_saving" toml:"daylight_saving"`
}

// Atmosphere sets the conditions used for refraction.
type Atmosphere struct {
	PressureMbar float64 `yaml:"pressure_mbar" toml:"pressure_mbar"`
	TempC        float64 `yaml:"temp_c" toml:"temp_c"`
}

// Server configures the HTTP service.
type Server struct {
	Addr           string   `yaml:"addr" toml:"addr"`
	RatePerSecond  float64  `yaml:"rate_per_second" toml:"rate_per_second"`
	Burst          int      `yaml:"burst" toml:"burst"`
	StreamInterval Duration `yaml:"stream_interval" toml:"stream_interval"`
}

// Config holds every almanac setting.
type Config struct {
	Observer        Observer            `yaml:"observer" toml:"observer"`
	Zone            Zone                `yaml:"zone" toml:"zone"`
	Atmosphere      Atmosphere          `yaml:"atmosphere" toml:"atmosphere"`
	PrecisePlanets  bool                `yaml:"precise_planets" toml:"precise_planets"`
	Solver          events.SolverConfig `yaml:"solver" toml:"solver"`
	Twilight        string              `yaml:"twilight" toml:"twilight"`
	RefreshInterval Duration            `yaml:"refresh_interval" toml:"refresh_interval"`
	LogLevel        string              `yaml:"log_level" toml:"log_level"`
	Server          Server              `yaml:"server" toml:"server"`
}

// DefaultConfig returns a Greenwich observer on UT with standard
// atmosphere.
func DefaultConfig() Config {
	return Config{
		Observer:        Observer{Name: "Greenwich", LatDeg: 51.4769, LonDeg: -0.0005},
		Atmosphere:      Atmosphere{PressureMbar: 1012, TempC: 10},
		Solver:          events.DefaultSolverConfig(),
		Twilight:        "astronomical",
		RefreshInterval: Duration{5 * time.Second},
		LogLevel:        "info",
		Server: Server{
			Addr:           "127.0.0.1:8080",
			RatePerSecond:  5,
			Burst:          10,
			StreamInterval: Duration{5 * time.Second},
		},
	}
}

// Load reads a config file, choosing the decoder by extension (.yaml, .yml
// or .toml). Values missing from the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data in the format named by ext.
func Parse(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the almanac cannot work with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
		}
	}

	o := c.Observer
	check(finite(o.LatDeg) && o.LatDeg >= -90 && o.LatDeg <= 90, "latitude %v outside [-90, 90]", o.LatDeg)
	check(finite(o.LonDeg) && o.LonDeg >= -180 && o.LonDeg <= 180, "longitude %v outside [-180, 180]", o.LonDeg)
	check(finite(o.HeightM) && o.HeightM > -500 && o.HeightM < 10000, "height %v m out of range", o.HeightM)
	check(c.Zone.Hours >= -12 && c.Zone.Hours <= 14, "zone offset %v h out of range", c.Zone.Hours)
	check(c.Zone.DaylightSaving >= 0 && c.Zone.DaylightSaving <= 2, "daylight saving %d out of range", c.Zone.DaylightSaving)
	check(c.Atmosphere.PressureMbar > 0 && c.Atmosphere.PressureMbar < 1200, "pressure %v mbar out of range", c.Atmosphere.PressureMbar)
	check(c.Atmosphere.TempC > -90 && c.Atmosphere.TempC < 60, "temperature %v C out of range", c.Atmosphere.TempC)
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if _, err := events.ParseTwilightType(c.Twilight); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	check(c.RefreshInterval.Duration >= 100*time.Millisecond, "refresh interval %v too short", c.RefreshInterval.Duration)
	check(c.Server.RatePerSecond > 0, "server rate %v must be positive", c.Server.RatePerSecond)
	check(c.Server.Burst >= 1, "server burst %d must be at least 1", c.Server.Burst)
	check(c.Server.StreamInterval.Duration >= 100*time.Millisecond, "stream interval %v too short", c.Server.StreamInterval.Duration)

	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AstroObserver converts the site to the astro type.
func (c Config) AstroObserver() astro.Observer {
	return astro.Observer{
		Name:    c.Observer.Name,
		LatDeg:  c.Observer.LatDeg,
		LonDeg:  c.Observer.LonDeg,
		HeightM: c.Observer.HeightM,
	}
}

// AstroZone converts the zone to the astro type.
func (c Config) AstroZone() astro.Zone {
	return astro.Zone{Hours: c.Zone.Hours, DaylightSaving: c.Zone.DaylightSaving}
}

// TwilightType returns the configured twilight depression. Validate has
// already rejected unknown names.
func (c Config) TwilightType() events.TwilightType {
	t, _ := events.ParseTwilightType(c.Twilight)
	return t
}

// Level returns the configured log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
