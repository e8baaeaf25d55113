package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/logging"
)

const bostonYAML = `
observer:
  name: Boston
  lat_deg: 42.37
  lon_deg: -71.05
zone:
  hours: -5
twilight: civil
refresh_interval: 30s
log_level: debug
precise_planets: true
server:
  addr: ":9090"
  burst: 20
`

const bostonTOML = `
twilight = "civil"
refresh_interval = "30s"
log_level = "debug"
precise_planets = true

[observer]
name = "Boston"
lat_deg = 42.37
lon_deg = -71.05

[zone]
hours = -5.0

[server]
addr = ":9090"
burst = 20
`

func bostonConfig() Config {
	want := DefaultConfig()
	want.Observer = Observer{Name: "Boston", LatDeg: 42.37, LonDeg: -71.05}
	want.Zone = Zone{Hours: -5}
	want.Twilight = "civil"
	want.RefreshInterval = Duration{30 * time.Second}
	want.LogLevel = "debug"
	want.PrecisePlanets = true
	want.Server.Addr = ":9090"
	want.Server.Burst = 20
	return want
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"yaml", ".yaml", bostonYAML},
		{"yml", "yml", bostonYAML},
		{"toml", ".toml", bostonTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			if diff := cmp.Diff(bostonConfig(), got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), ".json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_BadDuration(t *testing.T) {
	_, err := Parse([]byte("refresh_interval: soon\n"), ".yaml")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "almanac.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bostonYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Boston", cfg.Observer.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"latitude", func(c *Config) { c.Observer.LatDeg = 91 }},
		{"longitude", func(c *Config) { c.Observer.LonDeg = -181 }},
		{"zone", func(c *Config) { c.Zone.Hours = 15 }},
		{"daylight saving", func(c *Config) { c.Zone.DaylightSaving = -1 }},
		{"pressure", func(c *Config) { c.Atmosphere.PressureMbar = 0 }},
		{"solver", func(c *Config) { c.Solver.MaxIterations = 0 }},
		{"twilight", func(c *Config) { c.Twilight = "golden hour" }},
		{"refresh", func(c *Config) { c.RefreshInterval = Duration{time.Millisecond} }},
		{"rate", func(c *Config) { c.Server.RatePerSecond = 0 }},
		{"burst", func(c *Config) { c.Server.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Observer.LatDeg = 100
	cfg.Server.Burst = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "burst")
}

func TestConversions(t *testing.T) {
	cfg := bostonConfig()
	cfg.Zone.DaylightSaving = 1

	assert.Equal(t, astro.Observer{Name: "Boston", LatDeg: 42.37, LonDeg: -71.05}, cfg.AstroObserver())
	assert.Equal(t, -4.0, cfg.AstroZone().Offset())
	assert.Equal(t, events.Civil, cfg.TwilightType())
	assert.Equal(t, logging.LevelDebug, cfg.Level())
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 90s ")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}
