// Command ls-almanac computes an astronomical almanac for an observer: a
// terminal UI, one-shot calculations, a text report, or an HTTP service.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/config"
	"github.com/litescript/ls-almanac/internal/elements"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/version"
)

// options holds the global flags and what PersistentPreRunE builds from
// them.
type options struct {
	configPath string
	name       string
	lat, lon   float64
	height     float64
	tz         float64
	dst        int
	logLevel   string
	date       string
	clock      string

	now func() time.Time

	cfg      config.Config
	log      *logging.Logger
	catalog  *elements.Catalog
	provider *ephem.CatalogProvider
}

func main() {
	if err := newRootCmd(&options{now: time.Now}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "ls-almanac",
		Short: "Sun, Moon, planets and eclipses for any observer",
		Long: `ls-almanac computes positions, rising and setting, twilight and
eclipses for an observer on Earth.

Run without a subcommand to start the terminal UI, or to print the almanac
summary when stdout is not a terminal.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.log != nil {
				_ = o.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return runTUI(cmd, o)
			}
			return runAlmanac(cmd, o, almanacFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	pf.StringVar(&o.name, "name", "", "observer name")
	pf.Float64Var(&o.lat, "lat", 0, "observer latitude in degrees, north positive")
	pf.Float64Var(&o.lon, "lon", 0, "observer longitude in degrees, east positive")
	pf.Float64Var(&o.height, "height", 0, "observer height above sea level in metres")
	pf.Float64Var(&o.tz, "tz", 0, "zone offset from UT in hours, e.g. -5")
	pf.IntVar(&o.dst, "dst", 0, "daylight saving hours in effect")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&o.date, "date", "", "local civil date YYYY-MM-DD (default today)")
	pf.StringVar(&o.clock, "time", "", "local civil time HH:MM[:SS] (default now, or 00:00 with --date)")

	root.AddCommand(
		newJDCmd(o),
		newSiderealCmd(o),
		newSunCmd(o),
		newMoonCmd(o),
		newPlanetCmd(o),
		newCometCmd(o),
		newBinaryCmd(o),
		newRiseSetCmd(o),
		newTwilightCmd(o),
		newEclipseCmd(o),
		newAlmanacCmd(o),
		newServeCmd(o),
		newTUICmd(o),
	)
	return root
}

// setup loads the config file, applies flag overrides and builds the
// logger and position provider.
func (o *options) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Observer.Name = o.name
	}
	if flags.Changed("lat") {
		cfg.Observer.LatDeg = o.lat
		if !flags.Changed("name") && o.configPath == "" {
			cfg.Observer.Name = ""
		}
	}
	if flags.Changed("lon") {
		cfg.Observer.LonDeg = o.lon
	}
	if flags.Changed("height") {
		cfg.Observer.HeightM = o.height
	}
	if flags.Changed("tz") {
		cfg.Zone.Hours = o.tz
	}
	if flags.Changed("dst") {
		cfg.Zone.DaylightSaving = o.dst
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	o.log = logging.New(cfg.Level())
	o.log.SetOutput(cmd.ErrOrStderr())

	catalog, err := elements.Default()
	if err != nil {
		return fmt.Errorf("load element catalog: %w", err)
	}
	o.catalog = catalog
	o.provider = ephem.NewCatalogProvider(catalog, ephem.Atmosphere{
		PressureMbar: cfg.Atmosphere.PressureMbar,
		TempC:        cfg.Atmosphere.TempC,
	})
	if cfg.PrecisePlanets {
		o.provider.WithSecular(catalog.Secular())
	}
	o.log.Debug("observer %q at %.4f, %.4f (UT%+g)", cfg.Observer.Name, cfg.Observer.LatDeg, cfg.Observer.LonDeg, cfg.AstroZone().Offset())
	return nil
}

func (o *options) observer() astro.Observer { return o.cfg.AstroObserver() }

func (o *options) zone() astro.Zone { return o.cfg.AstroZone() }

// instant resolves --date and --time in the observer's zone to a UT
// instant. Without either flag it is the current time.
func (o *options) instant() (astro.JulianDate, error) {
	now := astro.FromTime(o.now())
	if o.date == "" && o.clock == "" {
		return now, nil
	}

	zone := o.zone()
	day := astro.UniversalToCivil(now, zone).Date
	hours := 0.0
	if o.date != "" {
		t, err := time.Parse("2006-01-02", o.date)
		if err != nil {
			return 0, fmt.Errorf("--date %q: want YYYY-MM-DD", o.date)
		}
		day = astro.Date(t.Year(), int(t.Month()), t.Day(), 0)
	}
	if o.clock != "" {
		h, err := parseClock(o.clock)
		if err != nil {
			return 0, err
		}
		hours = h
	}

	local := astro.CalendarDate{Year: day.Year, Month: day.Month, Day: float64(int(day.Day)) + hours/24}
	if _, err := astro.CalendarToJD(local); err != nil {
		return 0, err
	}
	return astro.CivilDateTime{Date: local, Zone: zone}.Universal(), nil
}

// civilDate returns the local calendar date of the resolved instant.
func (o *options) civilDate() (astro.CalendarDate, astro.JulianDate, error) {
	jd, err := o.instant()
	if err != nil {
		return astro.CalendarDate{}, 0, err
	}
	return astro.UniversalToCivil(jd, o.zone()).Date, jd, nil
}

func parseClock(s string) (float64, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600, nil
		}
	}
	return 0, fmt.Errorf("--time %q: want HH:MM or HH:MM:SS", s)
}
