package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mooncaker816/learnmeeus/v3/solstice"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/elements"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/events"
	"github.com/litescript/ls-almanac/internal/ui"
)

func kv(w io.Writer, label, format string, args ...interface{}) {
	fmt.Fprintf(w, "%-16s %s\n", label, fmt.Sprintf(format, args...))
}

func newJDCmd(o *options) *cobra.Command {
	var fromJD float64
	var seasons bool
	cmd := &cobra.Command{
		Use:   "jd",
		Short: "Julian date, weekday and day number",
		Long: `Prints the Julian date of the selected instant with its UT calendar date,
weekday and day of the year. --from converts a Julian date back to a calendar
date. --seasons lists the equinoxes, solstices and Easter of the year.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			jd := astro.JulianDate(fromJD)
			if !cmd.Flags().Changed("from") {
				var err error
				if jd, err = o.instant(); err != nil {
					return err
				}
			}

			ut := astro.JDToCalendar(jd)
			dayNum, err := astro.DayNumber(ut)
			if err != nil {
				return err
			}
			kv(w, "Julian date", "%.5f", float64(jd))
			kv(w, "UT", "%s", ut)
			kv(w, "Local", "%s", astro.UniversalToCivil(jd, o.zone()))
			kv(w, "Weekday", "%s", astro.Weekday(jd))
			kv(w, "Day of year", "%d", int(math.Floor(dayNum)))
			if !seasons {
				return nil
			}

			fmt.Fprintln(w)
			for _, s := range []struct {
				name string
				jde  func(int) float64
			}{
				{"March equinox", solstice.March},
				{"June solstice", solstice.June},
				{"Sept equinox", solstice.September},
				{"Dec solstice", solstice.December},
			} {
				kv(w, s.name, "%s TD", astro.JDToCalendar(astro.JulianDate(s.jde(ut.Year))))
			}
			easter := astro.Easter(ut.Year)
			kv(w, "Easter", "%04d-%02d-%02d", easter.Year, easter.Month, int(easter.Day))
			return nil
		},
	}
	cmd.Flags().Float64Var(&fromJD, "from", 0, "convert this Julian date instead of the selected instant")
	cmd.Flags().BoolVar(&seasons, "seasons", false, "list equinoxes, solstices and Easter for the year")
	return cmd
}

func newSiderealCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sidereal",
		Short: "Greenwich and local sidereal time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := o.instant()
			if err != nil {
				return err
			}
			st := astro.SiderealAt(jd, o.cfg.Observer.LonDeg)
			w := cmd.OutOrStdout()
			kv(w, "UT", "%s", astro.JDToCalendar(jd))
			kv(w, "GST", "%s", ui.FormatHours(st.Greenwich()))
			kv(w, "LST", "%s", ui.FormatHours(st.Local()))
			kv(w, "Longitude", "%s", ui.FormatDeg(st.LonDeg))
			return nil
		},
	}
}

// writePosition prints the common coordinate block of a body.
func writePosition(w io.Writer, pos ephem.Position) {
	kv(w, "RA", "%s", ui.FormatRA(pos.Equatorial.RAHours))
	kv(w, "Dec", "%s", ui.FormatDeg(pos.Equatorial.DecDeg))
	kv(w, "Ecl lon/lat", "%.4f° / %.4f°", pos.Ecliptic.LonDeg, pos.Ecliptic.LatDeg)
	kv(w, "Alt/Az", "%.2f° / %.2f°", pos.Horizon.AltDeg, pos.Horizon.AzDeg)
}

func writeRiseSet(w io.Writer, rise, set events.Result) {
	kv(w, "Rise", "%s", ui.FormatEventAz(rise))
	kv(w, "Set", "%s", ui.FormatEventAz(set))
}

func newSunCmd(o *options) *cobra.Command {
	var spotPA, spotDist float64
	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Sun position, rising, setting and equation of time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, jd, err := o.civilDate()
			if err != nil {
				return err
			}
			pos, err := o.provider.PositionAt("Sun", jd, o.observer())
			if err != nil {
				return err
			}
			sun := astro.SunPosition(jd)
			w := cmd.OutOrStdout()
			writePosition(w, pos)
			kv(w, "Distance", "%.6f AU", sun.DistanceAU)
			kv(w, "Diameter", "%s", ui.FormatDeg(sun.AngularDiameterDeg))
			kv(w, "Eq. of time", "%+.2f min", astro.EquationOfTime(jd)*60)
			l0, b0, p := astro.SolarDisk(jd)
			kv(w, "Carrington", "%d", astro.CarringtonRotation(jd))
			kv(w, "Disk", "P %+.2f°  B0 %+.2f°  L0 %.2f°", p, b0, astro.Normalize360(l0))
			if cmd.Flags().Changed("spot-dist") {
				h := astro.HeliographicCoordinates(spotPA, spotDist, jd)
				kv(w, "Spot", "lon %.2f°  lat %+.2f°", h.LonDeg, h.LatDeg)
			}
			rise, set := events.SunRiseSet(date, o.observer(), o.zone(), o.cfg.Solver)
			writeRiseSet(w, rise, set)
			return nil
		},
	}
	cmd.Flags().Float64Var(&spotPA, "spot-pa", 0, "position angle of a disk feature in degrees")
	cmd.Flags().Float64Var(&spotDist, "spot-dist", 0, "distance of a disk feature from the centre in arcminutes")
	return cmd
}

func newMoonCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "moon",
		Short: "Moon position, phase, rising and setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, jd, err := o.civilDate()
			if err != nil {
				return err
			}
			pos, err := o.provider.PositionAt("Moon", jd, o.observer())
			if err != nil {
				return err
			}
			moon := astro.MoonPosition(jd)
			w := cmd.OutOrStdout()
			writePosition(w, pos)
			kv(w, "Distance", "%.0f km", moon.DistanceKm)
			kv(w, "Parallax", "%s", ui.FormatDeg(moon.HorizontalParallax))
			kv(w, "Diameter", "%s", ui.FormatDeg(moon.AngularDiameterDeg))
			kv(w, "Illuminated", "%.1f%%", pos.Phase*100)
			sel := astro.SelenographicCoordinates(jd)
			kv(w, "Libration", "lon %+.2f°  lat %+.2f°  axis %.2f°", sel.SubEarthLonDeg, sel.SubEarthLatDeg, sel.PoleAngleDeg)
			kv(w, "Colongitude", "%.2f°", sel.ColongitudeDeg)
			rise, set := events.MoonRiseSet(date, o.observer(), o.zone(), o.cfg.Solver)
			writeRiseSet(w, rise, set)
			kv(w, "New moon", "%s UT", astro.JDToCalendar(astro.NewMoon(jd).JD))
			kv(w, "Full moon", "%s UT", astro.JDToCalendar(astro.FullMoon(jd).JD))
			return nil
		},
	}
}

// listNames prints one catalog section.
func listNames(w io.Writer, c *elements.Catalog, kind elements.Kind) {
	for _, n := range c.Names(kind) {
		if kind == elements.KindPlanet && strings.EqualFold(n, "Earth") {
			continue
		}
		fmt.Fprintln(w, n)
	}
}

func newPlanetCmd(o *options) *cobra.Command {
	var precise bool
	cmd := &cobra.Command{
		Use:   "planet [name]",
		Short: "Planet position and aspect; lists planets without a name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				listNames(w, o.catalog, elements.KindPlanet)
				return nil
			}
			if precise {
				o.provider.WithSecular(o.catalog.Secular())
			}
			date, jd, err := o.civilDate()
			if err != nil {
				return err
			}
			pl, err := o.provider.Planet(args[0], jd)
			if err != nil {
				return err
			}
			pos, err := o.provider.PositionAt(args[0], jd, o.observer())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, pl.Name)
			writePosition(w, pos)
			kv(w, "Helio lon", "%.4f°", pl.HelioLonDeg)
			kv(w, "Sun distance", "%.5f AU", pl.RadiusAU)
			kv(w, "Distance", "%.5f AU", pl.DistanceAU)
			kv(w, "Light time", "%.2f h", pl.LightTimeHours)
			kv(w, "Illuminated", "%.1f%%", pl.Phase*100)
			kv(w, "Magnitude", "%.1f", pl.Magnitude)
			kv(w, "Diameter", "%.2f\"", pl.DiameterArcsec)
			return writeBodyRiseSet(w, o, args[0], date)
		},
	}
	cmd.Flags().BoolVar(&precise, "precise", false, "use the perturbed planet theory (default from config)")
	return cmd
}

func writeBodyRiseSet(w io.Writer, o *options, name string, date astro.CalendarDate) error {
	f, err := o.provider.PositionFunc(name)
	if err != nil {
		return err
	}
	rise, set := events.BodyRiseSet(f, events.Fixed(events.StarThreshold), o.observer(), date, o.zone(), o.cfg.Solver)
	writeRiseSet(w, rise, set)
	return nil
}

func newCometCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "comet [name]",
		Short: "Comet position; lists comets without a name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				listNames(w, o.catalog, elements.KindComet)
				return nil
			}
			orbit, err := o.catalog.Comet(args[0])
			if err != nil {
				return err
			}
			date, jd, err := o.civilDate()
			if err != nil {
				return err
			}
			c, err := astro.CometPosition(jd, orbit)
			if err != nil {
				return err
			}
			pos, err := o.provider.PositionAt(args[0], jd, o.observer())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, c.Name)
			writePosition(w, pos)
			kv(w, "Sun distance", "%.5f AU", c.RadiusAU)
			kv(w, "Distance", "%.5f AU", c.DistanceAU)
			kv(w, "Elongation", "%.1f°", astro.SolarElongation(c.Equatorial, jd))
			return writeBodyRiseSet(w, o, args[0], date)
		},
	}
}

func newBinaryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "binary [name]",
		Short: "Visual binary position angle and separation",
		Long:  "Without a name, prints every binary in the catalog.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := o.instant()
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = o.catalog.Names(elements.KindBinary)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-16s %8s %10s\n", "Binary", "PA", "Sep")
			for _, name := range names {
				b, err := o.catalog.Binary(name)
				if err != nil {
					return err
				}
				pa, sep, err := astro.BinaryPosition(jd, b)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Fprintf(w, "%-16s %7.1f° %9.2f\"\n", b.Name, pa, sep)
			}
			return nil
		},
	}
}

func newRiseSetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "riseset [body...]",
		Short: "Rising, transit and setting times",
		Long:  "Bodies default to the Sun and Moon. Any planet, comet or bright star may be named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, jd, err := o.civilDate()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"Sun", "Moon"}
			}
			obs, zone := o.observer(), o.zone()
			noon := astro.LocalNoon(date, zone)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-14s %-16s %-16s %-16s\n", "Body", "Rise", "Transit", "Set")
			for _, name := range args {
				kind, ok := o.provider.Kind(name)
				if !ok {
					return fmt.Errorf("%q: %w", name, ephem.ErrUnknownBody)
				}
				var rise, set events.Result
				switch kind {
				case ephem.KindSun:
					rise, set = events.SunRiseSet(date, obs, zone, o.cfg.Solver)
				case ephem.KindMoon:
					rise, set = events.MoonRiseSet(date, obs, zone, o.cfg.Solver)
				default:
					f, err := o.provider.PositionFunc(name)
					if err != nil {
						return err
					}
					rise, set = events.BodyRiseSet(f, events.Fixed(events.StarThreshold), obs, date, zone, o.cfg.Solver)
				}
				pos, err := o.provider.PositionAt(name, noon, obs)
				if err != nil {
					return err
				}
				transit := events.Transit(pos.Equatorial, obs, date, zone)
				fmt.Fprintf(w, "%-14s %-16s %-16s %-16s\n", pos.Body, ui.FormatEventAz(rise), ui.FormatEvent(transit), ui.FormatEventAz(set))
			}
			o.log.Debug("rise/set for %d bodies at JD %.5f", len(args), float64(jd))
			return nil
		},
	}
}

func newTwilightCmd(o *options) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "twilight",
		Short: "Morning and evening twilight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _, err := o.civilDate()
			if err != nil {
				return err
			}
			types := []events.TwilightType{events.Civil, events.Nautical, events.Astronomical}
			if only != "" {
				t, err := events.ParseTwilightType(only)
				if err != nil {
					return err
				}
				types = []events.TwilightType{t}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-14s %-26s %-26s\n", "Twilight", "Morning", "Evening")
			for _, t := range types {
				am, pm := events.Twilight(date, o.observer(), o.zone(), t, o.cfg.Solver)
				fmt.Fprintf(w, "%-14s %-26s %-26s\n", t, ui.FormatEvent(am), ui.FormatEvent(pm))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&only, "type", "", "civil, nautical or astronomical (default all)")
	return cmd
}

var errEclipseKind = errors.New("eclipse kind must be lunar or solar")

func newEclipseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:       "eclipse [lunar|solar]",
		Short:     "Eclipse prospects and circumstances for the current lunation",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"lunar", "solar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _, err := o.civilDate()
			if err != nil {
				return err
			}
			lunar, solar := true, true
			if len(args) == 1 {
				switch strings.ToLower(args[0]) {
				case "lunar":
					solar = false
				case "solar":
					lunar = false
				default:
					return fmt.Errorf("%q: %w", args[0], errEclipseKind)
				}
			}

			w := cmd.OutOrStdout()
			zone := o.zone()
			if lunar {
				writeLunarEclipse(w, events.LunarEclipseCircumstances(date, zone, o.cfg.Solver), zone)
			}
			if lunar && solar {
				fmt.Fprintln(w)
			}
			if solar {
				writeSolarEclipse(w, events.SolarEclipseCircumstances(date, zone, o.observer(), o.cfg.Solver), zone)
			}
			return nil
		},
	}
}

func writeOccurrence(w io.Writer, title string, occ events.EclipseOccurrence, zone astro.Zone) {
	fmt.Fprintln(w, title)
	kv(w, "Syzygy", "%s", astro.UniversalToCivil(occ.Syzygy, zone))
	kv(w, "Eclipse", "%s", occ.Status)
}

func writePhase(w io.Writer, label string, p events.Phase) {
	if !p.Occurs {
		kv(w, label, "none")
		return
	}
	kv(w, label, "%s to %s", ui.FormatEvent(p.Begin), ui.FormatEvent(p.End))
}

func writeLunarEclipse(w io.Writer, e events.LunarEclipse, zone astro.Zone) {
	writeOccurrence(w, "Lunar eclipse", e.Occurrence, zone)
	if !e.Occurs() {
		return
	}
	kv(w, "Maximum", "%s", ui.FormatEvent(e.Maximum))
	writePhase(w, "Penumbral", e.Penumbral)
	writePhase(w, "Umbral", e.Umbral)
	writePhase(w, "Total", e.Total)
	kv(w, "Umbral mag.", "%.3f", e.UmbralMagnitude)
	kv(w, "Penumbral mag.", "%.3f", e.PenumbralMagnitude)
}

func writeSolarEclipse(w io.Writer, e events.SolarEclipse, zone astro.Zone) {
	writeOccurrence(w, "Solar eclipse", e.Occurrence, zone)
	if !e.Occurs() {
		return
	}
	kv(w, "Maximum", "%s", ui.FormatEvent(e.Maximum))
	writePhase(w, "Partial", e.Partial)
	kv(w, "Magnitude", "%.3f", e.Magnitude)
	kv(w, "Sun altitude", "%.1f°", e.SunAltitudeDeg)
}
