package astro

import (
	"fmt"
	"math"
)

// Zone is a civil time offset from UT.
type Zone struct {
	Hours          float64 // offset east of Greenwich, e.g. -5 for EST
	DaylightSaving int     // additional hours of daylight saving
}

// Offset returns the total offset in hours.
func (z Zone) Offset() float64 {
	return z.Hours + float64(z.DaylightSaving)
}

// Instant is any time value that can be resolved to a universal instant.
type Instant interface {
	Universal() JulianDate
}

// CivilDateTime is a local calendar date and time in a zone.
type CivilDateTime struct {
	Date CalendarDate
	Zone Zone
}

// Universal converts the local civil time to UT. The month is assumed valid;
// use CalendarToJD first when handling untrusted input.
func (c CivilDateTime) Universal() JulianDate {
	return calendarToJD(c.Date).AddHours(-c.Zone.Offset())
}

func (c CivilDateTime) String() string {
	return fmt.Sprintf("%s %+g", c.Date, c.Zone.Offset())
}

// UniversalToCivil converts a UT instant to local civil time in a zone. The
// local date rolls over when the offset crosses midnight.
func UniversalToCivil(jd JulianDate, z Zone) CivilDateTime {
	return CivilDateTime{Date: JDToCalendar(jd.AddHours(z.Offset())), Zone: z}
}

// LocalMidnight returns the UT instant of local midnight starting the civil
// day that contains the calendar date d (time of day ignored).
func LocalMidnight(d CalendarDate, z Zone) JulianDate {
	day := CalendarDate{Year: d.Year, Month: d.Month, Day: math.Floor(d.Day)}
	return CivilDateTime{Date: day, Zone: z}.Universal()
}

// LocalNoon returns the UT instant of local noon on the civil day of d.
func LocalNoon(d CalendarDate, z Zone) JulianDate {
	return LocalMidnight(d, z).AddHours(12)
}
