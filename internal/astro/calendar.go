package astro

import (
	"fmt"
	"math"
	"time"
)

// JulianDate is a continuous count of days (UT) since noon, 1 January 4713 BC.
type JulianDate float64

// CalendarDate is a date in the civil calendar. The Julian calendar applies
// before 15 October 1582 and the Gregorian calendar from that date on.
// Year 0 is 1 BC.
type CalendarDate struct {
	Year  int
	Month int     // 1-12
	Day   float64 // day of month; the fraction carries time of day
}

// J2000 is the Julian date of 2000 January 1.5.
const J2000 JulianDate = 2451545.0

// B1900 is the Julian date of 1900 January 0.5, the origin of the classical
// solar and lunar series.
const B1900 JulianDate = 2415020.0

const unixEpochJD = 2440587.5

// Date constructs a CalendarDate from a day number and a decimal UT hour.
func Date(year, month, day int, hours float64) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: float64(day) + hours/24}
}

func (c CalendarDate) String() string {
	d := math.Floor(c.Day)
	h, m, s := SplitHMS((c.Day - d) * 24)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%05.2f", c.Year, c.Month, int(d), h, m, s)
}

func (c CalendarDate) isGregorian() bool {
	switch {
	case c.Year != 1582:
		return c.Year > 1582
	case c.Month != 10:
		return c.Month > 10
	default:
		return c.Day >= 15
	}
}

// CalendarToJD converts a calendar date to a Julian date.
func CalendarToJD(c CalendarDate) (JulianDate, error) {
	if c.Month < 1 || c.Month > 12 {
		return 0, fmt.Errorf("calendar date %d-%d: %w", c.Year, c.Month, ErrInvalidMonth)
	}
	return calendarToJD(c), nil
}

// calendarToJD assumes a valid month.
func calendarToJD(c CalendarDate) JulianDate {
	y := float64(c.Year)
	m := float64(c.Month)
	if c.Month < 3 {
		y--
		m += 12
	}

	var b float64
	if c.isGregorian() {
		a := math.Trunc(y / 100)
		b = 2 - a + math.Trunc(a/4)
	}

	var cc float64
	if y < 0 {
		cc = math.Trunc(365.25*y - 0.75)
	} else {
		cc = math.Trunc(365.25 * y)
	}
	d := math.Trunc(30.6001 * (m + 1))

	return JulianDate(b + cc + d + c.Day + 1720994.5)
}

// mustJD converts a date whose month is known to be valid.
func mustJD(year, month int, day float64) JulianDate {
	return calendarToJD(CalendarDate{Year: year, Month: month, Day: day})
}

// JDToCalendar converts a Julian date back to a calendar date.
func JDToCalendar(jd JulianDate) CalendarDate {
	i := math.Floor(float64(jd) + 0.5)
	f := float64(jd) + 0.5 - i

	b := i
	if i > 2299160 {
		a := math.Floor((i - 1867216.25) / 36524.25)
		b = i + 1 + a - math.Floor(a/4)
	}
	c := b + 1524
	d := math.Floor((c - 122.1) / 365.25)
	e := math.Floor(365.25 * d)
	g := math.Floor((c - e) / 30.6001)

	day := c - e + f - math.Floor(30.6001*g)
	month := g - 1
	if g >= 13.5 {
		month = g - 13
	}
	year := d - 4716
	if month < 2.5 {
		year = d - 4715
	}
	return CalendarDate{Year: int(year), Month: int(month), Day: day}
}

// Midnight returns the Julian date of 0h UT on the same UT day.
func (jd JulianDate) Midnight() JulianDate {
	return JulianDate(math.Floor(float64(jd)-0.5) + 0.5)
}

// Hours returns the UT time of day in decimal hours.
func (jd JulianDate) Hours() float64 {
	return float64(jd-jd.Midnight()) * 24
}

// AddHours offsets a Julian date by a number of hours.
func (jd JulianDate) AddHours(h float64) JulianDate {
	return jd + JulianDate(h/24)
}

// Time converts the Julian date to a UTC time.Time.
func (jd JulianDate) Time() time.Time {
	ns := math.Round((float64(jd) - unixEpochJD) * 86400e9)
	return time.Unix(0, int64(ns)).UTC()
}

// FromTime converts a time.Time to a Julian date.
func FromTime(t time.Time) JulianDate {
	return JulianDate(float64(t.UnixNano())/86400e9 + unixEpochJD)
}

// julianCenturies1900 returns Julian centuries since 1900 January 0.5.
func (jd JulianDate) julianCenturies1900() float64 {
	return float64(jd-B1900) / 36525
}

// julianCenturies2000 returns Julian centuries since J2000.0.
func (jd JulianDate) julianCenturies2000() float64 {
	return float64(jd-J2000) / 36525
}

// Weekday returns the day of the week of the UT date containing jd.
func Weekday(jd JulianDate) time.Weekday {
	n := math.Floor(float64(jd.Midnight()) + 1.5)
	return time.Weekday(int(math.Mod(n, 7)+7) % 7)
}

// DayNumber returns the day of the year, 1 January being day 1. The
// fraction of the day is kept.
func DayNumber(c CalendarDate) (float64, error) {
	jd, err := CalendarToJD(c)
	if err != nil {
		return 0, err
	}
	return float64(jd - mustJD(c.Year, 1, 0)), nil
}

// Easter returns the date of Easter Sunday in the Gregorian calendar.
func Easter(year int) CalendarDate {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	n := (h + l - 7*m + 114) / 31
	p := (h + l - 7*m + 114) % 31
	return CalendarDate{Year: year, Month: n, Day: float64(p + 1)}
}

// yearFraction expresses a Julian date as a decimal year, used by the
// orbit epochs of comets and binary stars.
func yearFraction(jd JulianDate) float64 {
	c := JDToCalendar(jd)
	return float64(c.Year) + float64(jd-mustJD(c.Year, 1, 0))/365.242191
}
