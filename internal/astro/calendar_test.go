package astro

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
)

func TestCalendarToJD(t *testing.T) {
	tests := []struct {
		name string
		date CalendarDate
		want JulianDate
	}{
		{"evening of 2009-06-19", CalendarDate{2009, 6, 19.75}, 2455002.25},
		{"J2000", CalendarDate{2000, 1, 1.5}, J2000},
		{"1900 January 0.5", CalendarDate{1900, 1, 0.5}, B1900},
		{"last Julian day", CalendarDate{1582, 10, 4}, 2299159.5},
		{"first Gregorian day", CalendarDate{1582, 10, 15}, 2299160.5},
		{"start of the count", CalendarDate{-4712, 1, 1.5}, 0},
		{"Unix epoch", CalendarDate{1970, 1, 1}, 2440587.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalendarToJD(tt.date)
			if err != nil {
				t.Fatalf("CalendarToJD() error = %v", err)
			}
			if math.Abs(float64(got-tt.want)) > 1e-9 {
				t.Errorf("CalendarToJD(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestCalendarToJD_InvalidMonth(t *testing.T) {
	for _, m := range []int{0, 13, -1} {
		_, err := CalendarToJD(CalendarDate{Year: 2000, Month: m, Day: 1})
		if !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("month %d: error = %v, want ErrInvalidMonth", m, err)
		}
	}
}

func TestCalendarToJD_MatchesMeeus(t *testing.T) {
	for y := 1600; y <= 2400; y += 37 {
		for m := 1; m <= 12; m += 5 {
			d := 1.0 + float64(y%27) + 0.37
			got := calendarToJD(CalendarDate{y, m, d})
			want := julian.CalendarGregorianToJD(y, m, d)
			if math.Abs(float64(got)-want) > 1e-6 {
				t.Errorf("%d-%d-%v: got %v, meeus %v", y, m, d, got, want)
			}
		}
	}
}

func TestJDToCalendar_RoundTrip(t *testing.T) {
	for jd := JulianDate(0); jd < 2800000; jd += 12345.678 {
		c := JDToCalendar(jd)
		back := calendarToJD(c)
		if math.Abs(float64(back-jd)) > 1e-5 {
			t.Fatalf("round trip %v -> %v -> %v", jd, c, back)
		}
	}

	c := JDToCalendar(2455002.25)
	if c.Year != 2009 || c.Month != 6 || math.Abs(c.Day-19.75) > 1e-9 {
		t.Errorf("JDToCalendar(2455002.25) = %+v, want 2009-06-19.75", c)
	}

	y, m, d := julian.JDToCalendar(2455002.25)
	if y != c.Year || m != c.Month || math.Abs(d-c.Day) > 1e-9 {
		t.Errorf("meeus disagrees: %d-%d-%v vs %+v", y, m, d, c)
	}
}

func TestCalendarToJD_Monotone(t *testing.T) {
	prev := calendarToJD(CalendarDate{1582, 9, 30})
	for day := 1.0; day <= 31; day++ {
		jd := calendarToJD(CalendarDate{1582, 10, day})
		if jd < prev {
			t.Errorf("1582-10-%v: %v before previous %v", day, jd, prev)
		}
		prev = jd
	}
}

func TestTimeBridge(t *testing.T) {
	tm := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jd := FromTime(tm)
	if math.Abs(float64(jd)-2460310.5) > 1e-9 {
		t.Errorf("FromTime() = %v, want 2460310.5", jd)
	}
	if got := jd.Time(); !got.Equal(tm) {
		t.Errorf("Time() = %v, want %v", got, tm)
	}
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date CalendarDate
		want time.Weekday
	}{
		{CalendarDate{2009, 2, 15}, time.Sunday},
		{CalendarDate{2000, 1, 1.9}, time.Saturday},
		{CalendarDate{1582, 10, 15}, time.Friday},
	}
	for _, tt := range tests {
		if got := Weekday(calendarToJD(tt.date)); got != tt.want {
			t.Errorf("Weekday(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestDayNumber(t *testing.T) {
	got, err := DayNumber(CalendarDate{2009, 11, 27})
	if err != nil {
		t.Fatal(err)
	}
	if got != 331 {
		t.Errorf("DayNumber(2009-11-27) = %v, want 331", got)
	}
	got, _ = DayNumber(CalendarDate{2000, 3, 1})
	if got != 61 {
		t.Errorf("DayNumber(2000-03-01) = %v, want 61", got)
	}
}

func TestEaster(t *testing.T) {
	tests := []struct {
		year       int
		month, day int
	}{
		{2009, 4, 12},
		{2000, 4, 23},
		{2019, 4, 21},
		{2038, 4, 25},
	}
	for _, tt := range tests {
		got := Easter(tt.year)
		if got.Month != tt.month || int(got.Day) != tt.day {
			t.Errorf("Easter(%d) = %d-%v, want %d-%d", tt.year, got.Month, got.Day, tt.month, tt.day)
		}
	}
}

func TestUniversalToCivil_Rollover(t *testing.T) {
	// 2013-07-01 03:37 local at UTC+4 is the previous UT day
	local := CivilDateTime{Date: Date(2013, 7, 1, HMS(3, 37, 0)), Zone: Zone{Hours: 4}}
	ut := JDToCalendar(local.Universal())
	if ut.Month != 6 || int(ut.Day) != 30 {
		t.Fatalf("Universal() = %v, want 2013-06-30", ut)
	}
	if h := (ut.Day - 30) * 24; math.Abs(h-HMS(23, 37, 0)) > 1e-6 {
		t.Errorf("UT hour = %v, want 23:37", h)
	}

	back := UniversalToCivil(local.Universal(), local.Zone)
	if back.Date.Month != 7 || math.Abs(back.Date.Day-local.Date.Day) > 1e-6 {
		t.Errorf("UniversalToCivil() = %v, want %v", back.Date, local.Date)
	}
}

func TestLocalNoon(t *testing.T) {
	noon := LocalNoon(Date(1986, 3, 10, 0), Zone{Hours: -5})
	want := calendarToJD(CalendarDate{1986, 3, 10.5}).AddHours(5)
	if math.Abs(float64(noon-want)) > 1e-9 {
		t.Errorf("LocalNoon() = %v, want %v", noon, want)
	}
}
