package astro

import (
	"math"
	"testing"
)

// 1980-04-22 14:36:51.67 UT
var gstExampleJD = calendarToJD(CalendarDate{1980, 4, 22}).AddHours(HMS(14, 36, 51.67))

func TestUTToGST(t *testing.T) {
	got := UTToGST(gstExampleJD)
	want := HMS(4, 40, 5.23)
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("UTToGST() = %v, want %v", got, want)
	}
}

func TestGSTToUT(t *testing.T) {
	date := gstExampleJD.Midnight()
	ut, warn := GSTToUT(date, HMS(4, 40, 5.23))
	if warn {
		t.Error("unexpected ambiguity warning")
	}
	if math.Abs(ut-HMS(14, 36, 51.67)) > 1e-5 {
		t.Errorf("GSTToUT() = %v, want %v", ut, HMS(14, 36, 51.67))
	}
}

func TestGSTToUT_Ambiguous(t *testing.T) {
	date := gstExampleJD.Midnight()
	g0 := UTToGST(date)

	// A GST just after the one at 0h UT falls in the first minutes of the day.
	if _, warn := GSTToUT(date, g0+0.01); !warn {
		t.Error("expected ambiguity warning at start of day")
	}
	if _, warn := GSTToUT(date, g0+6); warn {
		t.Error("unexpected warning six hours into the day")
	}
}

func TestLocalSidereal(t *testing.T) {
	gst := HMS(4, 40, 5.23)

	lst := GSTToLST(gst, -64)
	if math.Abs(lst-0.401453) > 1e-5 {
		t.Errorf("GSTToLST() = %v, want 0.401453", lst)
	}
	if back := LSTToGST(lst, -64); math.Abs(back-gst) > 1e-9 {
		t.Errorf("LSTToGST() = %v, want %v", back, gst)
	}

	// LST should always be in 0-24 range
	for lon := -180.0; lon <= 180; lon += 30 {
		l := GSTToLST(gst, lon)
		if l < 0 || l >= 24 {
			t.Errorf("LST at lon=%v out of range: %v", lon, l)
		}
	}
}

func TestHourAngleConversions(t *testing.T) {
	lst := 0.401453
	ra := HMS(18, 32, 21)
	ha := RAToHA(ra, lst)
	if math.Abs(ha-5.862286) > 1e-5 {
		t.Errorf("RAToHA() = %v, want 5.862286", ha)
	}
	if back := HAToRA(ha, lst); math.Abs(back-ra) > 1e-9 {
		t.Errorf("HAToRA() = %v, want %v", back, ra)
	}
}

func TestSiderealTime(t *testing.T) {
	st := SiderealAt(gstExampleJD, -64)
	if math.Abs(st.Local()-0.401453) > 1e-5 {
		t.Errorf("Local() = %v", st.Local())
	}
	var inst Instant = st
	if d := math.Abs(float64(inst.Universal()-gstExampleJD)) * 86400; d > 0.5 {
		t.Errorf("Universal() off by %.2fs", d)
	}
}
