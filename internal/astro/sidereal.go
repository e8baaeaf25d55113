package astro

// siderealRatio converts a solar interval to a sidereal one.
const siderealRatio = 1.002737909

// solarRatio converts a sidereal interval back to solar time.
const solarRatio = 0.9972695663

// ambiguousUTHours is the span at the start of each UT day in which a
// given GST occurs twice, since the sidereal day is about 4 minutes shorter.
const ambiguousUTHours = 4.0 / 60

// gstAtMidnight returns GST in hours at 0h UT on the day of jd.
func gstAtMidnight(jd JulianDate) float64 {
	t := jd.Midnight().julianCenturies2000()
	return Normalize24(6.697374558 + 2400.051336*t + 0.000025862*t*t)
}

// UTToGST converts a UT instant to Greenwich sidereal time in hours.
func UTToGST(jd JulianDate) float64 {
	return Normalize24(gstAtMidnight(jd) + jd.Hours()*siderealRatio)
}

// GSTToUT converts Greenwich sidereal time on the UT date of date to UT
// hours. warn reports that the result lies in the first minutes of the day,
// where the same GST also occurs about 23h56m later.
func GSTToUT(date JulianDate, gstHours float64) (utHours float64, warn bool) {
	ut := Normalize24(gstHours-gstAtMidnight(date)) * solarRatio
	return ut, ut < ambiguousUTHours
}

// GSTToLST converts Greenwich to local sidereal time.
func GSTToLST(gstHours, lonDeg float64) float64 {
	return Normalize24(gstHours + lonDeg/15)
}

// LSTToGST converts local to Greenwich sidereal time.
func LSTToGST(lstHours, lonDeg float64) float64 {
	return Normalize24(lstHours - lonDeg/15)
}

// LocalSiderealTime returns LST in hours for a UT instant and longitude.
func LocalSiderealTime(jd JulianDate, lonDeg float64) float64 {
	return GSTToLST(UTToGST(jd), lonDeg)
}

// RAToHA converts right ascension to hour angle at a local sidereal time.
func RAToHA(raHours, lstHours float64) float64 {
	return Normalize24(lstHours - raHours)
}

// HAToRA converts hour angle to right ascension at a local sidereal time.
func HAToRA(haHours, lstHours float64) float64 {
	return Normalize24(lstHours - haHours)
}

// SiderealTime is a Greenwich sidereal time paired with an observer
// longitude.
type SiderealTime struct {
	GSTHours float64
	LonDeg   float64
	date     JulianDate
}

// SiderealAt returns the sidereal time at a UT instant and longitude.
func SiderealAt(jd JulianDate, lonDeg float64) SiderealTime {
	return SiderealTime{GSTHours: UTToGST(jd), LonDeg: lonDeg, date: jd.Midnight()}
}

// Greenwich returns GST in hours.
func (s SiderealTime) Greenwich() float64 { return s.GSTHours }

// Local returns LST in hours.
func (s SiderealTime) Local() float64 { return GSTToLST(s.GSTHours, s.LonDeg) }

// Universal resolves the sidereal time back to a UT instant on its date.
// Ambiguous instants resolve to the earlier one.
func (s SiderealTime) Universal() JulianDate {
	ut, _ := GSTToUT(s.date, s.GSTHours)
	return s.date.AddHours(ut)
}
