// Package daytype classifies calendar dates into the eight day types of the
// weekly template and provides the date arithmetic the schedule engine
// needs. Dates are ISO "YYYY-MM-DD" strings interpreted in UTC.
package daytype

import "time"

// Day types.
const (
	Mon     = "mon"
	Tue     = "tue"
	Wed     = "wed"
	Thu     = "thu"
	Fri     = "fri"
	Sat     = "sat"
	Sun     = "sun"
	Holiday = "holiday"
)

// All lists the day types in their fixed display sequence.
var All = []string{Mon, Tue, Wed, Thu, Fri, Sat, Sun, Holiday}

// Weekdays lists the seven calendar weekdays, Monday first.
var Weekdays = []string{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

const isoLayout = "2006-01-02"

// Index returns the position of dt in All, or len(All) for unknown values.
func Index(dt string) int {
	for i, d := range All {
		if d == dt {
			return i
		}
	}
	return len(All)
}

// Valid reports whether dt is one of the eight day types.
func Valid(dt string) bool { return Index(dt) < len(All) }

// IsWeekendLike reports whether dt uses weekend staffing (sat, sun, holiday).
func IsWeekendLike(dt string) bool {
	return dt == Sat || dt == Sun || dt == Holiday
}

// ParseDate parses an ISO date.
func ParseDate(iso string) (time.Time, bool) {
	t, err := time.Parse(isoLayout, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as an ISO date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// FromWeekday maps a time.Weekday to its day type.
func FromWeekday(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return Mon
	case time.Tuesday:
		return Tue
	case time.Wednesday:
		return Wed
	case time.Thursday:
		return Thu
	case time.Friday:
		return Fri
	case time.Saturday:
		return Sat
	default:
		return Sun
	}
}

// Weekday returns the calendar weekday day type of dateISO, ignoring
// holidays.
func Weekday(dateISO string) (string, bool) {
	t, ok := ParseDate(dateISO)
	if !ok {
		return "", false
	}
	return FromWeekday(t.Weekday()), true
}

// Of returns the day type of dateISO. A holiday overrides the weekday.
func Of(dateISO string, holidays map[string]bool) (string, bool) {
	if holidays[dateISO] {
		if _, ok := ParseDate(dateISO); ok {
			return Holiday, true
		}
	}
	return Weekday(dateISO)
}

// AddDays shifts dateISO by n days.
func AddDays(dateISO string, n int) (string, bool) {
	t, ok := ParseDate(dateISO)
	if !ok {
		return "", false
	}
	return FormatDate(t.AddDate(0, 0, n)), true
}

// Range returns every date from startISO to endISO inclusive. It returns nil
// when either bound is malformed or end precedes start.
func Range(startISO, endISO string) []string {
	start, ok := ParseDate(startISO)
	if !ok {
		return nil
	}
	end, ok := ParseDate(endISO)
	if !ok || end.Before(start) {
		return nil
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDate(d))
	}
	return out
}

// WeekKey identifies an ISO 8601 week.
type WeekKey struct {
	Year int
	Week int
}

// ISOWeek returns the ISO week containing dateISO.
func ISOWeek(dateISO string) (WeekKey, bool) {
	t, ok := ParseDate(dateISO)
	if !ok {
		return WeekKey{}, false
	}
	y, w := t.ISOWeek()
	return WeekKey{Year: y, Week: w}, true
}
