// Package intervals turns shift rows into minute intervals and detects
// overlaps between them.
package intervals

import (
	"sort"

	"github.com/dalemusser/shiftgrid/internal/app/system/clocktime"
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/subshifts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Interval is a half-open range of minutes since midnight of the shift's
// start day.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Minutes returns the length of the interval.
func (iv Interval) Minutes() int { return iv.End - iv.Start }

// Shift moves the interval by the given number of days.
func (iv Interval) Shift(days int) Interval {
	d := days * clocktime.MinutesPerDay
	return Interval{Start: iv.Start + d, End: iv.End + d}
}

// BuildShiftInterval returns the interval of a class row. ok is false for
// pool rows, unparseable times and windows that do not end after they start.
func BuildShiftInterval(row models.ScheduleRow) (Interval, bool) {
	if !row.IsClass() {
		return Interval{}, false
	}
	start, ok := clocktime.Parse(row.StartTime)
	if !ok {
		return Interval{}, false
	}
	end, ok := clocktime.Parse(row.EndTime)
	if !ok {
		return Interval{}, false
	}
	end += subshifts.ClampOffset(row.EndDayOffset) * clocktime.MinutesPerDay
	if end <= start {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Overlap reports whether a and b share any minute. Touching endpoints do
// not overlap.
func Overlap(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Conflict is a pair of assignments of one clinician whose shifts overlap.
type Conflict struct {
	ClinicianID string            `json:"clinicianId"`
	First       models.Assignment `json:"first"`
	Second      models.Assignment `json:"second"`
}

type placed struct {
	a  models.Assignment
	iv Interval
}

// FindConflicts returns every overlapping pair of assignments per clinician.
// Intervals are placed on a shared timeline by date so that overnight shifts
// collide with early shifts of the next day. Assignments on rows without an
// interval are ignored.
func FindConflicts(assignments []models.Assignment, rows []models.ScheduleRow) []Conflict {
	byRow := make(map[string]Interval, len(rows))
	for _, r := range rows {
		if iv, ok := BuildShiftInterval(r); ok {
			byRow[r.ID] = iv
		}
	}

	perClinician := make(map[string][]placed)
	var order []string
	for _, a := range assignments {
		iv, ok := byRow[a.RowID]
		if !ok {
			continue
		}
		day, ok := daytype.ParseDate(a.DateISO)
		if !ok {
			continue
		}
		if _, seen := perClinician[a.ClinicianID]; !seen {
			order = append(order, a.ClinicianID)
		}
		days := int(day.Unix() / 86400)
		perClinician[a.ClinicianID] = append(perClinician[a.ClinicianID], placed{a: a, iv: iv.Shift(days)})
	}

	var out []Conflict
	for _, id := range order {
		list := perClinician[id]
		sort.SliceStable(list, func(i, j int) bool { return list[i].iv.Start < list[j].iv.Start })
		for i := range list {
			for j := i + 1; j < len(list) && list[j].iv.Start < list[i].iv.End; j++ {
				out = append(out, Conflict{ClinicianID: id, First: list[i].a, Second: list[j].a})
			}
		}
	}
	return out
}
