// Package solverstats computes the live progress metrics of a candidate
// schedule streamed by the optimizer.
package solverstats

import (
	"math"
	"sort"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/intervals"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// DefaultShiftMinutes is the duration counted for a shift without a valid
// window.
const DefaultShiftMinutes = 8 * 60

// Input is one candidate plus the context it is measured against.
// Overrides and Settings are optional.
type Input struct {
	Assignments []models.Assignment
	Rows        []models.ScheduleRow
	Clinicians  []models.Clinician
	StartISO    string
	EndISO      string
	Holidays    map[string]bool
	Overrides   map[string]int
	Settings    *models.SolverSettings
}

// Compute returns the statistics of in.Assignments.
func Compute(in Input) models.SolverStats {
	rows := make(map[string]models.ScheduleRow, len(in.Rows))
	for _, r := range in.Rows {
		rows[r.ID] = r
	}
	days := daytype.Range(in.StartISO, in.EndISO)

	var st models.SolverStats
	coverage(&st, in, days)
	perDay(&st, in.Assignments, rows)
	weeklyHours(&st, in, rows, days)
	return st
}

// Required returns the required count of row on dateISO, or false when the
// row does not apply on that date.
func Required(row models.ScheduleRow, dateISO string, holidays map[string]bool, overrides map[string]int) (int, bool) {
	if !row.IsClass() {
		return 0, false
	}
	dt, ok := daytype.Of(dateISO, holidays)
	if !ok {
		return 0, false
	}
	if row.DayType != "" && row.DayType != dt {
		return 0, false
	}

	required := row.Required
	if row.DayType == "" && row.MinSlots != nil {
		required = row.MinSlots.Weekday
		if daytype.IsWeekendLike(dt) {
			required = row.MinSlots.Weekend
		}
	}
	if n, ok := overrides[shiftid.AssignmentKey(row.ID, dateISO)]; ok {
		required = n
	}
	if required < 0 {
		required = 0
	}
	return required, true
}

func coverage(st *models.SolverStats, in Input, days []string) {
	counts := make(map[string]int, len(in.Assignments))
	for _, a := range in.Assignments {
		counts[shiftid.AssignmentKey(a.RowID, a.DateISO)]++
	}

	for _, row := range in.Rows {
		for _, day := range days {
			required, ok := Required(row, day, in.Holidays, in.Overrides)
			if !ok {
				continue
			}
			filled := counts[shiftid.AssignmentKey(row.ID, day)]
			if filled > required {
				filled = required
			}
			st.TotalRequiredSlots += required
			st.FilledSlots += filled
		}
	}
	st.OpenSlots = st.TotalRequiredSlots - st.FilledSlots
}

type clinicianDay struct {
	clinicianID string
	dateISO     string
}

// perDay counts clinician-days with a gap between shifts and clinician-days
// spread over more than one location.
func perDay(st *models.SolverStats, assignments []models.Assignment, rows map[string]models.ScheduleRow) {
	groups := make(map[clinicianDay][]models.ScheduleRow)
	var order []clinicianDay
	for _, a := range assignments {
		row, ok := rows[a.RowID]
		if !ok || !row.IsClass() {
			continue
		}
		k := clinicianDay{a.ClinicianID, a.DateISO}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	for _, k := range order {
		list := groups[k]

		locations := make(map[string]bool, len(list))
		for _, r := range list {
			locations[r.LocationID] = true
		}
		if len(locations) > 1 {
			st.LocationChanges++
		}

		if hasGap(list) {
			st.NonConsecutiveShifts++
		}
	}
}

// hasGap reports whether, with the shift intervals sorted by start, any
// interval starts strictly after the end of the one before it.
func hasGap(list []models.ScheduleRow) bool {
	ivs := make([]intervals.Interval, 0, len(list))
	for _, r := range list {
		if iv, ok := intervals.BuildShiftInterval(r); ok {
			ivs = append(ivs, iv)
		}
	}
	if len(ivs) < 2 {
		return false
	}
	sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	for i := 1; i < len(ivs); i++ {
		if ivs[i].Start > ivs[i-1].End {
			return true
		}
	}
	return false
}

// weeklyHours compares each clinician's assigned hours per ISO week of the
// range against their weekly target.
func weeklyHours(st *models.SolverStats, in Input, rows map[string]models.ScheduleRow, days []string) {
	var weeks []daytype.WeekKey
	seenWeek := make(map[daytype.WeekKey]bool)
	for _, d := range days {
		w, _ := daytype.ISOWeek(d)
		if !seenWeek[w] {
			seenWeek[w] = true
			weeks = append(weeks, w)
		}
	}

	minutes := make(map[string]map[daytype.WeekKey]int)
	for _, a := range in.Assignments {
		row, ok := rows[a.RowID]
		if !ok || !row.IsClass() {
			continue
		}
		w, ok := daytype.ISOWeek(a.DateISO)
		if !ok || !seenWeek[w] {
			continue
		}
		m := DefaultShiftMinutes
		if iv, ok := intervals.BuildShiftInterval(row); ok {
			m = iv.Minutes()
		}
		if minutes[a.ClinicianID] == nil {
			minutes[a.ClinicianID] = make(map[daytype.WeekKey]int)
		}
		minutes[a.ClinicianID][w] += m
	}

	defaultTolerance := models.DefaultWorkingHoursTolerance
	if in.Settings != nil {
		defaultTolerance = in.Settings.ToleranceHours()
	}

	for _, c := range in.Clinicians {
		if c.WorkingHoursPerWeek == nil || *c.WorkingHoursPerWeek <= 0 {
			continue
		}
		target := *c.WorkingHoursPerWeek
		tolerance := defaultTolerance
		if c.WorkingHoursToleranceHours != nil {
			tolerance = *c.WorkingHoursToleranceHours
		}
		for _, w := range weeks {
			st.TotalPeopleWeeksWithTarget++
			hours := float64(minutes[c.ID][w]) / 60
			if math.Abs(hours-target) <= tolerance {
				st.PeopleWeeksWithinHours++
			}
		}
	}
}
