// Package rendering derives the assignment map the schedule grid displays
// from the persisted assignments: vacations hide worked assignments and show
// up in the Vacation pool, and on-call assignments produce rest days.
package rendering

import (
	"sort"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Input is what Render reads. Rows and Settings are optional; without them
// no rest days are derived.
type Input struct {
	Assignments map[string][]models.Assignment
	Clinicians  []models.Clinician
	Days        []string
	Rows        []models.ScheduleRow
	Settings    *models.SolverSettings
}

// ByKey groups assignments by their rowId__dateISO key, keeping order.
func ByKey(list []models.Assignment) map[string][]models.Assignment {
	out := make(map[string][]models.Assignment)
	for _, a := range list {
		key := shiftid.AssignmentKey(a.RowID, a.DateISO)
		out[key] = append(out[key], a)
	}
	return out
}

// Synthetic assignment id prefixes.
const (
	VacationIDPrefix = "vacation-"
	RestDayIDPrefix  = "rest-"
)

// Render returns the display map. in.Assignments is not modified.
func Render(in Input) map[string][]models.Assignment {
	clinicians := make(map[string]models.Clinician, len(in.Clinicians))
	for _, c := range in.Clinicians {
		clinicians[c.ID] = c
	}
	onVacation := func(clinicianID, dateISO string) bool {
		c, ok := clinicians[clinicianID]
		return ok && c.OnVacation(dateISO)
	}

	pools := poolSet(in.Rows)

	out := make(map[string][]models.Assignment, len(in.Assignments))
	for key, list := range in.Assignments {
		rowID, _, ok := shiftid.SplitAssignmentKey(key)
		if !ok || models.IsDeprecatedPool(rowID) {
			continue
		}
		if pools[rowID] {
			out[key] = append([]models.Assignment{}, list...)
			continue
		}
		kept := make([]models.Assignment, 0, len(list))
		for _, a := range list {
			if onVacation(a.ClinicianID, a.DateISO) {
				continue
			}
			kept = append(kept, a)
		}
		out[key] = kept
	}

	addVacations(out, in.Clinicians, in.Days)
	if in.Settings != nil && in.Settings.RestEnabled() && in.Settings.RestClassID() != "" {
		addRestDays(out, in, pools, onVacation)
	}
	return out
}

// clampRestDays bounds a rest-day count to [0, MaxOnCallRestDays].
func clampRestDays(n int) int {
	if n < 0 {
		return 0
	}
	if n > models.MaxOnCallRestDays {
		return models.MaxOnCallRestDays
	}
	return n
}

// poolSet is the well-known pools plus every pool row of rows.
func poolSet(rows []models.ScheduleRow) map[string]bool {
	pools := map[string]bool{
		models.PoolRestDayID:  true,
		models.PoolVacationID: true,
	}
	for _, r := range rows {
		if r.Kind == models.RowKindPool {
			pools[r.ID] = true
		}
	}
	return pools
}

// addVacations lists every clinician on vacation on a displayed day in the
// Vacation pool for that day.
func addVacations(out map[string][]models.Assignment, clinicians []models.Clinician, days []string) {
	for _, day := range days {
		key := shiftid.AssignmentKey(models.PoolVacationID, day)
		for _, c := range clinicians {
			if !c.OnVacation(day) || hasClinician(out[key], c.ID) {
				continue
			}
			out[key] = append(out[key], models.Assignment{
				ID:          VacationIDPrefix + c.ID + "-" + day,
				RowID:       models.PoolVacationID,
				DateISO:     day,
				ClinicianID: c.ID,
			})
		}
	}
}

// addRestDays puts the clinician of each on-call assignment in the Rest Day
// pool for the configured days around it. Only displayed days are filled and
// the on-call day itself never is; vacation days and the clinician's other
// on-call days are skipped.
func addRestDays(out map[string][]models.Assignment, in Input, pools map[string]bool, onVacation func(string, string) bool) {
	classID := in.Settings.RestClassID()

	sections := make(map[string]string, len(in.Rows))
	for _, r := range in.Rows {
		if r.IsClass() {
			sections[r.ID] = r.SectionID
		}
	}
	sectionOf := func(rowID string) string {
		if s, ok := sections[rowID]; ok {
			return s
		}
		return shiftid.ParseShiftRowID(rowID).ClassID
	}

	displayed := make(map[string]bool, len(in.Days))
	for _, d := range in.Days {
		displayed[d] = true
	}

	keys := make([]string, 0, len(out))
	for key := range out {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	type onCall struct{ clinicianID, dateISO string }
	var calls []onCall
	working := make(map[onCall]bool)
	for _, key := range keys {
		rowID, _, _ := shiftid.SplitAssignmentKey(key)
		if pools[rowID] || sectionOf(rowID) != classID {
			continue
		}
		for _, a := range out[key] {
			c := onCall{a.ClinicianID, a.DateISO}
			if !working[c] {
				working[c] = true
				calls = append(calls, c)
			}
		}
	}

	before := clampRestDays(in.Settings.RestDaysBefore())
	after := clampRestDays(in.Settings.RestDaysAfter())
	offsets := make([]int, 0, before+after)
	for d := before; d >= 1; d-- {
		offsets = append(offsets, -d)
	}
	for d := 1; d <= after; d++ {
		offsets = append(offsets, d)
	}

	for _, c := range calls {
		for _, off := range offsets {
			day, ok := daytype.AddDays(c.dateISO, off)
			if !ok || !displayed[day] || working[onCall{c.clinicianID, day}] || onVacation(c.clinicianID, day) {
				continue
			}
			key := shiftid.AssignmentKey(models.PoolRestDayID, day)
			if hasClinician(out[key], c.clinicianID) {
				continue
			}
			out[key] = append(out[key], models.Assignment{
				ID:          RestDayIDPrefix + c.clinicianID + "-" + day,
				RowID:       models.PoolRestDayID,
				DateISO:     day,
				ClinicianID: c.clinicianID,
			})
		}
	}
}

func hasClinician(list []models.Assignment, clinicianID string) bool {
	for _, a := range list {
		if a.ClinicianID == clinicianID {
			return true
		}
	}
	return false
}
