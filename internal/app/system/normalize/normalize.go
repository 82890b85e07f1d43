// Package normalize repairs a stored AppState into a self-consistent one.
//
// AppState runs a fixed sequence of steps so later steps see corrected
// earlier output: pools, settings, locations, clinicians, sub-shifts,
// assignment and override row ids, minimum slots, the weekly template and
// finally solver rules. The pass is pure and idempotent; running it on its
// own output reports no change.
package normalize

import (
	"reflect"
	"sort"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/locations"
	"github.com/dalemusser/shiftgrid/internal/app/system/weeklytemplate"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Result is the repaired state. Changed reports whether any repair was made,
// i.e. whether callers should persist State.
type Result struct {
	State   models.AppState
	Changed bool
}

// AppState normalizes s. s itself is not modified.
func AppState(s models.AppState) Result {
	out := models.AppState{
		Scope:     s.Scope,
		UpdatedAt: s.UpdatedAt,
	}

	enabled := s.LocationsOn()
	out.LocationsEnabled = &enabled

	rows := normalizeRows(s.Rows)
	rows = ensureRestDayPool(rows)
	assignments := dropDeprecatedPools(s.Assignments)

	out.SolverSettings = normalizeSettings(s.SolverSettings, rows)

	out.Locations, _ = locations.Normalize(s.Locations)
	rows = relocateClasses(rows, locations.IDSet(out.Locations), enabled)

	out.Holidays = normalizeHolidays(s.Holidays)
	out.Clinicians = normalizeClinicians(s.Clinicians, rows)

	rows = normalizeSubShifts(rows)
	out.Rows = rows

	cat := newCatalog(rows)
	assignments = cat.rewriteAssignments(assignments)
	out.MinSlotsByRowID = rebuildMinSlots(s.MinSlotsByRowID, rows)
	overrides := cat.rewriteOverrides(s.SlotOverrides)

	mig := weeklytemplate.Migrate(weeklytemplate.Input{
		Template:  s.WeeklyTemplate,
		Rows:      rows,
		Locations: out.Locations,
		MinSlots:  out.MinSlotsByRowID,
	})
	out.WeeklyTemplate = mig.Template

	res := cat.withTemplate(mig.Template, mig.LegacySlotIDMap, out.HolidaySet())
	out.Assignments = res.resolveAssignments(assignments)
	out.SlotOverrides = res.resolveOverrides(overrides)

	out.SolverRules = res.normalizeRules(s.SolverRules)

	return Result{State: out, Changed: !reflect.DeepEqual(s, out)}
}

// normalizeHolidays drops invalid and duplicate dates and sorts the rest.
// An empty list stays nil.
func normalizeHolidays(in []models.Holiday) []models.Holiday {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]models.Holiday, 0, len(in))
	for _, h := range in {
		if _, ok := daytype.ParseDate(h.DateISO); !ok || seen[h.DateISO] {
			continue
		}
		seen[h.DateISO] = true
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateISO < out[j].DateISO })
	return out
}
