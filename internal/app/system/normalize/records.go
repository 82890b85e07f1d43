package normalize

import (
	"strings"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/app/system/weeklytemplate"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// catalog answers row id questions against the normalized rows.
type catalog struct {
	pools   map[string]bool
	classes map[string]models.WorkplaceRow
}

func newCatalog(rows []models.WorkplaceRow) *catalog {
	c := &catalog{
		pools:   make(map[string]bool),
		classes: make(map[string]models.WorkplaceRow),
	}
	for _, r := range rows {
		if r.IsPool() {
			c.pools[r.ID] = true
		} else {
			c.classes[r.ID] = r
		}
	}
	return c
}

// subShift returns the named sub-shift of classID, or the class's first one
// when subShiftID is empty or unknown.
func (c *catalog) subShift(classID, subShiftID string) (models.SubShift, bool) {
	row, ok := c.classes[classID]
	if !ok || len(row.SubShifts) == 0 {
		return models.SubShift{}, false
	}
	for _, s := range row.SubShifts {
		if s.ID == subShiftID {
			return s, true
		}
	}
	return row.SubShifts[0], true
}

// canonicalRow rewrites bare class ids and shift row ids with an unknown
// sub-shift to a valid shift row id. Pool ids are kept. Any other id may
// still name a slot and is kept for resolution against the template; ok is
// false only for shift row ids of a class that no longer exists.
func (c *catalog) canonicalRow(rowID string) (string, bool) {
	if c.pools[rowID] {
		return rowID, true
	}
	ref := shiftid.ParseShiftRowID(rowID)
	if !ref.HasSubShift() {
		if _, ok := c.classes[rowID]; !ok {
			return rowID, true
		}
	}
	sub, ok := c.subShift(ref.ClassID, ref.SubShiftID)
	if !ok {
		return "", false
	}
	return shiftid.BuildShiftRowID(ref.ClassID, sub.ID), true
}

func (c *catalog) rewriteAssignments(in []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.ClinicianID) == "" {
			continue
		}
		if _, ok := daytype.ParseDate(a.DateISO); !ok {
			continue
		}
		rowID, ok := c.canonicalRow(a.RowID)
		if !ok {
			continue
		}
		a.RowID = rowID
		out = append(out, a)
	}
	return out
}

// rewriteOverrides applies canonicalRow to every override key. Keys that
// collapse onto the same key are summed. Pool rows carry no overrides.
func (c *catalog) rewriteOverrides(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for key, n := range in {
		rowID, date, ok := shiftid.SplitAssignmentKey(key)
		if !ok || c.pools[rowID] {
			continue
		}
		if _, ok := daytype.ParseDate(date); !ok {
			continue
		}
		rowID, ok = c.canonicalRow(rowID)
		if !ok {
			continue
		}
		out[shiftid.AssignmentKey(rowID, date)] += n
	}
	return out
}

// rebuildMinSlots keys minimums by shift row id. The first sub-shift of a
// class inherits a legacy per-class value. Entries for shift rows that no
// longer exist are dropped and missing ones are zero.
func rebuildMinSlots(in map[string]models.MinSlots, rows []models.WorkplaceRow) map[string]models.MinSlots {
	out := make(map[string]models.MinSlots)
	for _, r := range rows {
		if !r.IsClass() {
			continue
		}
		for i, sub := range r.SubShifts {
			key := shiftid.BuildShiftRowID(r.ID, sub.ID)
			ms, ok := in[key]
			if !ok && i == 0 {
				ms = in[r.ID]
			}
			if ms.Weekday < 0 {
				ms.Weekday = 0
			}
			if ms.Weekend < 0 {
				ms.Weekend = 0
			}
			out[key] = ms
		}
	}
	return out
}

// resolver resolves row ids against the final canonical template.
type resolver struct {
	*catalog
	index    *weeklytemplate.Index
	legacy   weeklytemplate.LegacyMap
	holidays map[string]bool
}

func (c *catalog) withTemplate(tpl *models.WeeklyCalendarTemplate, legacy weeklytemplate.LegacyMap, holidays map[string]bool) *resolver {
	return &resolver{
		catalog:  c,
		index:    weeklytemplate.NewIndex(tpl),
		legacy:   legacy,
		holidays: holidays,
	}
}

// slotFor maps rowID on dateISO to a canonical slot id, using the date's day
// type to pick among the variants of a legacy slot or shift row.
func (r *resolver) slotFor(rowID, dateISO string) (string, bool) {
	if r.index.HasSlot(rowID) {
		return rowID, true
	}
	dt, ok := daytype.Of(dateISO, r.holidays)
	if !ok {
		return "", false
	}
	if id, ok := r.legacy.Resolve(rowID, dt); ok && r.index.HasSlot(id) {
		return id, true
	}
	if !shiftid.IsShiftRowID(rowID) {
		return "", false
	}
	ref := shiftid.ParseShiftRowID(rowID)
	sub, ok := r.subShift(ref.ClassID, ref.SubShiftID)
	if !ok {
		return "", false
	}
	return r.index.FindSlotForShift(ref.ClassID, sub, dt)
}

// resolveAssignments re-points assignments at canonical slots, drops those
// that cannot be resolved and removes duplicates of the same clinician in
// the same row on the same date.
func (r *resolver) resolveAssignments(in []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		if !r.pools[a.RowID] {
			id, ok := r.slotFor(a.RowID, a.DateISO)
			if !ok {
				continue
			}
			a.RowID = id
		}
		key := shiftid.AssignmentKey(a.RowID, a.DateISO) + "|" + a.ClinicianID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// resolveOverrides re-keys overrides by canonical slot id. An empty result
// is nil.
func (r *resolver) resolveOverrides(in map[string]int) map[string]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]int, len(in))
	for key, n := range in {
		rowID, date, _ := shiftid.SplitAssignmentKey(key)
		id, ok := r.slotFor(rowID, date)
		if !ok {
			continue
		}
		out[shiftid.AssignmentKey(id, date)] += n
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
