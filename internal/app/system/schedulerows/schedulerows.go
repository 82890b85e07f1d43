// Package schedulerows projects the normalized state into the ordered list
// of rows the schedule grid renders.
package schedulerows

import (
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/app/system/weeklytemplate"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Input is the normalized state the projector reads.
type Input struct {
	Rows             []models.WorkplaceRow
	Locations        []models.Location
	LocationsEnabled bool
	Template         *models.WeeklyCalendarTemplate
	MinSlotsByRowID  map[string]models.MinSlots
}

// FromState builds an Input from a normalized AppState.
func FromState(s models.AppState) Input {
	return Input{
		Rows:             s.Rows,
		Locations:        s.Locations,
		LocationsEnabled: s.LocationsOn(),
		Template:         s.WeeklyTemplate,
		MinSlotsByRowID:  s.MinSlotsByRowID,
	}
}

// Project returns one row per template slot, grouped by location and ordered
// for display, followed by the pool rows. Without a canonical template it
// emits one row per class sub-shift instead.
func Project(in Input) []models.ScheduleRow {
	var out []models.ScheduleRow
	if in.Template != nil && in.Template.Version >= models.TemplateVersion {
		out = templateRows(in)
	} else {
		out = shiftRows(in)
	}
	for _, r := range in.Rows {
		if r.IsPool() {
			out = append(out, models.ScheduleRow{
				ID:    r.ID,
				Kind:  models.RowKindPool,
				Name:  r.Name,
				Color: r.Color,
			})
		}
	}
	return out
}

func templateRows(in Input) []models.ScheduleRow {
	classes := make(map[string]models.WorkplaceRow)
	for _, r := range in.Rows {
		if r.IsClass() {
			classes[r.ID] = r
		}
	}
	byLocation := make(map[string]models.TemplateLocation, len(in.Template.Locations))
	for _, loc := range in.Template.Locations {
		byLocation[loc.LocationID] = loc
	}
	ix := weeklytemplate.NewIndex(in.Template)

	out := []models.ScheduleRow{}
	for _, locID := range visibleLocations(in) {
		loc, ok := byLocation[locID]
		if !ok {
			continue
		}
		bandLabels := make(map[string]string, len(loc.RowBands))
		for _, rb := range loc.RowBands {
			bandLabels[rb.ID] = rb.Label
		}

		for _, slot := range weeklytemplate.OrderedSlots(loc) {
			block, ok := ix.Block(slot.BlockID)
			if !ok {
				continue
			}
			row, ok := classes[block.SectionID]
			if !ok {
				continue
			}
			out = append(out, slotRow(row, block, slot, ix.SlotDayType(slot), bandLabels[slot.RowBandID]))
		}
	}
	return out
}

func slotRow(row models.WorkplaceRow, block models.TemplateBlock, slot models.TemplateSlot, dayType, bandLabel string) models.ScheduleRow {
	sub := matchSubShift(row, slot)

	sr := models.ScheduleRow{
		ID:           slot.ID,
		Kind:         models.RowKindClass,
		Name:         row.Name,
		SectionID:    row.ID,
		SubShiftID:   sub.ID,
		LocationID:   slot.LocationID,
		RowBandID:    slot.RowBandID,
		ColBandID:    slot.ColBandID,
		BlockID:      block.ID,
		DayType:      dayType,
		Label:        block.Label,
		Color:        block.Color,
		StartTime:    sub.StartTime,
		EndTime:      sub.EndTime,
		EndDayOffset: sub.EndDayOffset,
		Required:     block.RequiredSlots,
	}
	if sr.Label == "" {
		sr.Label = bandLabel
	}
	if sr.Color == "" {
		sr.Color = row.Color
	}
	if slot.StartTime != nil && slot.EndTime != nil {
		sr.StartTime = *slot.StartTime
		sr.EndTime = *slot.EndTime
		sr.EndDayOffset = 0
		if slot.EndDayOffset != nil {
			sr.EndDayOffset = *slot.EndDayOffset
		}
	}
	if slot.RequiredSlots != nil {
		sr.Required = *slot.RequiredSlots
	}
	return sr
}

// matchSubShift returns the sub-shift whose window equals the slot's, or the
// row's first sub-shift.
func matchSubShift(row models.WorkplaceRow, slot models.TemplateSlot) models.SubShift {
	if slot.StartTime != nil && slot.EndTime != nil {
		for _, s := range row.SubShifts {
			if s.StartTime == *slot.StartTime && s.EndTime == *slot.EndTime {
				return s
			}
		}
	}
	if len(row.SubShifts) > 0 {
		return row.SubShifts[0]
	}
	return models.SubShift{}
}

// shiftRows is the projection used before a template exists.
func shiftRows(in Input) []models.ScheduleRow {
	visible := make(map[string]bool)
	for _, id := range visibleLocations(in) {
		visible[id] = true
	}

	out := []models.ScheduleRow{}
	for _, r := range in.Rows {
		if !r.IsClass() || !visible[locationOf(r)] {
			continue
		}
		for _, sub := range r.SubShifts {
			id := shiftid.BuildShiftRowID(r.ID, sub.ID)
			sr := models.ScheduleRow{
				ID:           id,
				Kind:         models.RowKindClass,
				Name:         r.Name,
				SectionID:    r.ID,
				SubShiftID:   sub.ID,
				LocationID:   locationOf(r),
				Label:        sub.Name,
				Color:        r.Color,
				StartTime:    sub.StartTime,
				EndTime:      sub.EndTime,
				EndDayOffset: sub.EndDayOffset,
			}
			if ms, ok := in.MinSlotsByRowID[id]; ok {
				ms := ms
				sr.MinSlots = &ms
				sr.Required = ms.Weekday
			}
			out = append(out, sr)
		}
	}
	return out
}

// visibleLocations is the registry order, or only the default location when
// locations are disabled. Slots of hidden locations get no row, so their
// assignments stay in state but are not displayed or counted until locations
// are enabled again.
func visibleLocations(in Input) []string {
	if !in.LocationsEnabled {
		return []string{models.DefaultLocationID}
	}
	ids := make([]string, 0, len(in.Locations))
	for _, l := range in.Locations {
		ids = append(ids, l.ID)
	}
	return ids
}

func locationOf(r models.WorkplaceRow) string {
	if r.LocationID == "" {
		return models.DefaultLocationID
	}
	return r.LocationID
}
