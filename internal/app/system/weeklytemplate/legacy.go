package weeklytemplate

import (
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// upgradeLegacy explodes every legacy column band and slot into its eight
// day-type variants. Row bands and blocks are carried over; locations that
// no longer exist are skipped and slots whose section is gone are dropped
// without a mapping.
func upgradeLegacy(m *migration, old models.WeeklyCalendarTemplate) schema {
	tpl := models.WeeklyCalendarTemplate{
		Version:   models.TemplateVersion,
		Blocks:    append([]models.TemplateBlock{}, old.Blocks...),
		Locations: make([]models.TemplateLocation, 0, len(old.Locations)),
	}

	blocks := make(map[string]models.TemplateBlock, len(old.Blocks))
	for _, b := range old.Blocks {
		if _, dup := blocks[b.ID]; !dup {
			blocks[b.ID] = b
		}
	}

	for _, loc := range old.Locations {
		if !m.locationSet[loc.LocationID] {
			continue
		}
		tpl.Locations = append(tpl.Locations, explodeLocation(m, loc, blocks))
	}

	return schemaV4{tpl: tpl}
}

func explodeLocation(m *migration, loc models.TemplateLocation, blocks map[string]models.TemplateBlock) models.TemplateLocation {
	out := models.TemplateLocation{
		LocationID: loc.LocationID,
		RowBands:   append([]models.RowBand{}, loc.RowBands...),
		ColBands:   make([]models.ColBand, 0, len(loc.ColBands)*len(daytype.All)),
		Slots:      make([]models.TemplateSlot, 0, len(loc.Slots)*len(daytype.All)),
	}

	// exploded records which column bands were split; typed ones are kept
	exploded := make(map[string]bool, len(loc.ColBands))
	typed := make(map[string]bool, len(loc.ColBands))
	for _, cb := range loc.ColBands {
		if daytype.Valid(cb.DayType) {
			typed[cb.ID] = true
			out.ColBands = append(out.ColBands, cb)
			continue
		}
		exploded[cb.ID] = true
		for _, dt := range daytype.All {
			out.ColBands = append(out.ColBands, models.ColBand{
				ID:      shiftid.DayTyped(cb.ID, dt),
				Order:   cb.Order,
				DayType: dt,
				Label:   cb.Label,
			})
		}
	}

	for _, slot := range loc.Slots {
		block, ok := blocks[slot.BlockID]
		if !ok {
			continue
		}
		row, ok := m.classes[block.SectionID]
		if !ok {
			continue
		}
		if typed[slot.ColBandID] {
			out.Slots = append(out.Slots, slot)
			continue
		}
		if !exploded[slot.ColBandID] {
			continue
		}

		sub := matchSubShift(row, slot)
		ms, hasMin := m.minSlotsFor(row.ID, sub.ID)

		for _, dt := range daytype.All {
			s := models.TemplateSlot{
				ID:           shiftid.DayTyped(slot.ID, dt),
				LocationID:   loc.LocationID,
				RowBandID:    slot.RowBandID,
				ColBandID:    shiftid.DayTyped(slot.ColBandID, dt),
				BlockID:      slot.BlockID,
				StartTime:    slot.StartTime,
				EndTime:      slot.EndTime,
				EndDayOffset: slot.EndDayOffset,
			}
			if s.StartTime == nil && s.EndTime == nil {
				s.StartTime = strPtr(sub.StartTime)
				s.EndTime = strPtr(sub.EndTime)
				s.EndDayOffset = intPtr(sub.EndDayOffset)
			}
			switch {
			case hasMin:
				s.RequiredSlots = intPtr(requiredFor(ms, dt))
			case slot.RequiredSlots != nil:
				s.RequiredSlots = intPtr(nonNegative(*slot.RequiredSlots))
			default:
				s.RequiredSlots = intPtr(nonNegative(block.RequiredSlots))
			}
			out.Slots = append(out.Slots, s)
			m.legacy.add(slot.ID, dt, s.ID)
		}
	}

	return out
}

// matchSubShift picks the sub-shift whose window equals the slot's, falling
// back to the row's first sub-shift.
func matchSubShift(row models.WorkplaceRow, slot models.TemplateSlot) models.SubShift {
	if slot.StartTime != nil && slot.EndTime != nil {
		for _, sub := range row.SubShifts {
			if sub.StartTime == *slot.StartTime && sub.EndTime == *slot.EndTime {
				return sub
			}
		}
	}
	if len(row.SubShifts) > 0 {
		return row.SubShifts[0]
	}
	return models.SubShift{}
}
