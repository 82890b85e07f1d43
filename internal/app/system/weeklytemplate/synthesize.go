package weeklytemplate

import (
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// synthesizeLocation builds the default layout of one location: one row
// band and one block per class sub-shift, one column band per day type and
// eight day-typed slots per sub-shift. New blocks are appended to blocks.
func synthesizeLocation(m *migration, locationID string, blocks *[]models.TemplateBlock) models.TemplateLocation {
	loc := models.TemplateLocation{
		LocationID: locationID,
		RowBands:   []models.RowBand{},
		ColBands:   make([]models.ColBand, 0, len(daytype.All)),
		Slots:      []models.TemplateSlot{},
	}
	for _, dt := range daytype.All {
		loc.ColBands = append(loc.ColBands, models.ColBand{
			ID:      shiftid.DefaultColBandID(locationID, dt),
			Order:   1,
			DayType: dt,
		})
	}

	existing := make(map[string]bool, len(*blocks))
	for _, b := range *blocks {
		existing[b.ID] = true
	}

	for _, classID := range m.classOrder {
		row := m.classes[classID]
		if row.LocationID != locationID {
			continue
		}
		for _, sub := range row.SubShifts {
			ms, _ := m.minSlotsFor(classID, sub.ID)

			bandID := shiftid.DefaultRowBandID(classID, sub.ID)
			loc.RowBands = append(loc.RowBands, models.RowBand{
				ID:    bandID,
				Order: len(loc.RowBands) + 1,
				Label: bandLabel(row, sub),
			})

			blockID := shiftid.DefaultBlockID(classID, sub.ID)
			if !existing[blockID] {
				existing[blockID] = true
				*blocks = append(*blocks, models.TemplateBlock{
					ID:            blockID,
					SectionID:     classID,
					Label:         sub.Name,
					RequiredSlots: nonNegative(ms.Weekday),
					Color:         row.Color,
				})
			}

			base := shiftid.DefaultSlotBase(classID, sub.ID)
			rowID := shiftid.BuildShiftRowID(classID, sub.ID)
			for _, dt := range daytype.All {
				slotID := shiftid.DayTyped(base, dt)
				loc.Slots = append(loc.Slots, models.TemplateSlot{
					ID:            slotID,
					LocationID:    locationID,
					RowBandID:     bandID,
					ColBandID:     shiftid.DefaultColBandID(locationID, dt),
					BlockID:       blockID,
					RequiredSlots: intPtr(requiredFor(ms, dt)),
					StartTime:     strPtr(sub.StartTime),
					EndTime:       strPtr(sub.EndTime),
					EndDayOffset:  intPtr(sub.EndDayOffset),
				})
				m.legacy.add(rowID, dt, slotID)
			}
		}
	}
	return loc
}

func bandLabel(row models.WorkplaceRow, sub models.SubShift) string {
	if len(row.SubShifts) <= 1 {
		return row.Name
	}
	return row.Name + " " + sub.Name
}

// requiredFor applies the weekday minimum to mon–fri and the weekend minimum
// to sat, sun and holiday.
func requiredFor(ms models.MinSlots, dt string) int {
	if daytype.IsWeekendLike(dt) {
		return nonNegative(ms.Weekend)
	}
	return nonNegative(ms.Weekday)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
