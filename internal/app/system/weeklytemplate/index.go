package weeklytemplate

import (
	"sort"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Index is a read-only lookup over a canonical template.
type Index struct {
	slots    map[string]models.TemplateSlot
	blocks   map[string]models.TemplateBlock
	dayTypes map[string]string // column band id -> day type
	ordered  []models.TemplateSlot
}

// NewIndex indexes tpl. A nil template yields an empty index.
func NewIndex(tpl *models.WeeklyCalendarTemplate) *Index {
	ix := &Index{
		slots:    map[string]models.TemplateSlot{},
		blocks:   map[string]models.TemplateBlock{},
		dayTypes: map[string]string{},
	}
	if tpl == nil {
		return ix
	}
	for _, b := range tpl.Blocks {
		ix.blocks[b.ID] = b
	}
	for _, loc := range tpl.Locations {
		for _, cb := range loc.ColBands {
			ix.dayTypes[cb.ID] = cb.DayType
		}
		for _, s := range OrderedSlots(loc) {
			ix.slots[s.ID] = s
			ix.ordered = append(ix.ordered, s)
		}
	}
	return ix
}

// HasSlot reports whether id is a slot of the template.
func (ix *Index) HasSlot(id string) bool {
	_, ok := ix.slots[id]
	return ok
}

// Slot returns the slot with id.
func (ix *Index) Slot(id string) (models.TemplateSlot, bool) {
	s, ok := ix.slots[id]
	return s, ok
}

// Block returns the block with id.
func (ix *Index) Block(id string) (models.TemplateBlock, bool) {
	b, ok := ix.blocks[id]
	return b, ok
}

// SlotDayType returns the day type of the slot's column band.
func (ix *Index) SlotDayType(s models.TemplateSlot) string {
	return ix.dayTypes[s.ColBandID]
}

// FindSlotForShift returns the first slot, in display order, that belongs to
// classID and dayType. A slot whose window matches sub is preferred.
func (ix *Index) FindSlotForShift(classID string, sub models.SubShift, dayType string) (string, bool) {
	fallback := ""
	for _, s := range ix.ordered {
		b, ok := ix.blocks[s.BlockID]
		if !ok || b.SectionID != classID || ix.dayTypes[s.ColBandID] != dayType {
			continue
		}
		if s.StartTime != nil && s.EndTime != nil && *s.StartTime == sub.StartTime && *s.EndTime == sub.EndTime {
			return s.ID, true
		}
		if fallback == "" {
			fallback = s.ID
		}
	}
	return fallback, fallback != ""
}

// OrderedSlots returns the slots of loc sorted by row band order, then day
// type sequence, then column band order within the day type, then id.
func OrderedSlots(loc models.TemplateLocation) []models.TemplateSlot {
	rowOrder := make(map[string]int, len(loc.RowBands))
	for _, rb := range loc.RowBands {
		rowOrder[rb.ID] = rb.Order
	}
	colOrder := make(map[string]int, len(loc.ColBands))
	colDay := make(map[string]int, len(loc.ColBands))
	for _, cb := range loc.ColBands {
		colOrder[cb.ID] = cb.Order
		colDay[cb.ID] = daytype.Index(cb.DayType)
	}

	out := append([]models.TemplateSlot{}, loc.Slots...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := rowOrder[a.RowBandID], rowOrder[b.RowBandID]; ra != rb {
			return ra < rb
		}
		if da, db := colDay[a.ColBandID], colDay[b.ColBandID]; da != db {
			return da < db
		}
		if ca, cb := colOrder[a.ColBandID], colOrder[b.ColBandID]; ca != cb {
			return ca < cb
		}
		return a.ID < b.ID
	})
	return out
}
