package weeklytemplate

import (
	"sort"
	"strings"

	"github.com/dalemusser/shiftgrid/internal/app/system/clocktime"
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/subshifts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// validate prunes every dangling reference of a v4 template, re-sequences
// band orders and synthesizes a default layout for locations the template
// does not cover yet.
func validate(m *migration, in models.WeeklyCalendarTemplate) models.WeeklyCalendarTemplate {
	out := models.WeeklyCalendarTemplate{
		Version:   models.TemplateVersion,
		Blocks:    validBlocks(m, in.Blocks),
		Locations: make([]models.TemplateLocation, 0, len(m.locationIDs)),
	}

	byLocation := make(map[string]models.TemplateLocation, len(in.Locations))
	for _, loc := range in.Locations {
		if _, dup := byLocation[loc.LocationID]; dup {
			continue
		}
		byLocation[loc.LocationID] = loc
	}

	blockSet := make(map[string]bool, len(out.Blocks))
	for _, b := range out.Blocks {
		blockSet[b.ID] = true
	}

	for _, locID := range m.locationIDs {
		loc, ok := byLocation[locID]
		if !ok {
			loc = synthesizeLocation(m, locID, &out.Blocks)
			for _, b := range out.Blocks {
				blockSet[b.ID] = true
			}
		}
		out.Locations = append(out.Locations, validLocation(loc, blockSet))
	}

	return out
}

func validBlocks(m *migration, in []models.TemplateBlock) []models.TemplateBlock {
	out := make([]models.TemplateBlock, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, b := range in {
		if b.ID == "" || seen[b.ID] {
			continue
		}
		row, ok := m.classes[b.SectionID]
		if !ok {
			continue
		}
		seen[b.ID] = true
		b.RequiredSlots = nonNegative(b.RequiredSlots)
		if row.Color != "" {
			b.Color = row.Color
		}
		out = append(out, b)
	}
	return out
}

func validLocation(loc models.TemplateLocation, blocks map[string]bool) models.TemplateLocation {
	out := models.TemplateLocation{
		LocationID: loc.LocationID,
		RowBands:   sequenceRowBands(loc.RowBands),
		ColBands:   sequenceColBands(loc.ColBands),
		Slots:      make([]models.TemplateSlot, 0, len(loc.Slots)),
	}

	rowBands := make(map[string]bool, len(out.RowBands))
	for _, rb := range out.RowBands {
		rowBands[rb.ID] = true
	}
	colBands := make(map[string]bool, len(out.ColBands))
	for _, cb := range out.ColBands {
		colBands[cb.ID] = true
	}

	seen := make(map[string]bool, len(loc.Slots))
	for _, s := range loc.Slots {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		if !rowBands[s.RowBandID] || !colBands[s.ColBandID] || !blocks[s.BlockID] {
			continue
		}
		seen[s.ID] = true
		out.Slots = append(out.Slots, validSlot(s, loc.LocationID))
	}
	return out
}

func validSlot(s models.TemplateSlot, locationID string) models.TemplateSlot {
	s.LocationID = locationID
	if s.RequiredSlots != nil {
		s.RequiredSlots = intPtr(nonNegative(*s.RequiredSlots))
	}
	s.StartTime = canonicalTime(s.StartTime)
	s.EndTime = canonicalTime(s.EndTime)
	if s.EndDayOffset != nil {
		s.EndDayOffset = intPtr(subshifts.ClampOffset(*s.EndDayOffset))
	}
	return s
}

func canonicalTime(p *string) *string {
	if p == nil {
		return nil
	}
	c, ok := clocktime.Canonical(*p)
	if !ok {
		return nil
	}
	return strPtr(c)
}

type indexed[T any] struct {
	v   T
	idx int
}

// sequenceRowBands drops bands without an id or with a duplicate id and
// renumbers the rest 1..n by (order, position).
func sequenceRowBands(in []models.RowBand) []models.RowBand {
	items := make([]indexed[models.RowBand], 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, rb := range in {
		if strings.TrimSpace(rb.ID) == "" || seen[rb.ID] {
			continue
		}
		seen[rb.ID] = true
		items = append(items, indexed[models.RowBand]{v: rb, idx: i})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].v.Order != items[j].v.Order {
			return items[i].v.Order < items[j].v.Order
		}
		return items[i].idx < items[j].idx
	})
	out := make([]models.RowBand, 0, len(items))
	for i, it := range items {
		rb := it.v
		rb.Order = i + 1
		out = append(out, rb)
	}
	return out
}

// sequenceColBands drops bands without a valid day type and renumbers each
// day type's bands 1..n. The result is grouped by day type in display order.
func sequenceColBands(in []models.ColBand) []models.ColBand {
	groups := make(map[string][]indexed[models.ColBand], len(daytype.All))
	seen := make(map[string]bool, len(in))
	for i, cb := range in {
		if strings.TrimSpace(cb.ID) == "" || seen[cb.ID] || !daytype.Valid(cb.DayType) {
			continue
		}
		seen[cb.ID] = true
		groups[cb.DayType] = append(groups[cb.DayType], indexed[models.ColBand]{v: cb, idx: i})
	}

	out := make([]models.ColBand, 0, len(seen))
	for _, dt := range daytype.All {
		items := groups[dt]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].v.Order != items[j].v.Order {
				return items[i].v.Order < items[j].v.Order
			}
			return items[i].idx < items[j].idx
		})
		for i, it := range items {
			cb := it.v
			cb.Order = i + 1
			out = append(out, cb)
		}
	}
	return out
}
