package weeklytemplate

import (
	"testing"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

func mriRow() models.WorkplaceRow {
	return models.WorkplaceRow{
		ID:         "mri",
		Name:       "MRI",
		Kind:       models.RowKindClass,
		LocationID: models.DefaultLocationID,
		SubShifts: []models.SubShift{
			{ID: "s1", Name: "Day", Order: 1, StartTime: "08:00", EndTime: "16:00"},
		},
	}
}

func defaultLocations() []models.Location {
	return []models.Location{{ID: models.DefaultLocationID, Name: models.DefaultLocationName}}
}

func legacyTemplate() *models.WeeklyCalendarTemplate {
	return &models.WeeklyCalendarTemplate{
		Version: 3,
		Blocks:  []models.TemplateBlock{{ID: "block-a", SectionID: "mri", RequiredSlots: 3}},
		Locations: []models.TemplateLocation{{
			LocationID: models.DefaultLocationID,
			RowBands:   []models.RowBand{{ID: "rb-1", Order: 1}},
			ColBands:   []models.ColBand{{ID: "cb-1", Order: 1}},
			Slots: []models.TemplateSlot{{
				ID:         "slot-a",
				LocationID: models.DefaultLocationID,
				RowBandID:  "rb-1",
				ColBandID:  "cb-1",
				BlockID:    "block-a",
			}},
		}},
	}
}

func TestMigrate_LegacyExplodesPerDayType(t *testing.T) {
	res := Migrate(Input{
		Template:  legacyTemplate(),
		Rows:      []models.WorkplaceRow{mriRow()},
		Locations: defaultLocations(),
		MinSlots:  map[string]models.MinSlots{"mri::s1": {Weekday: 2, Weekend: 1}},
	})

	if !res.Changed {
		t.Error("expected changed for legacy template")
	}
	if res.Template.Version != models.TemplateVersion {
		t.Errorf("version = %d", res.Template.Version)
	}

	loc := res.Template.Locations[0]
	if len(loc.Slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(loc.Slots))
	}
	if len(loc.ColBands) != 8 {
		t.Fatalf("expected 8 column bands, got %d", len(loc.ColBands))
	}

	ix := NewIndex(res.Template)
	for _, dt := range daytype.All {
		id := "slot-a__" + dt
		slot, ok := ix.Slot(id)
		if !ok {
			t.Fatalf("missing slot %s", id)
		}
		want := 2
		if daytype.IsWeekendLike(dt) {
			want = 1
		}
		if slot.RequiredSlots == nil || *slot.RequiredSlots != want {
			t.Errorf("%s required = %v, want %d", id, slot.RequiredSlots, want)
		}
		if got := ix.SlotDayType(slot); got != dt {
			t.Errorf("%s day type = %q", id, got)
		}
		if mapped, ok := res.LegacySlotIDMap.Resolve("slot-a", dt); !ok || mapped != id {
			t.Errorf("legacy map %s -> %q", dt, mapped)
		}
	}
}

func TestMigrate_LegacyDropsSlotsOfRemovedSections(t *testing.T) {
	tpl := legacyTemplate()
	tpl.Blocks[0].SectionID = "gone"

	res := Migrate(Input{Template: tpl, Rows: []models.WorkplaceRow{mriRow()}, Locations: defaultLocations()})

	if n := len(res.Template.Locations[0].Slots); n != 0 {
		t.Errorf("expected dropped slots, got %d", n)
	}
	if _, ok := res.LegacySlotIDMap["slot-a"]; ok {
		t.Error("dropped slot should not be mapped")
	}
	if len(res.Template.Blocks) != 0 {
		t.Errorf("expected block for removed section to be dropped, got %+v", res.Template.Blocks)
	}
}

func TestMigrate_NoTemplateSynthesizesDefaults(t *testing.T) {
	res := Migrate(Input{
		Rows:      []models.WorkplaceRow{mriRow()},
		Locations: defaultLocations(),
		MinSlots:  map[string]models.MinSlots{"mri::s1": {Weekday: 3, Weekend: 1}},
	})

	if !res.Changed {
		t.Error("expected changed")
	}
	loc := res.Template.Locations[0]
	if len(loc.RowBands) != 1 || len(loc.Slots) != 8 || len(res.Template.Blocks) != 1 {
		t.Fatalf("unexpected layout: %d row bands, %d slots, %d blocks", len(loc.RowBands), len(loc.Slots), len(res.Template.Blocks))
	}
	if res.Template.Blocks[0].RequiredSlots != 3 {
		t.Errorf("block required = %d", res.Template.Blocks[0].RequiredSlots)
	}
	id, ok := res.LegacySlotIDMap.Resolve("mri::s1", daytype.Sun)
	if !ok || id != "slot-mri-s1__sun" {
		t.Errorf("shift row mapping = %q, %v", id, ok)
	}
	slot, _ := NewIndex(res.Template).Slot(id)
	if *slot.RequiredSlots != 1 || *slot.StartTime != "08:00" || *slot.EndTime != "16:00" {
		t.Errorf("unexpected sunday slot: %+v", slot)
	}
}

func TestMigrate_V4PrunesDanglingReferences(t *testing.T) {
	tpl := &models.WeeklyCalendarTemplate{
		Version: 4,
		Blocks: []models.TemplateBlock{
			{ID: "b1", SectionID: "mri", RequiredSlots: -2},
			{ID: "b2", SectionID: "deleted"},
		},
		Locations: []models.TemplateLocation{{
			LocationID: models.DefaultLocationID,
			RowBands:   []models.RowBand{{ID: "r2", Order: 7}, {ID: "r1", Order: 3}},
			ColBands: []models.ColBand{
				{ID: "c-mon-b", Order: 5, DayType: daytype.Mon},
				{ID: "c-mon-a", Order: 2, DayType: daytype.Mon},
				{ID: "c-bad", Order: 1, DayType: "someday"},
			},
			Slots: []models.TemplateSlot{
				{ID: "ok", RowBandID: "r1", ColBandID: "c-mon-a", BlockID: "b1"},
				{ID: "no-block", RowBandID: "r1", ColBandID: "c-mon-a", BlockID: "b2"},
				{ID: "no-col", RowBandID: "r1", ColBandID: "c-bad", BlockID: "b1"},
				{ID: "no-row", RowBandID: "rX", ColBandID: "c-mon-b", BlockID: "b1"},
			},
		}},
	}

	row := mriRow()
	row.Color = "teal"
	res := Migrate(Input{Template: tpl, Rows: []models.WorkplaceRow{row}, Locations: defaultLocations()})
	if !res.Changed {
		t.Error("expected changed")
	}

	wantBlocks := []models.TemplateBlock{{ID: "b1", SectionID: "mri", RequiredSlots: 0, Color: "teal"}}
	if diff := cmp.Diff(wantBlocks, res.Template.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	loc := res.Template.Locations[0]
	wantRows := []models.RowBand{{ID: "r1", Order: 1}, {ID: "r2", Order: 2}}
	if diff := cmp.Diff(wantRows, loc.RowBands); diff != "" {
		t.Errorf("row bands mismatch (-want +got):\n%s", diff)
	}
	wantCols := []models.ColBand{
		{ID: "c-mon-a", Order: 1, DayType: daytype.Mon},
		{ID: "c-mon-b", Order: 2, DayType: daytype.Mon},
	}
	if diff := cmp.Diff(wantCols, loc.ColBands); diff != "" {
		t.Errorf("col bands mismatch (-want +got):\n%s", diff)
	}
	if len(loc.Slots) != 1 || loc.Slots[0].ID != "ok" || loc.Slots[0].LocationID != models.DefaultLocationID {
		t.Errorf("unexpected slots: %+v", loc.Slots)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	in := Input{
		Template:  legacyTemplate(),
		Rows:      []models.WorkplaceRow{mriRow()},
		Locations: append(defaultLocations(), models.Location{ID: "north", Name: "North"}),
		MinSlots:  map[string]models.MinSlots{"mri::s1": {Weekday: 2, Weekend: 1}},
	}
	first := Migrate(in)

	in.Template = first.Template
	second := Migrate(in)
	if second.Changed {
		t.Error("second pass reported changed")
	}
	if diff := cmp.Diff(first.Template, second.Template); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestOrderedSlots(t *testing.T) {
	loc := models.TemplateLocation{
		RowBands: []models.RowBand{{ID: "r1", Order: 1}, {ID: "r2", Order: 2}},
		ColBands: []models.ColBand{
			{ID: "sun", Order: 1, DayType: daytype.Sun},
			{ID: "mon-2", Order: 2, DayType: daytype.Mon},
			{ID: "mon-1", Order: 1, DayType: daytype.Mon},
		},
		Slots: []models.TemplateSlot{
			{ID: "d", RowBandID: "r2", ColBandID: "mon-1"},
			{ID: "c", RowBandID: "r1", ColBandID: "sun"},
			{ID: "b", RowBandID: "r1", ColBandID: "mon-2"},
			{ID: "a", RowBandID: "r1", ColBandID: "mon-1"},
		},
	}

	var got []string
	for _, s := range OrderedSlots(loc) {
		got = append(got, s.ID)
	}
	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
