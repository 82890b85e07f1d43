// Package weeklytemplate upgrades a stored weekly calendar template of any
// schema version into the canonical version-4 shape and validates it against
// the current rows and locations.
//
// Stored templates are classified into one of three schemas (none, legacy,
// v4). Each schema has a single pure upgrade step; Migrate applies steps
// until the v4 shape is reached and then runs validation. Ids a legacy
// template used before column bands were split per day type are reported in
// Result.LegacySlotIDMap so callers can re-point records that reference them.
package weeklytemplate

import (
	"reflect"

	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Input is everything the migrator reads. Rows, Locations and MinSlots must
// already be normalized.
type Input struct {
	Template  *models.WeeklyCalendarTemplate
	Rows      []models.WorkplaceRow
	Locations []models.Location
	MinSlots  map[string]models.MinSlots
}

// LegacyMap maps a pre-day-type id (legacy slot id or shift row id) to the
// canonical slot id created for each day type.
type LegacyMap map[string]map[string]string

// Resolve returns the canonical slot id of legacyID for dayType.
func (m LegacyMap) Resolve(legacyID, dayType string) (string, bool) {
	variants, ok := m[legacyID]
	if !ok {
		return "", false
	}
	id, ok := variants[dayType]
	return id, ok
}

func (m LegacyMap) add(legacyID, dayType, slotID string) {
	variants, ok := m[legacyID]
	if !ok {
		variants = make(map[string]string, 8)
		m[legacyID] = variants
	}
	variants[dayType] = slotID
}

// Result is the migrated template plus its side outputs.
type Result struct {
	Template        *models.WeeklyCalendarTemplate
	Changed         bool
	LegacySlotIDMap LegacyMap
}

// schema is the tagged union of stored template shapes.
type schema interface {
	isSchema()
}

// schemaNone is an absent template.
type schemaNone struct{}

// schemaLegacy is any template older than version 4: column bands and slots
// are not split per day type.
type schemaLegacy struct {
	tpl models.WeeklyCalendarTemplate
}

// schemaV4 is the canonical shape (possibly with dangling references).
type schemaV4 struct {
	tpl models.WeeklyCalendarTemplate
}

func (schemaNone) isSchema()   {}
func (schemaLegacy) isSchema() {}
func (schemaV4) isSchema()     {}

func classify(t *models.WeeklyCalendarTemplate) schema {
	switch {
	case t == nil:
		return schemaNone{}
	case t.Version < models.TemplateVersion:
		return schemaLegacy{tpl: *t}
	default:
		return schemaV4{tpl: *t}
	}
}

// Migrate returns the canonical template for in. Changed is false only when
// in.Template was already exactly canonical.
func Migrate(in Input) Result {
	m := newMigration(in)

	var tpl models.WeeklyCalendarTemplate
	current := classify(in.Template)
	for done := false; !done; {
		switch s := current.(type) {
		case schemaNone:
			current = upgradeNone()
		case schemaLegacy:
			current = upgradeLegacy(m, s.tpl)
		case schemaV4:
			tpl = validate(m, s.tpl)
			done = true
		}
	}

	changed := in.Template == nil || !reflect.DeepEqual(*in.Template, tpl)
	return Result{Template: &tpl, Changed: changed, LegacySlotIDMap: m.legacy}
}

// upgradeNone starts from an empty v4 template; validation synthesizes a
// default layout for every location.
func upgradeNone() schema {
	return schemaV4{tpl: models.WeeklyCalendarTemplate{
		Version:   models.TemplateVersion,
		Blocks:    []models.TemplateBlock{},
		Locations: []models.TemplateLocation{},
	}}
}

// migration carries the lookups shared by every migration step.
type migration struct {
	classes     map[string]models.WorkplaceRow
	classOrder  []string
	locationIDs []string
	locationSet map[string]bool
	minSlots    map[string]models.MinSlots
	legacy      LegacyMap
}

func newMigration(in Input) *migration {
	m := &migration{
		classes:     make(map[string]models.WorkplaceRow),
		locationSet: make(map[string]bool, len(in.Locations)),
		minSlots:    in.MinSlots,
		legacy:      make(LegacyMap),
	}
	for _, r := range in.Rows {
		if !r.IsClass() {
			continue
		}
		if _, dup := m.classes[r.ID]; dup {
			continue
		}
		m.classes[r.ID] = r
		m.classOrder = append(m.classOrder, r.ID)
	}
	for _, l := range in.Locations {
		if m.locationSet[l.ID] {
			continue
		}
		m.locationSet[l.ID] = true
		m.locationIDs = append(m.locationIDs, l.ID)
	}
	return m
}

// minSlotsFor returns the staffing minimum of a class sub-shift.
func (m *migration) minSlotsFor(classID, subShiftID string) (models.MinSlots, bool) {
	ms, ok := m.minSlots[shiftid.BuildShiftRowID(classID, subShiftID)]
	return ms, ok
}
