package models

import "time"

// AppState is the persisted scheduling document. It is read and replaced as
// a whole; callers normalize it before use.
type AppState struct {
	Scope            string                  `bson:"_id" json:"scope,omitempty"`
	LocationsEnabled *bool                   `bson:"locations_enabled,omitempty" json:"locationsEnabled,omitempty"`
	Locations        []Location              `bson:"locations" json:"locations"`
	Rows             []WorkplaceRow          `bson:"rows" json:"rows"`
	Clinicians       []Clinician             `bson:"clinicians" json:"clinicians"`
	Assignments      []Assignment            `bson:"assignments" json:"assignments"`
	MinSlotsByRowID  map[string]MinSlots     `bson:"min_slots_by_row_id" json:"minSlotsByRowId"`
	SlotOverrides    map[string]int          `bson:"slot_overrides,omitempty" json:"slotOverrides,omitempty"`
	WeeklyTemplate   *WeeklyCalendarTemplate `bson:"weekly_template,omitempty" json:"weeklyTemplate,omitempty"`
	SolverSettings   SolverSettings          `bson:"solver_settings" json:"solverSettings"`
	SolverRules      []SolverRule            `bson:"solver_rules" json:"solverRules"`
	Holidays         []Holiday               `bson:"holidays,omitempty" json:"holidays,omitempty"`
	UpdatedAt        *time.Time              `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// LocationsOn returns LocationsEnabled, defaulting to true.
func (s AppState) LocationsOn() bool {
	return s.LocationsEnabled == nil || *s.LocationsEnabled
}

// HolidaySet returns the holiday dates as a lookup set.
func (s AppState) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(s.Holidays))
	for _, h := range s.Holidays {
		set[h.DateISO] = true
	}
	return set
}
