package models

// SolverSettings are the structural knobs read by the renderer and sent to
// the optimizer. Fields are pointers so that stored documents can omit keys
// and still be merged over defaults.
//
// AllowMultipleShiftsPerDay, ShowDistributionPool and ShowReservePool are
// retired keys; normalization strips them.
type SolverSettings struct {
	OnCallRestEnabled          *bool    `bson:"on_call_rest_enabled,omitempty" json:"onCallRestEnabled,omitempty"`
	OnCallRestClassID          *string  `bson:"on_call_rest_class_id,omitempty" json:"onCallRestClassId,omitempty"`
	OnCallRestDaysBefore       *int     `bson:"on_call_rest_days_before,omitempty" json:"onCallRestDaysBefore,omitempty"`
	OnCallRestDaysAfter        *int     `bson:"on_call_rest_days_after,omitempty" json:"onCallRestDaysAfter,omitempty"`
	EnforceSameLocationPerDay  *bool    `bson:"enforce_same_location_per_day,omitempty" json:"enforceSameLocationPerDay,omitempty"`
	WorkingHoursToleranceHours *float64 `bson:"working_hours_tolerance_hours,omitempty" json:"workingHoursToleranceHours,omitempty"`

	AllowMultipleShiftsPerDay *bool `bson:"allow_multiple_shifts_per_day,omitempty" json:"allowMultipleShiftsPerDay,omitempty"`
	ShowDistributionPool      *bool `bson:"show_distribution_pool,omitempty" json:"showDistributionPool,omitempty"`
	ShowReservePool           *bool `bson:"show_reserve_pool,omitempty" json:"showReservePool,omitempty"`
}

// Bounds and defaults for solver settings.
const (
	MaxOnCallRestDays            = 7
	MaxWorkingHoursTolerance     = 40.0
	DefaultOnCallRestDays        = 1
	DefaultWorkingHoursTolerance = 5.0
)

// RestEnabled returns OnCallRestEnabled or false.
func (s SolverSettings) RestEnabled() bool {
	return s.OnCallRestEnabled != nil && *s.OnCallRestEnabled
}

// RestClassID returns OnCallRestClassID or "".
func (s SolverSettings) RestClassID() string {
	if s.OnCallRestClassID == nil {
		return ""
	}
	return *s.OnCallRestClassID
}

// RestDaysBefore returns OnCallRestDaysBefore or its default.
func (s SolverSettings) RestDaysBefore() int {
	if s.OnCallRestDaysBefore == nil {
		return DefaultOnCallRestDays
	}
	return *s.OnCallRestDaysBefore
}

// RestDaysAfter returns OnCallRestDaysAfter or its default.
func (s SolverSettings) RestDaysAfter() int {
	if s.OnCallRestDaysAfter == nil {
		return DefaultOnCallRestDays
	}
	return *s.OnCallRestDaysAfter
}

// ToleranceHours returns WorkingHoursToleranceHours or its default.
func (s SolverSettings) ToleranceHours() float64 {
	if s.WorkingHoursToleranceHours == nil {
		return DefaultWorkingHoursTolerance
	}
	return *s.WorkingHoursToleranceHours
}

// Solver rule consequence types.
const (
	RuleThenShiftRow = "shiftRow"
	RuleThenOff      = "off"
)

// SolverRule is a conditional row implication: a clinician working
// IfShiftRowID on day d must work ThenShiftRowID (or be off) on d+DayDelta.
type SolverRule struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name,omitempty" json:"name,omitempty"`
	Enabled        bool   `bson:"enabled" json:"enabled"`
	IfShiftRowID   string `bson:"if_shift_row_id" json:"ifShiftRowId"`
	DayDelta       int    `bson:"day_delta" json:"dayDelta"`
	ThenType       string `bson:"then_type" json:"thenType"`
	ThenShiftRowID string `bson:"then_shift_row_id,omitempty" json:"thenShiftRowId,omitempty"`
}
