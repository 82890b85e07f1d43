package models

// Clinician is a schedulable staff member.
type Clinician struct {
	ID                         string                          `bson:"id" json:"id"`
	Name                       string                          `bson:"name" json:"name"`
	QualifiedClassIDs          []string                        `bson:"qualified_class_ids" json:"qualifiedClassIds"`
	PreferredClassIDs          []string                        `bson:"preferred_class_ids" json:"preferredClassIds"`
	Vacations                  []VacationRange                 `bson:"vacations" json:"vacations"`
	PreferredWorkingTimes      map[string]PreferredWorkingTime `bson:"preferred_working_times,omitempty" json:"preferredWorkingTimes,omitempty"`
	WorkingHoursPerWeek        *float64                        `bson:"working_hours_per_week,omitempty" json:"workingHoursPerWeek,omitempty"`
	WorkingHoursToleranceHours *float64                        `bson:"working_hours_tolerance_hours,omitempty" json:"workingHoursToleranceHours,omitempty"`
}

// VacationRange is an inclusive range of ISO dates.
type VacationRange struct {
	ID       string `bson:"id,omitempty" json:"id,omitempty"`
	StartISO string `bson:"start_iso" json:"startISO"`
	EndISO   string `bson:"end_iso" json:"endISO"`
}

// Covers reports whether dateISO falls inside the range. ISO dates compare
// lexically.
func (v VacationRange) Covers(dateISO string) bool {
	if v.StartISO == "" || v.EndISO == "" {
		return false
	}
	return v.StartISO <= dateISO && dateISO <= v.EndISO
}

// OnVacation reports whether any of the clinician's vacations covers dateISO.
func (c Clinician) OnVacation(dateISO string) bool {
	for _, v := range c.Vacations {
		if v.Covers(dateISO) {
			return true
		}
	}
	return false
}

// Preferred working time requirement levels.
const (
	RequirementNone       = "none"
	RequirementPreference = "preference"
	RequirementMandatory  = "mandatory"
)

// PreferredWorkingTime is a clinician's preferred window for one weekday.
type PreferredWorkingTime struct {
	StartTime   string `bson:"start_time,omitempty" json:"startTime,omitempty"`
	EndTime     string `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Requirement string `bson:"requirement" json:"requirement"`
}
