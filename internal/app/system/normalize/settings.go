package normalize

import "github.com/dalemusser/shiftgrid/internal/domain/models"

// normalizeSettings merges s over the defaults, strips retired keys, pins
// the on-call rest class to an existing class row and clamps the numeric
// fields.
func normalizeSettings(s models.SolverSettings, rows []models.WorkplaceRow) models.SolverSettings {
	classes := make(map[string]bool)
	firstClass := ""
	for _, r := range rows {
		if !r.IsClass() {
			continue
		}
		if firstClass == "" {
			firstClass = r.ID
		}
		classes[r.ID] = true
	}

	classID := s.RestClassID()
	if !classes[classID] {
		classID = firstClass
	}

	return models.SolverSettings{
		OnCallRestEnabled:          boolPtr(s.RestEnabled()),
		OnCallRestClassID:          &classID,
		OnCallRestDaysBefore:       intPtr(clampInt(s.RestDaysBefore(), 0, models.MaxOnCallRestDays)),
		OnCallRestDaysAfter:        intPtr(clampInt(s.RestDaysAfter(), 0, models.MaxOnCallRestDays)),
		EnforceSameLocationPerDay:  boolPtr(s.EnforceSameLocationPerDay != nil && *s.EnforceSameLocationPerDay),
		WorkingHoursToleranceHours: floatPtr(clampFloat(s.ToleranceHours(), 0, models.MaxWorkingHoursTolerance)),
	}
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

func boolPtr(b bool) *bool        { return &b }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
