package normalize

import (
	"strings"

	"github.com/dalemusser/shiftgrid/internal/app/system/clocktime"
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Default window written for weekdays without a preferred working time.
const (
	DefaultPreferredStart = "07:00"
	DefaultPreferredEnd   = "17:00"
)

func normalizeClinicians(in []models.Clinician, rows []models.WorkplaceRow) []models.Clinician {
	classes := make(map[string]bool)
	for _, r := range rows {
		if r.IsClass() {
			classes[r.ID] = true
		}
	}

	out := make([]models.Clinician, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		if strings.TrimSpace(c.Name) == "" {
			c.Name = c.ID
		}
		c.QualifiedClassIDs = classRefs(c.QualifiedClassIDs, classes)
		c.PreferredClassIDs = classRefs(c.PreferredClassIDs, classes)
		c.Vacations = vacations(c.Vacations)
		c.PreferredWorkingTimes = preferredWorkingTimes(c.PreferredWorkingTimes)

		if c.WorkingHoursPerWeek != nil && *c.WorkingHoursPerWeek <= 0 {
			c.WorkingHoursPerWeek = nil
		}
		if c.WorkingHoursToleranceHours != nil {
			c.WorkingHoursToleranceHours = floatPtr(clampFloat(*c.WorkingHoursToleranceHours, 0, models.MaxWorkingHoursTolerance))
		}
		out = append(out, c)
	}
	return out
}

// classRefs keeps the ids that name an existing class, without duplicates.
func classRefs(in []string, classes map[string]bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, id := range in {
		if !classes[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// vacations drops ranges with unparseable dates and orders each range's
// endpoints.
func vacations(in []models.VacationRange) []models.VacationRange {
	out := make([]models.VacationRange, 0, len(in))
	for _, v := range in {
		_, okStart := daytype.ParseDate(v.StartISO)
		_, okEnd := daytype.ParseDate(v.EndISO)
		if !okStart || !okEnd {
			continue
		}
		if v.EndISO < v.StartISO {
			v.StartISO, v.EndISO = v.EndISO, v.StartISO
		}
		out = append(out, v)
	}
	return out
}

// preferredWorkingTimes returns an entry for each of the seven weekdays. A
// requirement other than "none" needs a valid, positive-length window.
func preferredWorkingTimes(in map[string]models.PreferredWorkingTime) map[string]models.PreferredWorkingTime {
	out := make(map[string]models.PreferredWorkingTime, len(daytype.Weekdays))
	for _, day := range daytype.Weekdays {
		p, ok := in[day]
		if !ok {
			out[day] = models.PreferredWorkingTime{
				StartTime:   DefaultPreferredStart,
				EndTime:     DefaultPreferredEnd,
				Requirement: models.RequirementNone,
			}
			continue
		}

		start, okStart := clocktime.Parse(p.StartTime)
		end, okEnd := clocktime.Parse(p.EndTime)
		if okStart {
			p.StartTime = clocktime.Format(start)
		}
		if okEnd {
			p.EndTime = clocktime.Format(end)
		}

		switch p.Requirement {
		case models.RequirementPreference, models.RequirementMandatory:
			if !okStart || !okEnd || end <= start {
				p.Requirement = models.RequirementNone
			}
		default:
			p.Requirement = models.RequirementNone
		}
		out[day] = p
	}
	return out
}
