package normalize

import (
	"strings"

	"github.com/dalemusser/shiftgrid/internal/app/system/subshifts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Display names of the well-known pools.
const (
	RestDayPoolName  = "Rest Day"
	VacationPoolName = "Vacation"
)

func isWellKnownPool(id string) bool {
	return id == models.PoolRestDayID || id == models.PoolVacationID || models.IsDeprecatedPool(id)
}

// normalizeRows drops rows without an id and duplicate ids, and coerces each
// row to a known kind.
func normalizeRows(in []models.WorkplaceRow) []models.WorkplaceRow {
	out := make([]models.WorkplaceRow, 0, len(in)+1)
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		switch {
		case isWellKnownPool(r.ID):
			r.Kind = models.RowKindPool
		case r.Kind != models.RowKindPool:
			r.Kind = models.RowKindClass
		}
		if strings.TrimSpace(r.Name) == "" {
			r.Name = r.ID
		}
		if r.IsPool() {
			r.SubShifts = nil
		}
		out = append(out, r)
	}
	return out
}

// ensureRestDayPool adds the Rest Day pool when missing, in the place of the
// first deprecated pool or at the end, and removes the deprecated pools.
func ensureRestDayPool(in []models.WorkplaceRow) []models.WorkplaceRow {
	hasRest := false
	for _, r := range in {
		if r.ID == models.PoolRestDayID {
			hasRest = true
			break
		}
	}

	rest := models.WorkplaceRow{ID: models.PoolRestDayID, Name: RestDayPoolName, Kind: models.RowKindPool}
	out := make([]models.WorkplaceRow, 0, len(in)+1)
	for _, r := range in {
		if models.IsDeprecatedPool(r.ID) {
			if !hasRest {
				out = append(out, rest)
				hasRest = true
			}
			continue
		}
		out = append(out, r)
	}
	if !hasRest {
		out = append(out, rest)
	}
	return out
}

func dropDeprecatedPools(in []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, 0, len(in))
	for _, a := range in {
		if models.IsDeprecatedPool(a.RowID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// relocateClasses points class rows at the default location when their
// location is unknown or locations are disabled.
func relocateClasses(in []models.WorkplaceRow, known map[string]bool, enabled bool) []models.WorkplaceRow {
	out := make([]models.WorkplaceRow, len(in))
	for i, r := range in {
		if r.IsClass() && (!enabled || !known[r.LocationID]) {
			r.LocationID = models.DefaultLocationID
		}
		out[i] = r
	}
	return out
}

func normalizeSubShifts(in []models.WorkplaceRow) []models.WorkplaceRow {
	out := make([]models.WorkplaceRow, len(in))
	for i, r := range in {
		if r.IsClass() {
			r.SubShifts, _ = subshifts.Normalize(r.SubShifts)
		}
		out[i] = r
	}
	return out
}
