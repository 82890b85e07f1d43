// Package locations keeps the location registry non-empty and free of
// duplicate ids.
package locations

import (
	"reflect"
	"strings"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// Normalize de-duplicates by id (first occurrence wins), drops entries
// without an id and guarantees the default location is present. When the
// default is missing it is placed first.
func Normalize(in []models.Location) ([]models.Location, bool) {
	seen := make(map[string]bool, len(in)+1)
	out := make([]models.Location, 0, len(in)+1)

	for _, loc := range in {
		id := strings.TrimSpace(loc.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			name = id
			if id == models.DefaultLocationID {
				name = models.DefaultLocationName
			}
		}
		out = append(out, models.Location{ID: id, Name: name})
	}

	if !seen[models.DefaultLocationID] {
		def := models.Location{ID: models.DefaultLocationID, Name: models.DefaultLocationName}
		out = append([]models.Location{def}, out...)
	}

	return out, !reflect.DeepEqual(in, out)
}

// IDSet returns the ids of locs as a lookup set.
func IDSet(locs []models.Location) map[string]bool {
	set := make(map[string]bool, len(locs))
	for _, l := range locs {
		set[l.ID] = true
	}
	return set
}
