// internal/app/features/schedule/grid.go
package schedule

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/intervals"
	"github.com/dalemusser/shiftgrid/internal/app/system/rendering"
	"github.com/dalemusser/shiftgrid/internal/app/system/schedulerows"
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.uber.org/zap"
)

// Display window bounds of GET /api/schedule.
const (
	DefaultDays = 7
	MaxDays     = 62
)

// gridResponse is what the schedule grid renders for a date window.
type gridResponse struct {
	StartISO    string                         `json:"startISO"`
	EndISO      string                         `json:"endISO"`
	Days        []string                       `json:"days"`
	Rows        []models.ScheduleRow           `json:"rows"`
	Assignments map[string][]models.Assignment `json:"assignments"`
	Conflicts   []intervals.Conflict           `json:"conflicts"`
}

// GetGrid handles GET /api/schedule?start=YYYY-MM-DD&days=N.
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	if _, ok := daytype.ParseDate(start); !ok {
		writeError(w, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	n := DefaultDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > MaxDays {
			writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(MaxDays))
			return
		}
		n = parsed
	}
	end, _ := daytype.AddDays(start, n-1)

	st, err := h.loadState(r.Context())
	if err != nil {
		h.Log.Error("load app state failed", zap.String("scope", h.Scope), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load state")
		return
	}

	writeJSON(w, http.StatusOK, buildGrid(st, start, end))
}

// buildGrid projects st onto the inclusive window [start, end].
func buildGrid(st models.AppState, start, end string) gridResponse {
	days := daytype.Range(start, end)
	rows := schedulerows.Project(schedulerows.FromState(st))
	settings := st.SolverSettings

	rendered := rendering.Render(rendering.Input{
		Assignments: rendering.ByKey(st.Assignments),
		Clinicians:  st.Clinicians,
		Days:        days,
		Rows:        rows,
		Settings:    &settings,
	})

	inWindow := make(map[string]bool, len(days))
	for _, d := range days {
		inWindow[d] = true
	}
	visible := make(map[string][]models.Assignment)
	keys := make([]string, 0, len(rendered))
	for key, list := range rendered {
		if len(list) == 0 {
			continue
		}
		if _, date, ok := shiftid.SplitAssignmentKey(key); ok && inWindow[date] {
			visible[key] = list
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var worked []models.Assignment
	for _, key := range keys {
		worked = append(worked, visible[key]...)
	}
	conflicts := intervals.FindConflicts(worked, rows)
	if conflicts == nil {
		conflicts = []intervals.Conflict{}
	}

	return gridResponse{
		StartISO:    start,
		EndISO:      end,
		Days:        days,
		Rows:        rows,
		Assignments: visible,
		Conflicts:   conflicts,
	}
}
