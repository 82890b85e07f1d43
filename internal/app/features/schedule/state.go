// internal/app/features/schedule/state.go
package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/shiftgrid/internal/app/system/normalize"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.uber.org/zap"
)

// GetState handles GET /api/state and returns the normalized state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.loadState(r.Context())
	if err != nil {
		h.Log.Error("load app state failed", zap.String("scope", h.Scope), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load state")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// PutState handles PUT /api/state. The body is normalized before it
// replaces the stored state; the stored copy is returned.
func (h *Handler) PutState(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStateBytes)

	var in models.AppState
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid state document")
		return
	}
	in.Scope = h.Scope

	res := normalize.AppState(in)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "replace app state")
	defer cancel()

	stored, err := h.States.Replace(ctx, h.Scope, res.State)
	if err != nil {
		h.Log.Error("replace app state failed", zap.String("scope", h.Scope), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save state")
		return
	}
	if res.Changed {
		h.Log.Debug("submitted state repaired by normalization", zap.String("scope", h.Scope))
	}
	writeJSON(w, http.StatusOK, stored)
}
