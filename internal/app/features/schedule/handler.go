// internal/app/features/schedule/handler.go
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appstatestore "github.com/dalemusser/shiftgrid/internal/app/store/appstate"
	"github.com/dalemusser/shiftgrid/internal/app/system/normalize"
	"github.com/dalemusser/shiftgrid/internal/app/system/optimizer"
	"github.com/dalemusser/shiftgrid/internal/app/system/ratelimit"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.uber.org/zap"
)

// maxStateBytes bounds a PUT /api/state body.
const maxStateBytes = 8 << 20

// StateStore reads and replaces the app state document of a scope.
// *appstatestore.Store implements it.
type StateStore interface {
	Get(ctx context.Context, scope string) (models.AppState, error)
	Replace(ctx context.Context, scope string, st models.AppState) (models.AppState, error)
}

// RunStore records optimizer runs. *solverrunsstore.Store implements it.
type RunStore interface {
	Create(ctx context.Context, runID, scope, startISO, endISO string) (models.SolverRun, error)
	AppendCheckpoint(ctx context.Context, runID string, cp models.SolverCheckpoint) error
	Finish(ctx context.Context, runID, status, errMsg string, notes []string) error
	Get(ctx context.Context, runID string) (models.SolverRun, error)
	ListRecent(ctx context.Context, scope string, limit int64) ([]models.SolverRun, error)
}

// Solver runs the external optimizer. *optimizer.Client implements it.
type Solver interface {
	Solve(ctx context.Context, req optimizer.Request, onProgress func(optimizer.Progress)) (optimizer.Result, error)
	Abort(ctx context.Context, runID string) error
}

// Handler serves the schedule JSON API for one schedule scope.
type Handler struct {
	States StateStore
	Runs   RunStore
	Solver Solver // nil when no optimizer is configured
	Scope  string
	Log    *zap.Logger

	// SolveLimit throttles POST /api/solve; nil disables throttling.
	SolveLimit *ratelimit.SolveLimiter
}

// NewHandler creates a schedule handler.
func NewHandler(states StateStore, runs RunStore, solver Solver, scope string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		States: states,
		Runs:   runs,
		Solver: solver,
		Scope:  scope,
		Log:    logger,
	}
}

// loadState returns the normalized state of the scope. A missing document
// yields the normalized empty state. A repaired state is written back.
func (h *Handler) loadState(ctx context.Context) (models.AppState, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "load app state")
	defer cancel()

	raw, err := h.States.Get(ctx, h.Scope)
	missing := errors.Is(err, appstatestore.ErrNotFound)
	if err != nil && !missing {
		return models.AppState{}, err
	}
	raw.Scope = h.Scope

	res := normalize.AppState(raw)
	if !res.Changed && !missing {
		return res.State, nil
	}
	stored, err := h.States.Replace(ctx, h.Scope, res.State)
	if err != nil {
		h.Log.Warn("write back normalized state failed",
			zap.String("scope", h.Scope),
			zap.Error(err))
		return res.State, nil
	}
	h.Log.Info("normalized app state written back", zap.String("scope", h.Scope))
	return stored, nil
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
