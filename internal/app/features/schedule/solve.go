// internal/app/features/schedule/solve.go
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	solverrunsstore "github.com/dalemusser/shiftgrid/internal/app/store/solverruns"
	"github.com/dalemusser/shiftgrid/internal/app/system/daytype"
	"github.com/dalemusser/shiftgrid/internal/app/system/optimizer"
	"github.com/dalemusser/shiftgrid/internal/app/system/ratelimit"
	"github.com/dalemusser/shiftgrid/internal/app/system/schedulerows"
	"github.com/dalemusser/shiftgrid/internal/app/system/solverstats"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Limits of POST /api/solve.
const (
	MaxSolveDays         = 62
	DefaultTimeLimitSecs = 60
	recentRunsLimit      = 20
)

// solveRequest is the body of POST /api/solve.
type solveRequest struct {
	StartISO         string  `json:"startISO"`
	EndISO           string  `json:"endISO"`
	TimeLimitSeconds float64 `json:"timeLimitSeconds"`
}

// solveResponse is the terminal result plus the stats of every candidate.
type solveResponse struct {
	Result     optimizer.Result          `json:"result"`
	Candidates []models.SolverCheckpoint `json:"candidates"`
	Final      models.SolverStats        `json:"finalStats"`
}

// Solve handles POST /api/solve. It blocks until the optimizer finishes and
// records the run and each candidate's statistics.
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	if h.Solver == nil {
		writeError(w, http.StatusServiceUnavailable, "optimizer is not configured")
		return
	}
	if h.SolveLimit != nil {
		if ok, reason := h.SolveLimit.Check(r, h.Scope); !ok {
			h.Log.Warn("solve rate limited", zap.String("ip", ratelimit.ClientIP(r)))
			if wait := h.SolveLimit.RetryAfter(r, h.Scope); wait > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			writeError(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	var in solveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid solve request")
		return
	}
	days := daytype.Range(in.StartISO, in.EndISO)
	if len(days) == 0 {
		writeError(w, http.StatusBadRequest, "startISO and endISO must be dates with startISO <= endISO")
		return
	}
	if len(days) > MaxSolveDays {
		writeError(w, http.StatusBadRequest, "solve range exceeds "+strconv.Itoa(MaxSolveDays)+" days")
		return
	}
	if in.TimeLimitSeconds <= 0 {
		in.TimeLimitSeconds = DefaultTimeLimitSecs
	}

	st, err := h.loadState(r.Context())
	if err != nil {
		h.Log.Error("load app state failed", zap.String("scope", h.Scope), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load state")
		return
	}
	rows := schedulerows.Project(schedulerows.FromState(st))

	runID := uuid.NewString()
	// The run record must reach a terminal status even if the client goes away.
	bg := context.WithoutCancel(r.Context())

	createCtx, cancel := timeouts.WithTimeout(bg, timeouts.Short(), h.Log, "create solver run")
	_, err = h.Runs.Create(createCtx, runID, h.Scope, in.StartISO, in.EndISO)
	cancel()
	if err != nil {
		h.Log.Error("create solver run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record solver run")
		return
	}

	log := h.Log.With(zap.String("run_id", runID), zap.String("scope", h.Scope))
	statsOf := func(list []models.Assignment) models.SolverStats {
		settings := st.SolverSettings
		return solverstats.Compute(solverstats.Input{
			Assignments: list,
			Rows:        rows,
			Clinicians:  st.Clinicians,
			StartISO:    in.StartISO,
			EndISO:      in.EndISO,
			Holidays:    st.HolidaySet(),
			Overrides:   st.SlotOverrides,
			Settings:    &settings,
		})
	}

	candidates := []models.SolverCheckpoint{}
	onProgress := func(p optimizer.Progress) {
		cp := models.SolverCheckpoint{
			Sequence:  p.Sequence,
			Objective: p.Objective,
			ElapsedMS: p.ElapsedMS,
			Stats:     statsOf(p.Assignments),
		}
		candidates = append(candidates, cp)

		ctx, cancel := timeouts.WithTimeout(bg, timeouts.Short(), log, "append solver checkpoint")
		defer cancel()
		if err := h.Runs.AppendCheckpoint(ctx, runID, cp); err != nil {
			log.Warn("append solver checkpoint failed", zap.Int("sequence", p.Sequence), zap.Error(err))
		}
	}

	solveCtx, cancelSolve := context.WithTimeout(r.Context(), timeouts.Solve())
	defer cancelSolve()

	res, solveErr := h.Solver.Solve(solveCtx, optimizer.Request{
		RunID:            runID,
		StartISO:         in.StartISO,
		EndISO:           in.EndISO,
		State:            st,
		Rows:             rows,
		Settings:         st.SolverSettings,
		Rules:            st.SolverRules,
		TimeLimitSeconds: in.TimeLimitSeconds,
	}, onProgress)

	finishCtx, cancel := timeouts.WithTimeout(bg, timeouts.Short(), log, "finish solver run")
	defer cancel()

	if solveErr != nil {
		log.Error("optimizer run failed", zap.Error(solveErr))
		if err := h.Runs.Finish(finishCtx, runID, models.RunStatusError, solveErr.Error(), nil); err != nil {
			log.Warn("finish solver run failed", zap.Error(err))
		}
		writeError(w, http.StatusBadGateway, "optimizer failed: "+solveErr.Error())
		return
	}

	if err := h.Runs.Finish(finishCtx, runID, res.Status, res.Error, res.Notes); err != nil {
		log.Warn("finish solver run failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, solveResponse{
		Result:     res,
		Candidates: candidates,
		Final:      statsOf(res.Assignments),
	})
}

// ListRuns handles GET /api/solve/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list solver runs")
	defer cancel()

	runs, err := h.Runs.ListRecent(ctx, h.Scope, recentRunsLimit)
	if err != nil {
		h.Log.Error("list solver runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list solver runs")
		return
	}
	if runs == nil {
		runs = []models.SolverRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /api/solve/runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get solver run")
	defer cancel()

	run, err := h.Runs.Get(ctx, runID)
	if errors.Is(err, solverrunsstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "solver run not found")
		return
	}
	if err != nil {
		h.Log.Error("get solver run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load solver run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// AbortRun handles POST /api/solve/runs/{id}/abort.
func (h *Handler) AbortRun(w http.ResponseWriter, r *http.Request) {
	if h.Solver == nil {
		writeError(w, http.StatusServiceUnavailable, "optimizer is not configured")
		return
	}
	runID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "abort solver run")
	defer cancel()

	if err := h.Solver.Abort(ctx, runID); err != nil {
		var oe *optimizer.Error
		if errors.As(err, &oe) && oe.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "solver run not active")
			return
		}
		h.Log.Warn("abort solver run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to abort solver run")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
