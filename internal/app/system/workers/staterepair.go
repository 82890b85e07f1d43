// internal/app/system/workers/staterepair.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/shiftgrid/internal/app/system/normalize"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.uber.org/zap"
)

// StateStore is the part of the app state store the worker uses.
type StateStore interface {
	Scopes(ctx context.Context) ([]string, error)
	Get(ctx context.Context, scope string) (models.AppState, error)
	Replace(ctx context.Context, scope string, st models.AppState) (models.AppState, error)
}

// RunSweeper marks abandoned solver runs as failed.
type RunSweeper interface {
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// StateRepair is a background worker that normalizes every stored state and
// writes back the ones that needed repair. It also fails solver runs left
// running longer than staleAfter.
type StateRepair struct {
	states     StateStore
	runs       RunSweeper
	log        *zap.Logger
	interval   time.Duration
	staleAfter time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewStateRepair creates a new state repair worker. runs may be nil.
//
// Parameters:
//   - states: the app state store
//   - runs: the solver runs store
//   - logger: zap logger for logging
//   - interval: how often to run a pass (e.g., 15 minutes)
//   - staleAfter: how long a run may stay running before it is failed
func NewStateRepair(states StateStore, runs RunSweeper, logger *zap.Logger, interval, staleAfter time.Duration) *StateRepair {
	return &StateRepair{
		states:     states,
		runs:       runs,
		log:        logger,
		interval:   interval,
		staleAfter: staleAfter,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background repair loop.
func (w *StateRepair) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("state repair worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("stale_after", w.staleAfter))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *StateRepair) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("state repair worker stopped")
}

func (w *StateRepair) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
			w.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce performs a single pass and returns the number of repaired scopes.
func (w *StateRepair) RunOnce(ctx context.Context) int {
	repaired := 0

	scopes, err := w.states.Scopes(ctx)
	if err != nil {
		w.log.Error("failed to list app state scopes", zap.Error(err))
		return 0
	}
	for _, scope := range scopes {
		st, err := w.states.Get(ctx, scope)
		if err != nil {
			w.log.Error("failed to load app state", zap.String("scope", scope), zap.Error(err))
			continue
		}
		res := normalize.AppState(st)
		if !res.Changed {
			continue
		}
		if _, err := w.states.Replace(ctx, scope, res.State); err != nil {
			w.log.Error("failed to write repaired app state", zap.String("scope", scope), zap.Error(err))
			continue
		}
		repaired++
		w.log.Info("repaired app state", zap.String("scope", scope))
	}

	if w.runs != nil && w.staleAfter > 0 {
		n, err := w.runs.FailStale(ctx, w.staleAfter)
		if err != nil {
			w.log.Error("failed to sweep stale solver runs", zap.Error(err))
		} else if n > 0 {
			w.log.Info("failed stale solver runs", zap.Int64("count", n))
		}
	}
	return repaired
}
