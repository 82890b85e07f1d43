// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	appstatestore "github.com/dalemusser/shiftgrid/internal/app/store/appstate"
	solverrunsstore "github.com/dalemusser/shiftgrid/internal/app/store/solverruns"
	"github.com/dalemusser/shiftgrid/internal/app/system/optimizer"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Background workers started by Startup and stopped by Shutdown.
var (
	workersMu    sync.Mutex
	repairWorker *workers.StateRepair
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// applies timeout overrides and starts the state repair worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}
	if appCfg.OptimizerTimeout > 0 {
		cur := timeouts.Current()
		cur.Solve = appCfg.OptimizerTimeout
		timeouts.Configure(cur)
	}

	if !appCfg.RepairEnabled {
		logger.Info("state repair worker disabled")
		return nil
	}

	w := workers.NewStateRepair(
		appstatestore.New(deps.MongoDatabase),
		solverrunsstore.New(deps.MongoDatabase),
		logger,
		appCfg.RepairInterval,
		appCfg.RunStaleAfter,
	)

	// One pass before serving so requests see repaired documents.
	passCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	if n := w.RunOnce(passCtx); n > 0 {
		logger.Info("repaired app states at startup", zap.Int("scopes", n))
	}
	cancel()

	w.Start()

	workersMu.Lock()
	repairWorker = w
	workersMu.Unlock()
	return nil
}

// newOptimizerClient returns nil when no optimizer URL is configured.
func newOptimizerClient(appCfg AppConfig, logger *zap.Logger) *optimizer.Client {
	if appCfg.OptimizerURL == "" {
		return nil
	}
	return optimizer.New(appCfg.OptimizerURL, appCfg.OptimizerTimeout, nil, logger.Named("optimizer"))
}
