// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	healthfeature "github.com/dalemusser/shiftgrid/internal/app/features/health"
	schedulefeature "github.com/dalemusser/shiftgrid/internal/app/features/schedule"
	appstatestore "github.com/dalemusser/shiftgrid/internal/app/store/appstate"
	solverrunsstore "github.com/dalemusser/shiftgrid/internal/app/store/solverruns"
	"github.com/dalemusser/shiftgrid/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It mounts the health check and the
// schedule JSON API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.OptimizerURL, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Schedule API. A nil client must stay a nil interface.
	var solver schedulefeature.Solver
	if c := newOptimizerClient(appCfg, logger); c != nil {
		solver = c
	}
	scheduleHandler := schedulefeature.NewHandler(
		appstatestore.New(deps.MongoDatabase),
		solverrunsstore.New(deps.MongoDatabase),
		solver,
		appCfg.ScheduleScope,
		logger.Named("schedule"),
	)
	scheduleHandler.SolveLimit = ratelimit.NewSolveLimiterWithConfig(appCfg.SolveRateLimit, time.Minute, 4*appCfg.SolveRateLimit, time.Minute)
	r.Mount("/api", schedulefeature.Routes(scheduleHandler))

	return r, nil
}
