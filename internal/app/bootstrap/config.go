// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for shiftgrid.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, optimizer_url, etc.
//   - Environment variables: SHIFTGRID_MONGO_URI, SHIFTGRID_OPTIMIZER_URL, etc.
//   - Command-line flags: --mongo_uri, --optimizer_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "shiftgrid", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "schedule_scope", Default: "default", Desc: "Schedule scope served by the API"},

	// Optimizer
	{Name: "optimizer_url", Default: "", Desc: "Base URL of the schedule optimizer (blank disables /api/solve)"},
	{Name: "optimizer_timeout", Default: "5m", Desc: "Upper bound of one optimizer run (e.g., 90s, 5m)"},
	{Name: "solve_rate_limit", Default: 6, Desc: "Solve requests allowed per client per minute"},

	// State repair worker
	{Name: "repair_enabled", Default: true, Desc: "Periodically normalize stored states and fail abandoned solver runs"},
	{Name: "repair_interval", Default: "15m", Desc: "Time between state repair passes"},
	{Name: "run_stale_after", Default: "1h", Desc: "Solver runs still running after this are marked failed"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SHIFTGRID_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SHIFTGRID", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ScheduleScope: appValues.String("schedule_scope"),

		OptimizerURL:     appValues.String("optimizer_url"),
		OptimizerTimeout: appValues.Duration("optimizer_timeout", 5*time.Minute),
		SolveRateLimit:   appValues.Int("solve_rate_limit"),

		RepairEnabled:  appValues.Bool("repair_enabled"),
		RepairInterval: appValues.Duration("repair_interval", 15*time.Minute),
		RunStaleAfter:  appValues.Duration("run_stale_after", time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI and optimizer URL are checked here so that configuration
// errors surface before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.ScheduleScope == "" {
		return fmt.Errorf("schedule_scope must not be empty")
	}

	if appCfg.OptimizerURL != "" {
		u, err := url.Parse(appCfg.OptimizerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("optimizer_url must be an absolute http(s) URL, got %q", appCfg.OptimizerURL)
		}
	} else {
		logger.Warn("optimizer_url not set; /api/solve is disabled")
	}

	if appCfg.SolveRateLimit < 1 {
		return fmt.Errorf("solve_rate_limit must be at least 1")
	}

	if appCfg.RepairEnabled && appCfg.RepairInterval <= 0 {
		return fmt.Errorf("repair_interval must be positive when repair is enabled")
	}

	return nil
}
