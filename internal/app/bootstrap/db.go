// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shiftgrid/internal/app/system/indexes"
	"github.com/dalemusser/shiftgrid/internal/app/system/timeouts"
	"github.com/dalemusser/shiftgrid/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates collections with their JSON-Schema validators and
// then creates or repairs their indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Batch(), logger, "ensure schema")
	defer cancel()

	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
