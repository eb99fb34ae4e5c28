// Package slots selects the slot repository backend named by the configuration.
package slots

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/repositories"
	"github.com/janezhang99/SEW-v5-sub002/internal/platform/config"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/file"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/memory"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/pgsql"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/s3"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/sqlite"
	"github.com/janezhang99/SEW-v5-sub002/pkg/database"
)

// New opens the slot repository configured by cfg.SlotBackend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.SlotRepository, error) {
	logger = logger.With(slog.String("slot_backend", cfg.SlotBackend))

	switch cfg.SlotBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory slots, data will not survive a restart")
		return memory.New(), nil
	case config.BackendFile:
		logger.Info("Using file slots", slog.String("data_dir", cfg.DataDir))
		return file.New(cfg.DataDir)
	case config.BackendSQLite:
		logger.Info("Using sqlite slots", slog.String("path", cfg.SQLitePath))
		return sqlite.New(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		logger.Info("Running database migrations...")
		if err := pgsql.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.New(pool), nil
	case config.BackendS3:
		logger.Info("Using s3 slots", slog.String("bucket", cfg.S3Bucket), slog.String("prefix", cfg.S3Prefix))
		return s3.NewFromEnv(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion, cfg.S3Endpoint)
	default:
		return nil, fmt.Errorf("unknown slot backend %q", cfg.SlotBackend)
	}
}
