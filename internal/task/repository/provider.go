package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

// Provide selects a Repository implementation based on configuration:
// Postgres when a database host is configured, SQLite otherwise.
func Provide(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (Repository, error) {
	if cfg.UsePostgres() {
		log.Info("Using PostgreSQL repository", zap.String("host", cfg.Host), zap.String("database", cfg.DBName))
		return NewPostgresRepository(ctx, cfg)
	}

	log.Info("Using SQLite repository", zap.String("path", cfg.SQLitePath))
	return NewSQLiteRepository(cfg.SQLitePath)
}
