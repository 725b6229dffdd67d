package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name  string
	Query string
}

// Migrations are applied in order on every start; each one is idempotent.
var Migrations = []Migration{
	{
		Name: "create_render_jobs",
		Query: `
			CREATE TABLE IF NOT EXISTS render_jobs (
				id UUID PRIMARY KEY,
				status TEXT NOT NULL,
				full_name TEXT NOT NULL DEFAULT '',
				file_key TEXT NOT NULL DEFAULT '',
				file_size BIGINT NOT NULL DEFAULT 0,
				error TEXT NOT NULL DEFAULT '',
				metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
		`,
	},
	{
		Name: "add_backend_to_render_jobs",
		Query: `
			ALTER TABLE render_jobs
			ADD COLUMN IF NOT EXISTS backend TEXT NOT NULL DEFAULT 'fpdf';
		`,
	},
	{
		Name: "index_render_jobs_status",
		Query: `
			CREATE INDEX IF NOT EXISTS render_jobs_status_created_at_idx
			ON render_jobs (status, created_at DESC);
		`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("starting database migrations", zap.Int("count", len(Migrations)))

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.Query); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}

	logger.Info("all migrations completed")
	return nil
}
