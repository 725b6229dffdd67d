package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-renderer/internal/domain"
)

// JobsRepo stores render jobs in Postgres. With a nil pool it accepts saves
// and forgets them.
type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

func (r *JobsRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	if r.pool == nil {
		return nil
	}

	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return fmt.Errorf("encode job metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO render_jobs (id, status, full_name, backend, file_key, file_size, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, file_key = EXCLUDED.file_key, file_size = EXCLUDED.file_size, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.Status, j.FullName, j.Backend, j.FileKey, j.FileSize, j.Error, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert render job %s: %w", j.ID, err)
	}
	return nil
}

func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	if r.pool == nil {
		return nil, domain.ErrJobStoreDisabled
	}

	var (
		j     domain.RenderJob
		metaB []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, status, full_name, backend, file_key, file_size, error, metadata, created_at, updated_at
		FROM render_jobs WHERE id = $1`, id).
		Scan(&j.ID, &j.Status, &j.FullName, &j.Backend, &j.FileKey, &j.FileSize, &j.Error, &metaB, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load render job %s: %w", id, err)
	}

	j.Metadata = map[string]interface{}{}
	if len(metaB) > 0 {
		if err := json.Unmarshal(metaB, &j.Metadata); err != nil {
			return nil, fmt.Errorf("decode job metadata: %w", err)
		}
	}
	return &j, nil
}
