package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddl = `
CREATE TABLE IF NOT EXISTS candidates (
	id               UUID PRIMARY KEY,
	name             VARCHAR(100) NOT NULL,
	email            VARCHAR(200) UNIQUE,
	phone            VARCHAR(20),
	education        VARCHAR(200),
	experience_years INTEGER,
	current_position VARCHAR(200),
	current_company  VARCHAR(200),
	skills           JSONB,
	status           VARCHAR(50) NOT NULL DEFAULT 'pending',
	notes            TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS extraction_jobs (
	id                UUID PRIMARY KEY,
	filename          VARCHAR(500) NOT NULL,
	file_path         VARCHAR(1000) NOT NULL,
	file_size         BIGINT NOT NULL DEFAULT 0,
	file_type         VARCHAR(10) NOT NULL,
	raw_text          TEXT,
	extracted_data    JSONB,
	processing_status VARCHAR(50) NOT NULL DEFAULT 'pending',
	error_message     TEXT,
	candidate_id      UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at      TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_extraction_jobs_candidate ON extraction_jobs(candidate_id);
CREATE INDEX IF NOT EXISTS idx_extraction_jobs_status ON extraction_jobs(processing_status);
`

// EnsureSchema applies the idempotent DDL bootstrap at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if _, err := pool.Exec(ctx, ddl); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		return err
	}
	logger.Info("schema bootstrap complete")
	return nil
}
