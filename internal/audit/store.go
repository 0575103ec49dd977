// Package audit persists the oracle invocation trail in a local SQLite
// database so every call remains reconstructable after the fact.
package audit

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hrcopilot/resume-tracker/internal/llm"
)

const schema = `
CREATE TABLE IF NOT EXISTS oracle_calls (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id       TEXT NOT NULL,
	method           TEXT NOT NULL,
	model            TEXT NOT NULL DEFAULT '',
	prompt_length    INTEGER NOT NULL DEFAULT 0,
	prompt_preview   TEXT NOT NULL DEFAULT '',
	response_length  INTEGER NOT NULL DEFAULT 0,
	response_preview TEXT NOT NULL DEFAULT '',
	success          INTEGER NOT NULL,
	fallback         INTEGER NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT '',
	duration_ms      INTEGER NOT NULL DEFAULT 0,
	started_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_oracle_calls_started_at ON oracle_calls(started_at);
`

// Store is a SQLite-backed llm.AuditSink.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("audit store ready", "path", path)
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Record(ctx context.Context, e llm.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO oracle_calls (
			request_id, method, model,
			prompt_length, prompt_preview,
			response_length, response_preview,
			success, fallback, error, duration_ms, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Method, e.Model,
		e.PromptLength, e.PromptPreview,
		e.ResponseLength, e.ResponsePreview,
		boolToInt(e.Success), boolToInt(e.Fallback), e.Error,
		e.Duration.Milliseconds(), e.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns the most recent oracle calls, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]llm.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, method, model,
		       prompt_length, prompt_preview,
		       response_length, response_preview,
		       success, fallback, error, duration_ms, started_at
		FROM oracle_calls
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []llm.AuditEntry
	for rows.Next() {
		var (
			e          llm.AuditEntry
			success    int
			fallback   int
			durationMS int64
			startedAt  string
		)
		if err := rows.Scan(
			&e.RequestID, &e.Method, &e.Model,
			&e.PromptLength, &e.PromptPreview,
			&e.ResponseLength, &e.ResponsePreview,
			&success, &fallback, &e.Error, &durationMS, &startedAt,
		); err != nil {
			return nil, err
		}
		e.Success = success != 0
		e.Fallback = fallback != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			e.StartedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
