package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Attempt is one failed upstream request as stored in the diagnostics log.
type Attempt struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	URL       string        `json:"url"`
	Attempt   int           `json:"attempt"`
	Kind      string        `json:"kind"`
	Message   string        `json:"message"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration_ns"`
	RequestID string        `json:"request_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type AttemptRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAttemptRepository(db *sql.DB, logger zerolog.Logger) *AttemptRepository {
	return &AttemptRepository{db: db, logger: logger}
}

func (r *AttemptRepository) Insert(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		a.ID = id
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fetch_attempts (id, source, url, attempt, kind, message, status, duration_ms, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Source, a.URL, a.Attempt, a.Kind, a.Message, a.Status,
		a.Duration.Milliseconds(), a.RequestID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

// Recent returns the newest attempts for source, newest first.
func (r *AttemptRepository) Recent(ctx context.Context, source string, limit int) ([]Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, url, attempt, kind, message, status, duration_ms, request_id, created_at
		FROM fetch_attempts
		WHERE source = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a          Attempt
			durationMs int64
		)
		if err := rows.Scan(&a.ID, &a.Source, &a.URL, &a.Attempt, &a.Kind, &a.Message, &a.Status, &durationMs, &a.RequestID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByKind aggregates stored attempts for source since the given time.
func (r *AttemptRepository) CountByKind(ctx context.Context, source string, since time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM fetch_attempts
		WHERE source = ? AND created_at >= ?
		GROUP BY kind`, source, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Prune deletes attempts older than before and reports how many went.
func (r *AttemptRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fetch_attempts WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	n, _ := res.RowsAffected()
	r.logger.Debug().Int64("deleted", n).Time("before", before).Msg("pruned fetch attempts")
	return n, nil
}
