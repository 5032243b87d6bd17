package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists run records to Postgres. Schema:
//
//	CREATE TABLE IF NOT EXISTS pipeline_runs (
//	    id         BIGSERIAL PRIMARY KEY,
//	    started_at TIMESTAMPTZ NOT NULL,
//	    status     TEXT NOT NULL,
//	    report     JSONB NOT NULL
//	);
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a run-history repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the pipeline_runs table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id         BIGSERIAL PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			status     TEXT NOT NULL,
			report     JSONB NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure pipeline_runs schema: %w", err)
	}
	return nil
}

// Save inserts a run record.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO pipeline_runs (started_at, status, report)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, rec.StartedAt, rec.Status, []byte(rec.Report))
	if err != nil {
		return fmt.Errorf("save run record: %w", err)
	}
	return nil
}

// Latest returns the most recently started run, or nil when none exist.
func (r *Repository) Latest(ctx context.Context) (*Record, error) {
	query := `
		SELECT id, started_at, status, report
		FROM pipeline_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`
	var rec Record
	var report []byte
	err := r.pool.QueryRow(ctx, query).Scan(&rec.ID, &rec.StartedAt, &rec.Status, &report)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	rec.Report = report
	return &rec, nil
}

// ListSince returns runs started after the given time, most recent first.
func (r *Repository) ListSince(ctx context.Context, since time.Time, limit int) ([]Record, error) {
	query := `
		SELECT id, started_at, status, report
		FROM pipeline_runs
		WHERE started_at > $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var report []byte
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.Status, &report); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		rec.Report = report
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run records: %w", err)
	}
	return records, nil
}
