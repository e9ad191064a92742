package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"dossier/internal/screening"
)

// PostgresStore persists screening results in PostgreSQL, one row per client
// with last-write-wins semantics.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a store over an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pq-backed handle and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Migrate creates the screening_results table when absent. Kept inline so the
// batch CLI can bootstrap a fresh database without tooling.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS screening_results (
			client_id    TEXT PRIMARY KEY,
			accepted     BOOLEAN NOT NULL,
			explanation  TEXT NOT NULL,
			issue_count  INTEGER NOT NULL,
			evaluated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate screening_results: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, result screening.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO screening_results (client_id, accepted, explanation, issue_count, evaluated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id) DO UPDATE SET
			accepted = EXCLUDED.accepted,
			explanation = EXCLUDED.explanation,
			issue_count = EXCLUDED.issue_count,
			evaluated_at = EXCLUDED.evaluated_at`,
		result.ClientID, result.Accepted, result.Explanation, result.IssueCount, result.EvaluatedAt)
	if err != nil {
		return fmt.Errorf("save screening result: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByClient(ctx context.Context, clientID string) (*screening.Result, error) {
	var result screening.Result
	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, accepted, explanation, issue_count, evaluated_at
		FROM screening_results
		WHERE client_id = $1`, clientID).
		Scan(&result.ClientID, &result.Accepted, &result.Explanation, &result.IssueCount, &result.EvaluatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find screening result: %w", err)
	}
	return &result, nil
}
