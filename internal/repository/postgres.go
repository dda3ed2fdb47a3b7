package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"travella/internal/model"
)

// ErrNotFound is returned when a logged query does not exist
var ErrNotFound = errors.New("query not found")

const queryColumns = `id, text, normalized, intent, predicted_intent, confidence,
	entities, scores, response_source, corrected_intent, created_at`

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS query_logs (
		id               UUID PRIMARY KEY,
		text             TEXT NOT NULL,
		normalized       TEXT NOT NULL,
		intent           TEXT NOT NULL,
		predicted_intent TEXT NOT NULL,
		confidence       DOUBLE PRECISION NOT NULL,
		entities         JSONB NOT NULL DEFAULT '{}',
		scores           VECTOR NOT NULL,
		response_source  TEXT NOT NULL,
		corrected_intent TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS query_logs_created_at_idx ON query_logs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS query_logs_corrected_idx ON query_logs (corrected_intent) WHERE corrected_intent IS NOT NULL`,
}

// PostgresRepository stores the query log
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewPostgresRepositoryWithDB(db), nil
}

// NewPostgresRepositoryWithDB wraps an open connection
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping tests the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate creates the query log schema if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// LogQuery stores one prediction
func (r *PostgresRepository) LogQuery(ctx context.Context, rec *model.QueryRecord) error {
	query := `
		INSERT INTO query_logs (id, text, normalized, intent, predicted_intent, confidence,
			entities, scores, response_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Text, rec.Normalized, rec.Intent, rec.PredictedIntent, rec.Confidence,
		rec.Entities, rec.Scores, rec.ResponseSource,
	)
	if err != nil {
		return fmt.Errorf("failed to log query: %w", err)
	}
	return nil
}

// LogFeedback records the intent a user says a query should have had
func (r *PostgresRepository) LogFeedback(ctx context.Context, queryID, intent string) error {
	query := `UPDATE query_logs SET corrected_intent = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, queryID, intent)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentQueries returns the latest logged queries, newest first
func (r *PostgresRepository) RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM query_logs ORDER BY created_at DESC LIMIT $1`, queryColumns)

	records := []model.QueryRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch queries: %w", err)
	}
	return records, nil
}

// SimilarQueries returns the queries whose class distribution is nearest
// (L2) to queryID's. Rows scored by a model with a different label count are skipped.
func (r *PostgresRepository) SimilarQueries(ctx context.Context, queryID string, limit int) ([]model.QueryRecord, error) {
	var scores pgvector.Vector
	err := r.db.GetContext(ctx, &scores, `SELECT scores FROM query_logs WHERE id = $1`, queryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get query: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, scores <-> $1 AS distance
		FROM query_logs
		WHERE id <> $2 AND vector_dims(scores) = $3
		ORDER BY distance
		LIMIT $4
	`, queryColumns)

	records := []model.QueryRecord{}
	err = r.db.SelectContext(ctx, &records, query, scores, queryID, len(scores.Slice()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch similar queries: %w", err)
	}
	return records, nil
}
