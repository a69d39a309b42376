package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	insertRunSQL = `INSERT INTO prediction_runs (
        kind,
        entity_id,
        payload,
        result,
        summary
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    RETURNING id, created_at;`

	listRecentRunsSQL = `SELECT
        id,
        kind,
        entity_id,
        payload,
        result,
        summary,
        created_at
    FROM prediction_runs
    ORDER BY created_at DESC
    LIMIT $1;`

	countRunsSQL = `SELECT COUNT(*) FROM prediction_runs;`

	deleteRunsBeforeSQL = `DELETE FROM prediction_runs WHERE created_at < $1;`
)

// PredictionRunStore defines operations for prediction-run auditing.
type PredictionRunStore interface {
	InsertRun(ctx context.Context, run PredictionRun) (PredictionRun, error)
	ListRecentRuns(ctx context.Context, limit int) ([]PredictionRun, error)
	CountRuns(ctx context.Context) (int64, error)
	DeleteRunsBefore(ctx context.Context, olderThan time.Time) error
}

// Store persists prediction runs in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertRun persists one predictor invocation.
func (s *Store) InsertRun(ctx context.Context, run PredictionRun) (PredictionRun, error) {
	pool, err := s.getPool()
	if err != nil {
		return PredictionRun{}, err
	}

	var entityID interface{}
	if run.EntityID != nil {
		entityID = *run.EntityID
	}

	row := pool.QueryRow(ctx, insertRunSQL,
		run.Kind,
		entityID,
		[]byte(run.Payload),
		[]byte(run.Result),
		run.Summary,
	)

	if scanErr := row.Scan(&run.ID, &run.CreatedAt); scanErr != nil {
		return PredictionRun{}, fmt.Errorf("insert prediction run: %w", scanErr)
	}
	return run, nil
}

// ListRecentRuns lists the most recent runs ordered by descending creation.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]PredictionRun, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent runs: %w", queryErr)
	}
	defer rows.Close()

	runs := make([]PredictionRun, 0, limit)
	for rows.Next() {
		run, scanErr := scanPredictionRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return runs, nil
}

// CountRuns counts stored runs.
func (s *Store) CountRuns(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countRunsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count runs: %w", scanErr)
	}
	return count, nil
}

// DeleteRunsBefore deletes historical runs.
func (s *Store) DeleteRunsBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteRunsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete runs before: %w", execErr)
	}
	return nil
}

func scanPredictionRun(rows pgx.Rows) (PredictionRun, error) {
	var (
		run      PredictionRun
		entityID sql.NullString
		payload  json.RawMessage
		result   json.RawMessage
	)

	if err := rows.Scan(
		&run.ID,
		&run.Kind,
		&entityID,
		&payload,
		&result,
		&run.Summary,
		&run.CreatedAt,
	); err != nil {
		return PredictionRun{}, err
	}

	run.Payload = payload
	run.Result = result
	if entityID.Valid {
		value := entityID.String
		run.EntityID = &value
	}

	return run, nil
}
