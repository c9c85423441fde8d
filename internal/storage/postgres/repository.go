// Package postgres provides pgx-backed persistence for user records.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/observability"
)

// Repository provides Postgres-backed persistence for workout history,
// hydration history and per-user catalog documents.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS workout_entries (
    seq         BIGSERIAL PRIMARY KEY,
    entry_id    TEXT NOT NULL,
    user_id     TEXT NOT NULL,
    exercise    TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    sets        INT NOT NULL CHECK (sets >= 1),
    weight      DOUBLE PRECISION NOT NULL CHECK (weight >= 0),
    recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS workout_entries_user_idx ON workout_entries (user_id, seq);

CREATE TABLE IF NOT EXISTS hydration_entries (
    seq         BIGSERIAL PRIMARY KEY,
    entry_id    TEXT NOT NULL,
    user_id     TEXT NOT NULL,
    volume_ml   INT NOT NULL CHECK (volume_ml > 0),
    recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS hydration_entries_user_idx ON hydration_entries (user_id, seq);

CREATE TABLE IF NOT EXISTS user_catalogs (
    user_id    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables if they do not exist. DDL is idempotent
// so repeated startups are safe.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// AppendWorkout inserts a single workout entry. The insert is atomic; on
// failure the user's prior history is untouched.
func (r *Repository) AppendWorkout(ctx context.Context, entry domain.WorkoutEntry) error {
	const stmt = `INSERT INTO workout_entries (entry_id, user_id, exercise, category, sets, weight, recorded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.ID,
		entry.UserID,
		entry.Exercise,
		entry.Category,
		entry.Sets,
		entry.Weight,
		entry.RecordedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordEntryPersisted("workout", entry.RecordedAt)
	return nil
}

// ListWorkouts returns the user's workout entries in creation order.
func (r *Repository) ListWorkouts(ctx context.Context, userID string) ([]domain.WorkoutEntry, error) {
	const query = `SELECT entry_id, user_id, exercise, category, sets, weight, recorded_at
        FROM workout_entries WHERE user_id=$1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.WorkoutEntry
	for rows.Next() {
		var entry domain.WorkoutEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Exercise, &entry.Category, &entry.Sets, &entry.Weight, &entry.RecordedAt); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// AppendHydration inserts a single hydration entry.
func (r *Repository) AppendHydration(ctx context.Context, entry domain.HydrationEntry) error {
	const stmt = `INSERT INTO hydration_entries (entry_id, user_id, volume_ml, recorded_at)
        VALUES ($1,$2,$3,$4)`

	_, err := r.pool.Exec(ctx, stmt, entry.ID, entry.UserID, entry.VolumeML, entry.RecordedAt)
	if err != nil {
		return err
	}
	observability.RecordEntryPersisted("hydration", entry.RecordedAt)
	return nil
}

// ListHydration returns the user's hydration entries in creation order.
func (r *Repository) ListHydration(ctx context.Context, userID string) ([]domain.HydrationEntry, error) {
	const query = `SELECT entry_id, user_id, volume_ml, recorded_at
        FROM hydration_entries WHERE user_id=$1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.HydrationEntry
	for rows.Next() {
		var entry domain.HydrationEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.VolumeML, &entry.RecordedAt); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetCatalog loads the user's catalog document. A never-seen user gets an
// empty catalog, not an error.
func (r *Repository) GetCatalog(ctx context.Context, userID string) (domain.Catalog, error) {
	const query = `SELECT payload FROM user_catalogs WHERE user_id=$1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Catalog{}, nil
	}
	if err != nil {
		return domain.Catalog{}, err
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(payload, &catalog); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

// PutCatalog replaces the user's catalog document. Last writer wins.
func (r *Repository) PutCatalog(ctx context.Context, userID string, catalog domain.Catalog) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO user_catalogs (user_id, payload, updated_at)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, stmt, userID, payload, time.Now().UTC())
	return err
}
