// Package memory stores user records in memory for local development and tests.
package memory

import (
	"context"
	"sync"

	"example.com/fitcoach/internal/domain"
)

// Repository implements domain.Repository with mutex-guarded maps. Each
// user's collections live under their own key, so appends for one user
// never touch another's slices.
type Repository struct {
	mu        sync.RWMutex
	workouts  map[string][]domain.WorkoutEntry
	hydration map[string][]domain.HydrationEntry
	catalogs  map[string]domain.Catalog
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		workouts:  make(map[string][]domain.WorkoutEntry),
		hydration: make(map[string][]domain.HydrationEntry),
		catalogs:  make(map[string]domain.Catalog),
	}
}

// AppendWorkout implements domain.Repository.
func (r *Repository) AppendWorkout(ctx context.Context, entry domain.WorkoutEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workouts[entry.UserID] = append(r.workouts[entry.UserID], entry)
	return nil
}

// ListWorkouts returns the user's entries in creation order.
func (r *Repository) ListWorkouts(ctx context.Context, userID string) ([]domain.WorkoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.workouts[userID]
	out := make([]domain.WorkoutEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// AppendHydration implements domain.Repository.
func (r *Repository) AppendHydration(ctx context.Context, entry domain.HydrationEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydration[entry.UserID] = append(r.hydration[entry.UserID], entry)
	return nil
}

// ListHydration returns the user's entries in creation order.
func (r *Repository) ListHydration(ctx context.Context, userID string) ([]domain.HydrationEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.hydration[userID]
	out := make([]domain.HydrationEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// GetCatalog returns a copy of the user's catalog; empty for unseen users.
func (r *Repository) GetCatalog(ctx context.Context, userID string) (domain.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalogs[userID].Clone(), nil
}

// PutCatalog replaces the user's catalog document.
func (r *Repository) PutCatalog(ctx context.Context, userID string, catalog domain.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[userID] = catalog.Clone()
	return nil
}
