package domain

import (
	"context"
	"errors"
)

var (
	// ErrExerciseExists indicates the exercise name is already present in the category.
	ErrExerciseExists = errors.New("exercise already exists in category")
	// ErrNoData distinguishes "nothing recorded yet" from a storage failure.
	ErrNoData = errors.New("no data recorded")
)

// Repository captures per-user persistence. Each user's collections are
// independent: appends for one user are never visible in another's reads,
// and a never-seen user reads back empty collections, not an error.
//
// Append operations are atomic with respect to the user's prior state: a
// successful append is durably visible to the next read, a failed append
// leaves prior data unchanged.
type Repository interface {
	AppendWorkout(ctx context.Context, entry WorkoutEntry) error
	ListWorkouts(ctx context.Context, userID string) ([]WorkoutEntry, error)
	AppendHydration(ctx context.Context, entry HydrationEntry) error
	ListHydration(ctx context.Context, userID string) ([]HydrationEntry, error)
	GetCatalog(ctx context.Context, userID string) (Catalog, error)
	PutCatalog(ctx context.Context, userID string, catalog Catalog) error
}
