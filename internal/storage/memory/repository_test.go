package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitcoach/internal/domain"
)

func TestWorkoutRoundTripPreservesOrderAndValues(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	var want []domain.WorkoutEntry
	for i := 0; i < 10; i++ {
		entry := domain.WorkoutEntry{
			ID:         fmt.Sprintf("id-%d", i),
			UserID:     "u1",
			Exercise:   fmt.Sprintf("Exercise %d", i%3),
			Sets:       i + 1,
			Weight:     float64(i) * 2.5,
			RecordedAt: time.Date(2026, time.March, 1, i, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.AppendWorkout(ctx, entry))
		want = append(want, entry)
	}

	got, err := repo.ListWorkouts(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUnseenUserReadsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	workouts, err := repo.ListWorkouts(ctx, "ghost")
	require.NoError(t, err)
	require.Empty(t, workouts)

	hydration, err := repo.ListHydration(ctx, "ghost")
	require.NoError(t, err)
	require.Empty(t, hydration)

	catalog, err := repo.GetCatalog(ctx, "ghost")
	require.NoError(t, err)
	require.Empty(t, catalog.Exercises)
	require.Empty(t, catalog.Templates)
}

func TestConcurrentAppendsStayIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	const perUser = 50
	var wg sync.WaitGroup
	for _, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				_ = repo.AppendWorkout(ctx, domain.WorkoutEntry{
					ID:       fmt.Sprintf("%s-%d", user, i),
					UserID:   user,
					Exercise: "Squat",
					Sets:     3,
				})
			}
		}(user)
	}
	wg.Wait()

	for _, user := range []string{"u1", "u2"} {
		entries, err := repo.ListWorkouts(ctx, user)
		require.NoError(t, err)
		require.Len(t, entries, perUser)
		for i, entry := range entries {
			require.Equal(t, user, entry.UserID, "no cross-user interleaving")
			require.Equal(t, fmt.Sprintf("%s-%d", user, i), entry.ID, "per-user order preserved")
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	require.NoError(t, repo.AppendWorkout(ctx, domain.WorkoutEntry{ID: "1", UserID: "u1", Exercise: "Squat"}))

	first, err := repo.ListWorkouts(ctx, "u1")
	require.NoError(t, err)
	first[0].Exercise = "mutated"

	second, err := repo.ListWorkouts(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Squat", second[0].Exercise)
}

func TestCatalogPutGetIsDeepCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	catalog := domain.Catalog{Exercises: map[string][]string{"Core": {"Plank"}}}
	require.NoError(t, repo.PutCatalog(ctx, "u1", catalog))

	catalog.Exercises["Core"][0] = "mutated"

	stored, err := repo.GetCatalog(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"Plank"}, stored.Exercises["Core"])
}
