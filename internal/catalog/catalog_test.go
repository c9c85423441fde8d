package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/storage/memory"
)

func newTestResolver(t *testing.T) (*Resolver, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	resolver, err := NewResolver(repo)
	require.NoError(t, err)
	return resolver, repo
}

func TestBuiltinSeedParses(t *testing.T) {
	resolver, _ := newTestResolver(t)

	categories := resolver.Categories()
	require.Equal(t, []string{"Upper Body", "Lower Body", "Core", "Endurance"}, categories)

	guide := resolver.CategoryGuide("Core")
	require.NotEmpty(t, guide)
	require.Equal(t, "Hanging Leg Raise", guide[0].Name)
	require.Equal(t, 4, guide[0].Sets)

	require.Nil(t, resolver.CategoryGuide("Swimming"))
}

func TestResolveMergesUserAdditionsAfterBuiltins(t *testing.T) {
	resolver, repo := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCatalog(ctx, "u1", domain.Catalog{
		Exercises: map[string][]string{"Core": {"Dead Bug"}},
	}))

	view, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)

	core := view.ExercisesIn("Core")
	require.Equal(t, "Dead Bug", core[len(core)-1], "user additions come after built-ins")
	require.True(t, view.HasExercise("Dead Bug"))
	require.Equal(t, "Core", view.CategoryOf("Dead Bug"))

	// Another user does not see u1's additions.
	other, err := resolver.Resolve(ctx, "u2")
	require.NoError(t, err)
	require.False(t, other.HasExercise("Dead Bug"))
}

func TestResolveSuppressesDuplicates(t *testing.T) {
	resolver, repo := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCatalog(ctx, "u1", domain.Catalog{
		Exercises: map[string][]string{"Core": {"Plank"}}, // duplicates a built-in
	}))

	view, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)

	count := 0
	for _, name := range view.ExercisesIn("Core") {
		if name == "Plank" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestAddExerciseRejectsDuplicateWithoutWriting(t *testing.T) {
	resolver, repo := newTestResolver(t)
	ctx := context.Background()

	err := resolver.AddExercise(ctx, "u1", "Core", "Plank")
	require.ErrorIs(t, err, domain.ErrExerciseExists)

	stored, err := repo.GetCatalog(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, stored.Exercises, "failed add must not mutate storage")

	require.NoError(t, resolver.AddExercise(ctx, "u1", "Core", "Dead Bug"))
	err = resolver.AddExercise(ctx, "u1", "Core", "Dead Bug")
	require.ErrorIs(t, err, domain.ErrExerciseExists, "second add of same name fails")

	stored, err = repo.GetCatalog(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"Dead Bug"}, stored.Exercises["Core"])
}

func TestDuplicateCheckIsCaseSensitive(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, resolver.AddExercise(ctx, "u1", "Core", "plank"))
}

func TestSameNameAllowedAcrossCategories(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	// "Plank" is built-in under Core; another category may carry it too.
	require.NoError(t, resolver.AddExercise(ctx, "u1", "Endurance", "Plank"))
}

func TestAddTemplateLastWriterWins(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	replaced, err := resolver.AddTemplate(ctx, "u1", "Quick Start", []string{"Plank", "Burpee"})
	require.NoError(t, err)
	require.False(t, replaced)

	replaced, err = resolver.AddTemplate(ctx, "u1", "Quick Start", []string{"Lunge"})
	require.NoError(t, err)
	require.True(t, replaced)

	view, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"Lunge"}, view.Templates()["Quick Start"])
}

func TestViewTemplatesIncludeBuiltins(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	view, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)

	templates := view.Templates()
	require.Contains(t, templates, "Arm Day")
	require.NotEmpty(t, templates["Arm Day"])
}
