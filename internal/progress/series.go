// Package progress turns stored history into chart-ready series and
// renders them as PNG images.
package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"example.com/fitcoach/internal/domain"
)

// WeightPoint is one recorded weight at a point in time.
type WeightPoint struct {
	At     time.Time
	Weight float64
}

// DayVolume is the summed hydration volume for one calendar day.
type DayVolume struct {
	Day      time.Time
	VolumeML int
}

// Aggregator computes series from the record store. Both series are pure
// functions of the store's current contents; nothing is cached.
type Aggregator struct {
	repo domain.Repository
}

// NewAggregator constructs an Aggregator.
func NewAggregator(repo domain.Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// WorkoutSeries maps exercise name to its time-ordered (timestamp, weight)
// points. Exercises with fewer than two recorded points are omitted; a
// single dot is not a trend. Returns domain.ErrNoData when nothing
// qualifies.
func (a *Aggregator) WorkoutSeries(ctx context.Context, userID string) (map[string][]WeightPoint, error) {
	entries, err := a.repo.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	grouped := make(map[string][]WeightPoint)
	for _, entry := range entries {
		grouped[entry.Exercise] = append(grouped[entry.Exercise], WeightPoint{
			At:     entry.RecordedAt,
			Weight: entry.Weight,
		})
	}

	series := make(map[string][]WeightPoint)
	for exercise, points := range grouped {
		if len(points) < 2 {
			continue
		}
		sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
		series[exercise] = points
	}

	if len(series) == 0 {
		return nil, domain.ErrNoData
	}
	return series, nil
}

// SortedExercises returns the series keys in stable alphabetical order so
// charts render in a deterministic sequence.
func SortedExercises(series map[string][]WeightPoint) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HydrationSeries returns per-day summed volume in calendar order.
// Multiple entries on the same day collapse into one point. Returns
// domain.ErrNoData when the user has no hydration history.
func (a *Aggregator) HydrationSeries(ctx context.Context, userID string) ([]DayVolume, error) {
	entries, err := a.repo.ListHydration(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list hydration: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrNoData
	}

	byDay := make(map[time.Time]int)
	for _, entry := range entries {
		day := entry.RecordedAt.Truncate(24 * time.Hour)
		byDay[day] += entry.VolumeML
	}

	series := make([]DayVolume, 0, len(byDay))
	for day, volume := range byDay {
		series = append(series, DayVolume{Day: day, VolumeML: volume})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series, nil
}
