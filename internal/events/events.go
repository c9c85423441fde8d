// Package events publishes record notifications to Kafka. Publishing is
// best-effort fan-out for downstream consumers; failures are logged and
// never surfaced into a user's dialogue.
package events

import "time"

// Topic names for record notifications.
const (
	TopicWorkoutRecorded   = "workout_recorded"
	TopicHydrationRecorded = "hydration_recorded"
)

// WorkoutRecorded is emitted after a workout entry is durably stored.
type WorkoutRecorded struct {
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	Exercise   string    `json:"exercise"`
	Category   string    `json:"category,omitempty"`
	Sets       int       `json:"sets"`
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HydrationRecorded is emitted after a hydration entry is durably stored.
type HydrationRecorded struct {
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	VolumeML   int       `json:"volume_ml"`
	RecordedAt time.Time `json:"recorded_at"`
}
