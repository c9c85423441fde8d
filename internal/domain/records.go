// Package domain defines the record model and storage contract for the coach bot.
package domain

import "time"

// WorkoutEntry is a single logged exercise result. Entries are immutable
// once written; there is no edit or delete path.
type WorkoutEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Exercise   string    `json:"exercise"`
	Category   string    `json:"category,omitempty"`
	Sets       int       `json:"sets"`
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HydrationEntry is a single logged water intake.
type HydrationEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	VolumeML   int       `json:"volume_ml"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Catalog holds a user's additions on top of the built-in reference data:
// extra exercises per category and named workout templates. The zero value
// is a valid empty catalog.
type Catalog struct {
	Exercises map[string][]string `json:"exercises,omitempty"`
	Templates map[string][]string `json:"templates,omitempty"`
}

// Clone returns a deep copy so callers can mutate freely.
func (c Catalog) Clone() Catalog {
	out := Catalog{}
	if len(c.Exercises) > 0 {
		out.Exercises = make(map[string][]string, len(c.Exercises))
		for category, names := range c.Exercises {
			out.Exercises[category] = append([]string(nil), names...)
		}
	}
	if len(c.Templates) > 0 {
		out.Templates = make(map[string][]string, len(c.Templates))
		for name, exercises := range c.Templates {
			out.Templates[name] = append([]string(nil), exercises...)
		}
	}
	return out
}
