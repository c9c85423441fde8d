// Package catalog merges the built-in exercise reference data with
// per-user additions into a single lookup used for input validation and
// menu generation.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"example.com/fitcoach/internal/domain"
)

//go:embed builtin.yaml
var builtinYAML []byte

// ExerciseSpec is a built-in exercise with set/rep guidance.
type ExerciseSpec struct {
	Name string `yaml:"name"`
	Sets int    `yaml:"sets"`
	Reps string `yaml:"reps"`
}

// CategorySpec groups built-in exercises under a named category.
type CategorySpec struct {
	Name      string         `yaml:"name"`
	Exercises []ExerciseSpec `yaml:"exercises"`
}

// TemplateSpec is a built-in workout template.
type TemplateSpec struct {
	Name      string   `yaml:"name"`
	Exercises []string `yaml:"exercises"`
}

type builtin struct {
	Categories []CategorySpec `yaml:"categories"`
	Templates  []TemplateSpec `yaml:"templates"`
}

// Resolver combines the embedded reference catalog with user-defined
// additions loaded through the record store.
type Resolver struct {
	repo    domain.Repository
	builtin builtin
}

// NewResolver parses the embedded seed and constructs a Resolver.
func NewResolver(repo domain.Repository) (*Resolver, error) {
	var seed builtin
	if err := yaml.Unmarshal(builtinYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse builtin catalog: %w", err)
	}
	if len(seed.Categories) == 0 {
		return nil, fmt.Errorf("builtin catalog has no categories")
	}
	return &Resolver{repo: repo, builtin: seed}, nil
}

// Categories returns the fixed built-in category names in seed order.
// New user exercises may only be added under one of these.
func (r *Resolver) Categories() []string {
	out := make([]string, 0, len(r.builtin.Categories))
	for _, c := range r.builtin.Categories {
		out = append(out, c.Name)
	}
	return out
}

// CategoryGuide returns the built-in set/rep guidance for a category, or
// nil when the category is unknown.
func (r *Resolver) CategoryGuide(name string) []ExerciseSpec {
	for _, c := range r.builtin.Categories {
		if c.Name == name {
			return c.Exercises
		}
	}
	return nil
}

// View is a merged, read-only snapshot of built-in and user catalog data.
type View struct {
	categories []string
	exercises  map[string][]string // category -> names, built-ins first
	owner      map[string]string   // exercise name -> category
	templates  map[string][]string
}

// Resolve merges built-ins with the user's additions. Within each
// category user additions are appended after built-ins; duplicates are
// suppressed by exact name match.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*View, error) {
	userCatalog, err := r.repo.GetCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user catalog: %w", err)
	}

	view := &View{
		exercises: make(map[string][]string),
		owner:     make(map[string]string),
		templates: make(map[string][]string),
	}

	for _, c := range r.builtin.Categories {
		view.categories = append(view.categories, c.Name)
		for _, ex := range c.Exercises {
			view.add(c.Name, ex.Name)
		}
	}
	for _, c := range r.builtin.Categories {
		for _, name := range userCatalog.Exercises[c.Name] {
			view.add(c.Name, name)
		}
	}
	for _, t := range r.builtin.Templates {
		view.templates[t.Name] = append([]string(nil), t.Exercises...)
	}
	for name, exercises := range userCatalog.Templates {
		view.templates[name] = append([]string(nil), exercises...)
	}

	return view, nil
}

func (v *View) add(category, name string) {
	if slices.Contains(v.exercises[category], name) {
		return
	}
	v.exercises[category] = append(v.exercises[category], name)
	if _, ok := v.owner[name]; !ok {
		v.owner[name] = category
	}
}

// Categories lists category names in seed order.
func (v *View) Categories() []string {
	return append([]string(nil), v.categories...)
}

// ExercisesIn lists the exercises of one category, built-ins first.
func (v *View) ExercisesIn(category string) []string {
	return append([]string(nil), v.exercises[category]...)
}

// AllExercises lists every exercise across categories in catalog order.
func (v *View) AllExercises() []string {
	var out []string
	for _, category := range v.categories {
		out = append(out, v.exercises[category]...)
	}
	return out
}

// HasExercise reports whether the exact name exists anywhere in the catalog.
func (v *View) HasExercise(name string) bool {
	_, ok := v.owner[name]
	return ok
}

// CategoryOf returns the category an exercise belongs to, or empty.
func (v *View) CategoryOf(name string) string {
	return v.owner[name]
}

// Templates returns the merged template map; user templates shadow
// built-ins of the same name.
func (v *View) Templates() map[string][]string {
	out := make(map[string][]string, len(v.templates))
	for name, exercises := range v.templates {
		out[name] = append([]string(nil), exercises...)
	}
	return out
}

// AddExercise persists a user exercise under the category. It fails with
// domain.ErrExerciseExists, without touching storage, when the exact name
// is already present in that category (built-in or user-added).
func (r *Resolver) AddExercise(ctx context.Context, userID, category, name string) error {
	view, err := r.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(view.exercises[category], name) {
		return domain.ErrExerciseExists
	}

	userCatalog, err := r.repo.GetCatalog(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user catalog: %w", err)
	}
	if userCatalog.Exercises == nil {
		userCatalog.Exercises = make(map[string][]string)
	}
	userCatalog.Exercises[category] = append(userCatalog.Exercises[category], name)

	if err := r.repo.PutCatalog(ctx, userID, userCatalog); err != nil {
		return fmt.Errorf("store user catalog: %w", err)
	}
	return nil
}

// AddTemplate persists a named workout template. A template with the same
// name overwrites the previous one; the returned flag reports whether an
// existing template was replaced.
func (r *Resolver) AddTemplate(ctx context.Context, userID, name string, exercises []string) (bool, error) {
	userCatalog, err := r.repo.GetCatalog(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user catalog: %w", err)
	}
	if userCatalog.Templates == nil {
		userCatalog.Templates = make(map[string][]string)
	}
	_, replaced := userCatalog.Templates[name]
	userCatalog.Templates[name] = append([]string(nil), exercises...)

	if err := r.repo.PutCatalog(ctx, userID, userCatalog); err != nil {
		return false, fmt.Errorf("store user catalog: %w", err)
	}
	return replaced, nil
}
