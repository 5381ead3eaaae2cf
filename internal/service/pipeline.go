package service

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pageza/receitas/backend/internal/model"
)

// TagMode selects how a tag selection shapes the listing
type TagMode string

const (
	// TagModeFilter hides recipes that carry none of the selected tags
	TagModeFilter TagMode = "filter"
	// TagModeBoost keeps every recipe but lists tag matches first
	TagModeBoost TagMode = "boost"
)

// ParseTagMode maps a query value to a TagMode; empty means filter
func ParseTagMode(s string) (TagMode, error) {
	switch TagMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TagModeFilter:
		return TagModeFilter, nil
	case TagModeBoost:
		return TagModeBoost, nil
	default:
		return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown tag mode %q", s)}
	}
}

// ListOptions are the user's listing controls
type ListOptions struct {
	Tags  []string
	Query string
	Mode  TagMode
}

type ranked struct {
	recipe   model.Recipe
	priority bool
}

// FilterRecipes applies tag selection, name search and ordering to a
// materialized recipe set. Recipes matching a selected tag come first, then
// newer before older; ties keep their input order. The input is not
// modified.
func FilterRecipes(recipes []model.Recipe, opts ListOptions) []model.Recipe {
	selected := make(map[string]struct{})
	for _, t := range model.NormalizeList(opts.Tags) {
		selected[t] = struct{}{}
	}

	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(opts.Query))

	seen := make(map[string]struct{}, len(recipes))
	out := make([]ranked, 0, len(recipes))
	for _, r := range recipes {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		match := r.HasAnyTag(selected)
		if len(selected) > 0 && opts.Mode != TagModeBoost && !match {
			continue
		}
		if query != "" && !strings.Contains(fold.String(r.Name), query) {
			continue
		}
		out = append(out, ranked{recipe: r, priority: match})
	}

	slices.SortStableFunc(out, func(a, b ranked) int {
		if a.priority != b.priority {
			if a.priority {
				return -1
			}
			return 1
		}
		return b.recipe.CreatedAt.Compare(a.recipe.CreatedAt)
	})

	result := make([]model.Recipe, len(out))
	for i, r := range out {
		result[i] = r.recipe
	}
	return result
}
