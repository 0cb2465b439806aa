// Package query filters catalog entries for presentation to callers.
package query

import (
	"context"
	"strings"

	"github.com/scopeworks/estimator/internal/domain/model"
)

// Filter holds the optional predicates applied to the entry list. Category
// and TechStack match exactly (case-insensitive); Tag is set membership.
// Empty fields are not applied.
type Filter struct {
	Category  string `json:"category,omitempty"`
	TechStack string `json:"techStack,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// Result echoes the applied filters back alongside the matches so callers
// can see exactly what was filtered.
type Result struct {
	Entries        []model.CatalogEntry `json:"entries"`
	AppliedFilters Filter               `json:"appliedFilters"`
	TotalCount     int                  `json:"totalCount"`
}

// Entries returns the subset of entries matching every predicate in f.
// No ranking, no fuzzy matching: an entry either matches or it does not.
func Entries(_ context.Context, entries []model.CatalogEntry, f Filter) Result {
	matched := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
			continue
		}
		if f.TechStack != "" && !strings.EqualFold(e.TechStack, f.TechStack) {
			continue
		}
		if f.Tag != "" && !e.HasTag(f.Tag) {
			continue
		}
		matched = append(matched, e)
	}
	return Result{
		Entries:        matched,
		AppliedFilters: f,
		TotalCount:     len(matched),
	}
}
