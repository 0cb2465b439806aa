// Package estimate computes project estimates from size selections against a
// catalog snapshot. The calculator is pure: it performs no I/O, never mutates
// its inputs, and is safe to call concurrently.
package estimate

import (
	"context"
	"math"
	"sort"

	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/sizing"
)

// Default calculation constants.
const (
	defaultHoursPerDay = 8.0
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithHoursPerDay sets the divisor for the hours-to-days conversion.
func WithHoursPerDay(hours float64) Option {
	return func(c *Calculator) {
		if hours > 0 {
			c.hoursPerDay = hours
		}
	}
}

// RoleLine is the per-role contribution of a single sized feature.
type RoleLine struct {
	RoleID                 string  `json:"roleId"`
	RoleName               string  `json:"roleName"`
	BaseHours              float64 `json:"baseHours"`
	SizeMultiplier         float64 `json:"sizeMultiplier"`
	SizedHours             float64 `json:"sizedHours"`
	ProductivityMultiplier float64 `json:"productivityMultiplier"`
	FinalHours             float64 `json:"finalHours"`
}

// FeatureBreakdown is the full per-role breakdown for one selection.
type FeatureBreakdown struct {
	FeatureID string      `json:"featureId"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Size      sizing.Size `json:"size"`
	Roles     []RoleLine  `json:"roles"`
}

// RoleTotal aggregates one role's hours across all selections.
type RoleTotal struct {
	RoleID     string  `json:"roleId"`
	RoleName   string  `json:"roleName"`
	SizedHours float64 `json:"sizedHours"`
	FinalHours float64 `json:"finalHours"`
	FinalDays  float64 `json:"finalDays"`
}

// GrandTotal sums across all roles.
type GrandTotal struct {
	SizedHours float64 `json:"sizedHours"`
	FinalHours float64 `json:"finalHours"`
	FinalDays  float64 `json:"finalDays"`
}

// Breakdown is the complete result of a calculation.
type Breakdown struct {
	Features   []FeatureBreakdown `json:"perFeatureBreakdown"`
	RoleTotals []RoleTotal        `json:"perRoleTotals"`
	Grand      GrandTotal         `json:"grandTotals"`
}

// Calculator translates size selections into estimate breakdowns.
type Calculator struct {
	hoursPerDay float64
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		hoursPerDay: defaultHoursPerDay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate validates every selection against the snapshot and, only if all
// of them validate, produces the full breakdown. Validation problems are
// collected exhaustively and returned together as ValidationErrors; a
// partial breakdown is never produced.
func (c *Calculator) Calculate(_ context.Context, snap *model.CatalogSnapshot, selections []model.SizeSelection) (*Breakdown, error) {
	var verrs ValidationErrors

	if len(selections) == 0 {
		verrs = append(verrs, ValidationError{
			Code:    CodeEmptySelections,
			Message: "at least one feature selection is required",
		})
		return nil, verrs
	}

	// First pass: resolve every selection, accumulating all problems.
	type resolved struct {
		entry model.CatalogEntry
		size  sizing.Size
	}
	resolvedSelections := make([]resolved, 0, len(selections))
	for _, sel := range selections {
		entry, found := snap.Entry(sel.FeatureID)
		if !found {
			verrs = append(verrs, ValidationError{
				Code:      CodeUnknownFeature,
				FeatureID: sel.FeatureID,
				Message:   "unknown feature id: " + sel.FeatureID,
			})
		}
		size, err := sizing.Parse(sel.Size)
		if err != nil {
			verrs = append(verrs, ValidationError{
				Code:      CodeInvalidSize,
				FeatureID: sel.FeatureID,
				Size:      sel.Size,
				Message:   "invalid size " + sel.Size + ": must be one of XS, S, M, L, XL",
			})
		}
		if found && err == nil {
			for _, re := range entry.MediumEstimates {
				if _, ok := snap.Role(re.RoleID); !ok {
					verrs = append(verrs, ValidationError{
						Code:      CodeUnknownRole,
						FeatureID: sel.FeatureID,
						Message:   "entry " + entry.ID + " references unknown role " + re.RoleID,
					})
				}
			}
			resolvedSelections = append(resolvedSelections, resolved{entry: entry, size: size})
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	// Totals accumulate unrounded values; rounding happens exactly once at
	// the end so per-feature rounding error never compounds.
	type accum struct {
		roleName string
		sized    float64
		final    float64
	}
	totals := make(map[string]*accum)

	out := &Breakdown{
		Features: make([]FeatureBreakdown, 0, len(resolvedSelections)),
	}
	for _, rs := range resolvedSelections {
		fb := FeatureBreakdown{
			FeatureID: rs.entry.ID,
			Name:      rs.entry.Name,
			Category:  rs.entry.Category,
			Size:      rs.size,
			Roles:     make([]RoleLine, 0, len(rs.entry.MediumEstimates)),
		}
		mult := rs.size.Multiplier()
		for _, re := range rs.entry.MediumEstimates {
			role, _ := snap.Role(re.RoleID)
			sized := re.Hours * mult
			final := sized * role.ProductivityMultiplier

			fb.Roles = append(fb.Roles, RoleLine{
				RoleID:                 role.ID,
				RoleName:               role.Name,
				BaseHours:              re.Hours,
				SizeMultiplier:         mult,
				SizedHours:             round1(sized),
				ProductivityMultiplier: role.ProductivityMultiplier,
				FinalHours:             round1(final),
			})

			a, ok := totals[role.ID]
			if !ok {
				a = &accum{roleName: role.Name}
				totals[role.ID] = a
			}
			a.sized += sized
			a.final += final
		}
		out.Features = append(out.Features, fb)
	}

	var grandSized, grandFinal float64
	out.RoleTotals = make([]RoleTotal, 0, len(totals))
	for id, a := range totals {
		out.RoleTotals = append(out.RoleTotals, RoleTotal{
			RoleID:     id,
			RoleName:   a.roleName,
			SizedHours: round1(a.sized),
			FinalHours: round1(a.final),
			FinalDays:  round1(a.final / c.hoursPerDay),
		})
		grandSized += a.sized
		grandFinal += a.final
	}
	// Presentation order: heaviest roles first, ties broken by id so the
	// output is deterministic.
	sort.Slice(out.RoleTotals, func(i, j int) bool {
		if out.RoleTotals[i].FinalHours != out.RoleTotals[j].FinalHours {
			return out.RoleTotals[i].FinalHours > out.RoleTotals[j].FinalHours
		}
		return out.RoleTotals[i].RoleID < out.RoleTotals[j].RoleID
	})

	out.Grand = GrandTotal{
		SizedHours: round1(grandSized),
		FinalHours: round1(grandFinal),
		FinalDays:  round1(grandFinal / c.hoursPerDay),
	}
	return out, nil
}

// round1 rounds to one decimal place for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
