// Package tabular maps catalog snapshots to and from a fixed TSV layout so
// catalogs can be bulk-edited in a spreadsheet and diffed as text. Export is
// deterministic: unchanged data re-exports byte-for-byte.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/scopeworks/estimator/internal/domain/model"
)

// Fixed leading columns. Entry rows continue with one column per role,
// sorted by role id ascending.
var (
	roleHeader       = []string{"id", "name", "description", "productivityMultiplier", "techStackId"}
	entryHeaderFixed = []string{"id", "name", "description", "category", "techStack", "tags"}
)

const tagSeparator = ","

// WriteRoles writes one TSV row per role, sorted by role id.
func WriteRoles(w io.Writer, roles []model.Role) error {
	sorted := append([]model.Role(nil), roles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	tw := newWriter(w)
	if err := tw.Write(roleHeader); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range sorted {
		row := []string{
			r.ID,
			r.Name,
			r.Description,
			formatDecimal(r.ProductivityMultiplier),
			r.TechStackID,
		}
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteEntries writes one TSV row per entry with trailing per-role hour
// columns. Rows are sorted by category then id; role columns by role id.
// A blank hour cell means the role has no estimate for that entry.
func WriteEntries(w io.Writer, snap *model.CatalogSnapshot) error {
	roleIDs := make([]string, 0, len(snap.Roles))
	for _, r := range snap.Roles {
		roleIDs = append(roleIDs, r.ID)
	}
	sort.Strings(roleIDs)

	entries := append([]model.CatalogEntry(nil), snap.Entries...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].ID < entries[j].ID
	})

	tw := newWriter(w)
	if err := tw.Write(append(append([]string(nil), entryHeaderFixed...), roleIDs...)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, e := range entries {
		hours := make(map[string]float64, len(e.MediumEstimates))
		for _, re := range e.MediumEstimates {
			hours[re.RoleID] = re.Hours
		}
		row := []string{
			e.ID,
			e.Name,
			e.Description,
			e.Category,
			e.TechStack,
			strings.Join(sortedTags(e.Tags), tagSeparator),
		}
		for _, id := range roleIDs {
			if h, ok := hours[id]; ok {
				row = append(row, formatDecimal(h))
			} else {
				row = append(row, "")
			}
		}
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func newWriter(w io.Writer) *csv.Writer {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'
	return tw
}

// formatDecimal renders hours and multipliers with the shortest exact form
// so a re-export never jitters between representations.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedTags(tags []string) []string {
	out := append([]string(nil), tags...)
	sort.Strings(out)
	return out
}
