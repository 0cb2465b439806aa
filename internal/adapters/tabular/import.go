package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/scopeworks/estimator/internal/domain/model"
)

// ReadCatalog parses a role file and an entry file into a snapshot. Row
// problems never abort the parse: every bad decimal, duplicate id, missing
// required field and unknown role column is collected and returned together
// as RowErrors, each with its file name and 1-based row number. The
// returned snapshot carries no version or timestamp; persisting it is the
// caller's concern.
func ReadCatalog(rolesFile string, roles io.Reader, entriesFile string, entries io.Reader) (*model.CatalogSnapshot, error) {
	var rowErrs RowErrors

	parsedRoles, errs := readRoles(rolesFile, roles)
	rowErrs = append(rowErrs, errs...)

	roleIDs := make(map[string]struct{}, len(parsedRoles))
	for _, r := range parsedRoles {
		roleIDs[r.ID] = struct{}{}
	}

	parsedEntries, errs := readEntries(entriesFile, entries, roleIDs)
	rowErrs = append(rowErrs, errs...)

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return &model.CatalogSnapshot{
		Roles:   parsedRoles,
		Entries: parsedEntries,
	}, nil
}

func readRoles(file string, r io.Reader) ([]model.Role, RowErrors) {
	var errs RowErrors

	rows, headerLen, err := readRows(file, r, &errs)
	if err != nil {
		return nil, errs
	}
	if headerLen < len(roleHeader) {
		errs = append(errs, RowError{File: file, Row: 1, Message: "header must have columns: " + strings.Join(roleHeader, ", ")})
		return nil, errs
	}

	roles := make([]model.Role, 0, len(rows.records))
	seen := make(map[string]struct{})
	for _, row := range rows.records {
		role := model.Role{
			ID:          strings.TrimSpace(row.fields[0]),
			Name:        strings.TrimSpace(row.fields[1]),
			Description: row.fields[2],
			TechStackID: strings.TrimSpace(row.fields[4]),
		}
		ok := true
		if role.ID == "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "missing required field: id"})
			ok = false
		}
		if role.Name == "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "missing required field: name"})
			ok = false
		}
		if _, dup := seen[role.ID]; dup && role.ID != "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "duplicate role id: " + role.ID})
			ok = false
		}
		mult, err := strconv.ParseFloat(strings.TrimSpace(row.fields[3]), 64)
		switch {
		case err != nil:
			errs = append(errs, RowError{File: file, Row: row.num, Message: "bad decimal for productivityMultiplier: " + row.fields[3]})
			ok = false
		case mult <= 0:
			errs = append(errs, RowError{File: file, Row: row.num, Message: "productivityMultiplier must be > 0"})
			ok = false
		default:
			role.ProductivityMultiplier = mult
		}
		if ok {
			seen[role.ID] = struct{}{}
			roles = append(roles, role)
		}
	}
	return roles, errs
}

func readEntries(file string, r io.Reader, roleIDs map[string]struct{}) ([]model.CatalogEntry, RowErrors) {
	var errs RowErrors

	rows, headerLen, err := readRows(file, r, &errs)
	if err != nil {
		return nil, errs
	}
	if headerLen < len(entryHeaderFixed) {
		errs = append(errs, RowError{File: file, Row: 1, Message: "header must have columns: " + strings.Join(entryHeaderFixed, ", ") + ", followed by role columns"})
		return nil, errs
	}

	// Trailing header columns name the role each hour cell belongs to.
	// They are a runtime-discovered key set, validated against roles.tsv.
	roleColumns := rows.header[len(entryHeaderFixed):]
	for _, roleID := range roleColumns {
		if _, ok := roleIDs[roleID]; !ok {
			errs = append(errs, RowError{File: file, Row: 1, Message: "unknown role column: " + roleID})
		}
	}

	entries := make([]model.CatalogEntry, 0, len(rows.records))
	seen := make(map[string]struct{})
	for _, row := range rows.records {
		entry := model.CatalogEntry{
			ID:          strings.TrimSpace(row.fields[0]),
			Name:        strings.TrimSpace(row.fields[1]),
			Description: row.fields[2],
			Category:    strings.TrimSpace(row.fields[3]),
			TechStack:   strings.TrimSpace(row.fields[4]),
		}
		if tags := strings.TrimSpace(row.fields[5]); tags != "" {
			entry.Tags = strings.Split(tags, tagSeparator)
			for i := range entry.Tags {
				entry.Tags[i] = strings.TrimSpace(entry.Tags[i])
			}
		}
		ok := true
		if entry.ID == "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "missing required field: id"})
			ok = false
		}
		if entry.Name == "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "missing required field: name"})
			ok = false
		}
		if entry.Category == "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "missing required field: category"})
			ok = false
		}
		if _, dup := seen[entry.ID]; dup && entry.ID != "" {
			errs = append(errs, RowError{File: file, Row: row.num, Message: "duplicate entry id: " + entry.ID})
			ok = false
		}
		for i, roleID := range roleColumns {
			cell := strings.TrimSpace(row.fields[len(entryHeaderFixed)+i])
			if cell == "" {
				continue
			}
			hours, err := strconv.ParseFloat(cell, 64)
			switch {
			case err != nil:
				errs = append(errs, RowError{File: file, Row: row.num, Message: "bad decimal for role " + roleID + ": " + cell})
				ok = false
			case hours < 0:
				errs = append(errs, RowError{File: file, Row: row.num, Message: "hours for role " + roleID + " must be >= 0"})
				ok = false
			default:
				entry.MediumEstimates = append(entry.MediumEstimates, model.RoleEstimate{RoleID: roleID, Hours: hours})
			}
		}
		// Keep estimate order independent of column order in hand-edited files.
		sort.Slice(entry.MediumEstimates, func(i, j int) bool {
			return entry.MediumEstimates[i].RoleID < entry.MediumEstimates[j].RoleID
		})
		if ok {
			seen[entry.ID] = struct{}{}
			entries = append(entries, entry)
		}
	}
	return entries, errs
}

// parsedRow is one data row with its original 1-based position.
type parsedRow struct {
	num    int
	fields []string
}

// parsedRows bundles the header with the data rows that matched its width.
type parsedRows struct {
	header  []string
	records []parsedRow
}

// readRows consumes the TSV stream, keeping rows whose field count matches
// the header and recording a row error for each one that does not.
func readRows(file string, r io.Reader, errs *RowErrors) (parsedRows, int, error) {
	tr := csv.NewReader(r)
	tr.Comma = '\t'
	tr.FieldsPerRecord = -1 // row-width problems are reported per row, below

	all, err := tr.ReadAll()
	if err != nil {
		*errs = append(*errs, RowError{File: file, Row: 1, Message: "unreadable file: " + err.Error()})
		return parsedRows{}, 0, fmt.Errorf("%w: %s: %w", ErrParse, file, err)
	}
	if len(all) == 0 {
		*errs = append(*errs, RowError{File: file, Row: 1, Message: "missing header row"})
		return parsedRows{}, 0, errors.New("empty file")
	}

	out := parsedRows{header: all[0]}
	for i, fields := range all[1:] {
		rowNum := i + 2 // 1-based, counting the header as row 1
		if len(fields) != len(out.header) {
			*errs = append(*errs, RowError{
				File: file, Row: rowNum,
				Message: fmt.Sprintf("expected %d columns, got %d", len(out.header), len(fields)),
			})
			continue
		}
		out.records = append(out.records, parsedRow{num: rowNum, fields: fields})
	}
	return out, len(out.header), nil
}
