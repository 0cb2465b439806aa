package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for catalog repository errors.
var (
	ErrNotFound     = errors.New("not found in catalog")
	ErrInvalidRole  = errors.New("invalid role: id required and productivity multiplier must be > 0")
	ErrInvalidEntry = errors.New("invalid entry: id required and estimate hours must be >= 0")
)

// ReferentialIntegrityError blocks a delete while live references remain.
type ReferentialIntegrityError struct {
	EntityType            string   `json:"entityType"`
	ID                    string   `json:"id"`
	ReferencingEntryNames []string `json:"referencingEntryNames"`
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %q is still referenced by: %s",
		e.EntityType, e.ID, strings.Join(e.ReferencingEntryNames, ", "))
}

// InvalidRoleReferenceError blocks an entry save that points at roles the
// catalog does not know. All unknown ids are reported, not just the first.
type InvalidRoleReferenceError struct {
	EntryID        string   `json:"entryId"`
	InvalidRoleIDs []string `json:"invalidRoleIds"`
}

func (e *InvalidRoleReferenceError) Error() string {
	return fmt.Sprintf("entry %q references unknown roles: %s",
		e.EntryID, strings.Join(e.InvalidRoleIDs, ", "))
}
