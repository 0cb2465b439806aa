// Package model contains the catalog domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Role describes a delivery role and its AI-assisted productivity multiplier.
// Fields mirror the JSON schema of persisted catalog snapshots.
type Role struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description,omitempty"`
	ProductivityMultiplier float64 `json:"productivityMultiplier"`
	TechStackID            string  `json:"techStackId,omitempty"`
}

// RoleEstimate is one (role, hours) pair of an entry's Medium baseline.
type RoleEstimate struct {
	RoleID string  `json:"roleId"`
	Hours  float64 `json:"hours"`
}

// CatalogEntry describes one estimable feature. Only the Medium-size
// baseline is persisted; all other sizes are derived at calculation time.
type CatalogEntry struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Category        string         `json:"category"`
	TechStack       string         `json:"techStack,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	MediumEstimates []RoleEstimate `json:"mediumEstimates"`
}

// HasTag reports whether the entry carries the given tag (case-insensitive).
func (e CatalogEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// CatalogSnapshot is one immutable, timestamped version of the full catalog.
// A snapshot is never mutated after it is persisted; every edit produces a
// brand-new snapshot with a later timestamp.
type CatalogSnapshot struct {
	Version   string         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Roles     []Role         `json:"roles"`
	Entries   []CatalogEntry `json:"entries"`
}

// Role returns the role with the given id, if present.
func (s *CatalogSnapshot) Role(id string) (Role, bool) {
	for _, r := range s.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// Entry returns the entry with the given id, if present.
func (s *CatalogSnapshot) Entry(id string) (CatalogEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// RoleIDs returns the set of role ids present in the snapshot.
func (s *CatalogSnapshot) RoleIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Roles))
	for _, r := range s.Roles {
		ids[r.ID] = struct{}{}
	}
	return ids
}

// Clone returns a deep copy. Mutations always operate on a clone so that a
// failed persist never leaves a half-edited snapshot visible to readers.
func (s *CatalogSnapshot) Clone() *CatalogSnapshot {
	c := &CatalogSnapshot{
		Version:   s.Version,
		Timestamp: s.Timestamp,
		Roles:     make([]Role, len(s.Roles)),
		Entries:   make([]CatalogEntry, len(s.Entries)),
	}
	copy(c.Roles, s.Roles)
	for i, e := range s.Entries {
		ce := e
		if e.Tags != nil {
			ce.Tags = append([]string(nil), e.Tags...)
		}
		if e.MediumEstimates != nil {
			ce.MediumEstimates = append([]RoleEstimate(nil), e.MediumEstimates...)
		}
		c.Entries[i] = ce
	}
	return c
}

// SizeSelection is a transient, request-scoped pairing of a feature with a
// T-shirt size. It is never persisted.
type SizeSelection struct {
	FeatureID string `json:"featureId"`
	Size      string `json:"size"`
}
