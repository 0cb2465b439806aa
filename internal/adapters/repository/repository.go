// Package repository owns the one in-memory catalog snapshot and enforces
// the invariants around role and entry mutation.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scopeworks/estimator/internal/adapters/snapshot"
	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/pkg/logger"
	"github.com/scopeworks/estimator/pkg/metrics"
)

// SnapshotStore is the persistence contract the repository depends on.
// *snapshot.FileStore satisfies it.
type SnapshotStore interface {
	// LoadLatest returns the newest persisted snapshot in dir.
	LoadLatest(ctx context.Context, dir string) (*model.CatalogSnapshot, error)
	// Save persists a brand-new snapshot file and returns its path.
	Save(ctx context.Context, dir string, snap *model.CatalogSnapshot) (string, error)
}

// CatalogRepository holds one loaded snapshot between process start and the
// next mutation or explicit Reload. Readers always observe a whole snapshot:
// the reference is swapped atomically and snapshots are never edited in
// place. Mutations are serialized by a mutex because each one
// reads-validates-writes the entire snapshot.
type CatalogRepository struct {
	store SnapshotStore
	dir   string

	mu      sync.Mutex // serializes mutations and the lazy first load
	current atomic.Pointer[model.CatalogSnapshot]
}

// New creates a repository over the given store and snapshot directory.
// The snapshot is loaded lazily on first access, never auto-refreshed;
// call Reload to pick up externally written snapshots.
func New(store SnapshotStore, dir string) *CatalogRepository {
	return &CatalogRepository{
		store: store,
		dir:   dir,
	}
}

// Snapshot returns the currently loaded snapshot, loading it on first use.
// Callers must treat the result as immutable.
func (r *CatalogRepository) Snapshot(ctx context.Context) (*model.CatalogSnapshot, error) {
	if snap := r.current.Load(); snap != nil {
		return snap, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have completed the load while we waited.
	if snap := r.current.Load(); snap != nil {
		return snap, nil
	}

	snap, err := r.store.LoadLatest(ctx, r.dir)
	if err != nil {
		return nil, err
	}
	r.install(snap)
	logger.Get().Info(ctx, "catalog snapshot loaded",
		logger.String("version", snap.Version),
		logger.Int("roles", len(snap.Roles)),
		logger.Int("entries", len(snap.Entries)),
	)
	return snap, nil
}

// Reload discards the in-memory snapshot and re-reads the latest from disk.
func (r *CatalogRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.store.LoadLatest(ctx, r.dir)
	if err != nil {
		return err
	}
	r.install(snap)
	return nil
}

// Roles returns all roles in the current snapshot.
func (r *CatalogRepository) Roles(ctx context.Context) ([]model.Role, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Roles, nil
}

// Role returns one role by id; ErrNotFound if absent.
func (r *CatalogRepository) Role(ctx context.Context, id string) (model.Role, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return model.Role{}, err
	}
	role, ok := snap.Role(id)
	if !ok {
		return model.Role{}, ErrNotFound
	}
	return role, nil
}

// Entries returns all entries in the current snapshot.
func (r *CatalogRepository) Entries(ctx context.Context) ([]model.CatalogEntry, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Entries, nil
}

// Entry returns one entry by id; ErrNotFound if absent.
func (r *CatalogRepository) Entry(ctx context.Context, id string) (model.CatalogEntry, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return model.CatalogEntry{}, err
	}
	entry, ok := snap.Entry(id)
	if !ok {
		return model.CatalogEntry{}, ErrNotFound
	}
	return entry, nil
}

// SaveRole upserts a role by id and persists a new snapshot. The role must
// carry an id and a productivity multiplier greater than zero; values above
// 1.0 (slower than baseline) are accepted but logged.
func (r *CatalogRepository) SaveRole(ctx context.Context, role model.Role) error {
	if role.ID == "" || role.ProductivityMultiplier <= 0 {
		return ErrInvalidRole
	}
	if role.ProductivityMultiplier > 1 {
		logger.Get().Warn(ctx, "role multiplier above baseline",
			logger.String("roleId", role.ID),
			logger.Float64("productivityMultiplier", role.ProductivityMultiplier),
		)
	}

	return r.mutate(ctx, "save_role", func(next *model.CatalogSnapshot) error {
		for i := range next.Roles {
			if next.Roles[i].ID == role.ID {
				next.Roles[i] = role
				return nil
			}
		}
		next.Roles = append(next.Roles, role)
		return nil
	})
}

// DeleteRole removes a role and persists a new snapshot. It fails with a
// ReferentialIntegrityError naming every referencing entry if any entry's
// medium estimates still point at the role; the stored snapshot is left
// untouched in that case, so retrying without changes fails identically.
func (r *CatalogRepository) DeleteRole(ctx context.Context, id string) error {
	return r.mutate(ctx, "delete_role", func(next *model.CatalogSnapshot) error {
		if _, ok := next.Role(id); !ok {
			return ErrNotFound
		}
		var referencing []string
		for _, e := range next.Entries {
			for _, re := range e.MediumEstimates {
				if re.RoleID == id {
					referencing = append(referencing, e.Name)
					break
				}
			}
		}
		if len(referencing) > 0 {
			return &ReferentialIntegrityError{
				EntityType:            "Role",
				ID:                    id,
				ReferencingEntryNames: referencing,
			}
		}
		kept := next.Roles[:0]
		for _, role := range next.Roles {
			if role.ID != id {
				kept = append(kept, role)
			}
		}
		next.Roles = kept
		return nil
	})
}

// SaveEntry upserts an entry by id and persists a new snapshot. Every role
// referenced by the entry's medium estimates must exist; violations are
// reported all at once via InvalidRoleReferenceError.
func (r *CatalogRepository) SaveEntry(ctx context.Context, entry model.CatalogEntry) error {
	if entry.ID == "" {
		return ErrInvalidEntry
	}
	for _, re := range entry.MediumEstimates {
		if re.Hours < 0 {
			return ErrInvalidEntry
		}
	}

	return r.mutate(ctx, "save_entry", func(next *model.CatalogSnapshot) error {
		known := next.RoleIDs()
		var invalid []string
		seen := make(map[string]struct{})
		for _, re := range entry.MediumEstimates {
			if _, ok := known[re.RoleID]; ok {
				continue
			}
			if _, dup := seen[re.RoleID]; dup {
				continue
			}
			seen[re.RoleID] = struct{}{}
			invalid = append(invalid, re.RoleID)
		}
		if len(invalid) > 0 {
			return &InvalidRoleReferenceError{
				EntryID:        entry.ID,
				InvalidRoleIDs: invalid,
			}
		}
		for i := range next.Entries {
			if next.Entries[i].ID == entry.ID {
				next.Entries[i] = entry
				return nil
			}
		}
		next.Entries = append(next.Entries, entry)
		return nil
	})
}

// DeleteEntry removes an entry and persists a new snapshot. Entries are
// leaves, so the removal is unconditional.
func (r *CatalogRepository) DeleteEntry(ctx context.Context, id string) error {
	return r.mutate(ctx, "delete_entry", func(next *model.CatalogSnapshot) error {
		if _, ok := next.Entry(id); !ok {
			return ErrNotFound
		}
		kept := next.Entries[:0]
		for _, e := range next.Entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		next.Entries = kept
		return nil
	})
}

// Stats reports repository state for /stats and metrics gauges.
func (r *CatalogRepository) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"loaded": false,
	}
	if snap := r.current.Load(); snap != nil {
		stats["loaded"] = true
		stats["snapshotVersion"] = snap.Version
		stats["snapshotTimestamp"] = snap.Timestamp.Format(time.RFC3339)
		stats["roleCount"] = len(snap.Roles)
		stats["entryCount"] = len(snap.Entries)
	}
	return stats
}

// mutate runs the whole validate -> apply-on-copy -> persist -> swap
// sequence under the mutation lock. The apply function edits a clone, so a
// validation or persist failure leaves the published snapshot untouched.
func (r *CatalogRepository) mutate(ctx context.Context, op string, apply func(*model.CatalogSnapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.current.Load()
	if base == nil {
		loaded, err := r.store.LoadLatest(ctx, r.dir)
		switch {
		case err == nil:
			base = loaded
			r.install(base)
		case snapshot.IsNotFound(err):
			// Fresh data directory: the first mutation bootstraps the
			// catalog from an empty snapshot.
			base = &model.CatalogSnapshot{}
		default:
			return err
		}
	}

	next := base.Clone()
	if err := apply(next); err != nil {
		return err
	}

	path, err := r.store.Save(ctx, r.dir, next)
	if err != nil {
		metrics.RecordCatalogMutationError(op)
		return err
	}
	r.install(next)

	metrics.RecordCatalogMutation(op)
	logger.Get().Info(ctx, "catalog mutated",
		logger.String("op", op),
		logger.String("version", next.Version),
		logger.String("path", path),
	)
	return nil
}

// install publishes a snapshot reference and refreshes the gauges.
func (r *CatalogRepository) install(snap *model.CatalogSnapshot) {
	r.current.Store(snap)
	metrics.UpdateCatalogRoles(len(snap.Roles))
	metrics.UpdateCatalogEntries(len(snap.Entries))
}
