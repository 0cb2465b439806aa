// Package snapshot maps between a directory of immutable catalog files and
// CatalogSnapshot values. Files are append-only: a save always produces a
// new timestamped file and never rewrites an existing snapshot.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/pkg/logger"
	"github.com/scopeworks/estimator/pkg/metrics"
)

// Filename convention: catalog-<UTC timestamp, colons replaced>.json.
// The stamp is zero-padded and Z-suffixed so lexicographic filename order
// matches chronological order, but selection still goes through the parsed
// timestamp (see latest) to survive foreign files in the directory.
const (
	filePrefix  = "catalog-"
	fileSuffix  = ".json"
	stampLayout = "2006-01-02T15-04-05Z"
	filePerm    = 0o644
	dirPerm     = 0o755
	nsPerMs     = 1e6
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithClock overrides the clock used to stamp saved snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// FileStore reads and writes catalog snapshot files. It holds no state
// beyond its clock: every LoadLatest re-reads the disk.
type FileStore struct {
	now func() time.Time
}

// NewFileStore creates a FileStore with configuration options.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadLatest returns the snapshot with the greatest timestamp among all
// catalog files in dir. Returns ErrNotFound if the directory is missing or
// holds no catalog files, and ErrParse if the selected file is malformed.
func (s *FileStore) LoadLatest(ctx context.Context, dir string) (*model.CatalogSnapshot, error) {
	start := time.Now()

	name, err := s.latest(ctx, dir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrNotFound, path, err)
	}

	var snap model.CatalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	metrics.RecordSnapshotLoad(float64(time.Since(start).Nanoseconds()) / nsPerMs)
	return &snap, nil
}

// Save stamps the snapshot with the current UTC time and a fresh version,
// then writes it under a filename derived from that timestamp. Two saves
// within the same clock second collide on the filename; the later write
// wins, which is accepted behavior for this store.
func (s *FileStore) Save(ctx context.Context, dir string, snap *model.CatalogSnapshot) (string, error) {
	start := time.Now()

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrWrite, dir, err)
	}

	stamped := *snap
	stamped.Timestamp = s.now().UTC().Truncate(time.Second)
	stamped.Version = uuid.NewString()

	data, err := json.MarshalIndent(&stamped, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode snapshot: %w", ErrWrite, err)
	}

	path := filepath.Join(dir, filePrefix+stamped.Timestamp.Format(stampLayout)+fileSuffix)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrWrite, path, err)
	}

	// Reflect the stamp back to the caller only after the write succeeded.
	snap.Timestamp = stamped.Timestamp
	snap.Version = stamped.Version

	metrics.RecordSnapshotSave(float64(time.Since(start).Nanoseconds()) / nsPerMs)
	logger.Get().Debug(ctx, "snapshot persisted",
		logger.String("path", path),
		logger.String("version", stamped.Version),
	)
	return path, nil
}

// latest picks the catalog filename with the greatest parsed timestamp.
// Selection is by parsed value, not raw string order: a foreign file whose
// name happens to sort high can never shadow a real snapshot. Ties on the
// parsed stamp fall back to the lexicographically greater name.
func (s *FileStore) latest(ctx context.Context, dir string) (string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, dir, err)
	}

	var (
		bestName  string
		bestStamp time.Time
	)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		stamp, perr := time.Parse(stampLayout, raw)
		if perr != nil {
			logger.Get().Warn(ctx, "skipping catalog file with unparseable timestamp",
				logger.String("file", name),
			)
			continue
		}
		if bestName == "" || stamp.After(bestStamp) || (stamp.Equal(bestStamp) && name > bestName) {
			bestName = name
			bestStamp = stamp
		}
	}
	if bestName == "" {
		return "", fmt.Errorf("%w: no catalog files in %s", ErrNotFound, dir)
	}
	return bestName, nil
}

// IsNotFound reports whether err is the store's not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
