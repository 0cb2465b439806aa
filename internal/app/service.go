// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/scopeworks/estimator/internal/adapters/repository"
	"github.com/scopeworks/estimator/internal/adapters/snapshot"
	"github.com/scopeworks/estimator/internal/domain/estimate"
	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/query"
	"github.com/scopeworks/estimator/pkg/logger"
	"github.com/scopeworks/estimator/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultDataDir       = "data/catalogs"
	defaultMaxSelections = 100
	nsPerMs              = 1e6
)

// Service wires the snapshot store, catalog repository and estimate
// calculator together behind the interfaces the HTTP API depends on.
type Service struct {
	mu sync.Mutex

	// Core components
	store      repository.SnapshotStore
	catalog    *repository.CatalogRepository
	calculator *estimate.Calculator

	// Configuration
	dataDir       string
	hoursPerDay   float64
	maxSelections int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the catalog snapshot directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStore injects a snapshot store, replacing the default file store.
func WithStore(store repository.SnapshotStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHoursPerDay sets the hours-to-days display divisor.
func WithHoursPerDay(hours float64) Option {
	return func(s *Service) {
		if hours > 0 {
			s.hoursPerDay = hours
		}
	}
}

// WithMaxSelections caps the number of selections per estimate call.
func WithMaxSelections(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxSelections = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:       defaultDataDir,
		hoursPerDay:   0, // calculator default applies unless overridden
		maxSelections: defaultMaxSelections,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components and warms the catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = snapshot.NewFileStore()
	}
	s.catalog = repository.New(s.store, s.dataDir)

	var calcOpts []estimate.Option
	if s.hoursPerDay > 0 {
		calcOpts = append(calcOpts, estimate.WithHoursPerDay(s.hoursPerDay))
	}
	s.calculator = estimate.New(calcOpts...)

	// Warm the snapshot so a bad data directory surfaces at startup rather
	// than on the first tool call. A missing catalog is not fatal: the
	// first SaveRole/SaveEntry bootstraps one.
	if _, err := s.catalog.Snapshot(ctx); err != nil {
		if !snapshot.IsNotFound(err) {
			return err
		}
		s.logger.Warn(ctx, "no catalog snapshot found; starting with an empty catalog",
			logger.String("dataDir", s.dataDir),
		)
	}

	s.started = true
	s.logger.Info(ctx, "estimator service started",
		logger.String("dataDir", s.dataDir),
		logger.Int("maxSelections", s.maxSelections),
	)
	return nil
}

// Stop shuts the service down. The service holds no connections or
// goroutines; this only flips the started flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "estimator service stopped")
}

// Features returns catalog entries matching the filter, with the applied
// filters echoed back.
func (s *Service) Features(ctx context.Context, f query.Filter) (query.Result, error) {
	entries, err := s.catalog.Entries(ctx)
	if err != nil {
		return query.Result{}, err
	}
	return query.Entries(ctx, entries, f), nil
}

// Estimate computes the full breakdown for the given selections against the
// current catalog snapshot. Validation problems come back as
// estimate.ValidationErrors with no partial breakdown.
func (s *Service) Estimate(ctx context.Context, selections []model.SizeSelection) (*estimate.Breakdown, error) {
	if len(selections) > s.maxSelections {
		return nil, ErrTooManySelections
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	breakdown, err := s.calculator.Calculate(ctx, snap, selections)
	metrics.RecordEstimateLatency(float64(time.Since(start).Nanoseconds()) / nsPerMs)
	metrics.RecordEstimateSelections(len(selections))
	if err != nil {
		metrics.RecordEstimateValidationFailure()
		return nil, err
	}
	metrics.RecordEstimateComputed()
	return breakdown, nil
}

// Roles returns all catalog roles.
func (s *Service) Roles(ctx context.Context) ([]model.Role, error) {
	return s.catalog.Roles(ctx)
}

// Role returns one role by id.
func (s *Service) Role(ctx context.Context, id string) (model.Role, error) {
	return s.catalog.Role(ctx, id)
}

// Entries returns all catalog entries.
func (s *Service) Entries(ctx context.Context) ([]model.CatalogEntry, error) {
	return s.catalog.Entries(ctx)
}

// Entry returns one entry by id.
func (s *Service) Entry(ctx context.Context, id string) (model.CatalogEntry, error) {
	return s.catalog.Entry(ctx, id)
}

// SaveRole upserts a role through the repository.
func (s *Service) SaveRole(ctx context.Context, role model.Role) error {
	return s.catalog.SaveRole(ctx, role)
}

// DeleteRole deletes a role through the repository.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	return s.catalog.DeleteRole(ctx, id)
}

// SaveEntry upserts an entry through the repository.
func (s *Service) SaveEntry(ctx context.Context, entry model.CatalogEntry) error {
	return s.catalog.SaveEntry(ctx, entry)
}

// DeleteEntry deletes an entry through the repository.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	return s.catalog.DeleteEntry(ctx, id)
}

// Reload re-reads the latest snapshot from disk.
func (s *Service) Reload(ctx context.Context) error {
	return s.catalog.Reload(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	stats := map[string]interface{}{
		"started":       started,
		"dataDir":       s.dataDir,
		"maxSelections": s.maxSelections,
	}
	if s.catalog != nil {
		for k, v := range s.catalog.Stats() {
			stats[k] = v
		}
	}
	return stats
}
