// Package api declares HTTP contracts and route registration helpers for
// the tool-call and catalog-administration surfaces.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scopeworks/estimator/internal/domain/estimate"
	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/query"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Tool surface consumed by the calling agent.
	Features(ctx context.Context, f query.Filter) (query.Result, error)
	Estimate(ctx context.Context, selections []model.SizeSelection) (*estimate.Breakdown, error)

	// Catalog administration.
	Roles(ctx context.Context) ([]model.Role, error)
	Role(ctx context.Context, id string) (model.Role, error)
	Entries(ctx context.Context) ([]model.CatalogEntry, error)
	Entry(ctx context.Context, id string) (model.CatalogEntry, error)
	SaveRole(ctx context.Context, role model.Role) error
	DeleteRole(ctx context.Context, id string) error
	SaveEntry(ctx context.Context, entry model.CatalogEntry) error
	DeleteEntry(ctx context.Context, id string) error
	Reload(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	toolsHandler   *ToolsHandler
	catalogHandler *CatalogHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		toolsHandler:   NewToolsHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(r chi.Router) {
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/tools", func(r chi.Router) {
		r.Post("/get_catalog_features", s.toolsHandler.HandleGetCatalogFeatures)
		r.Post("/calculate_estimate", s.toolsHandler.HandleCalculateEstimate)
		r.Get("/get_instructions", s.toolsHandler.HandleGetInstructions)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Post("/reload", s.catalogHandler.HandleReload)
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", s.catalogHandler.HandleListRoles)
			r.Get("/{id}", s.catalogHandler.HandleGetRole)
			r.Put("/{id}", s.catalogHandler.HandleSaveRole)
			r.Delete("/{id}", s.catalogHandler.HandleDeleteRole)
		})
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.catalogHandler.HandleListEntries)
			r.Get("/{id}", s.catalogHandler.HandleGetEntry)
			r.Put("/{id}", s.catalogHandler.HandleSaveEntry)
			r.Delete("/{id}", s.catalogHandler.HandleDeleteEntry)
		})
	})
}

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
