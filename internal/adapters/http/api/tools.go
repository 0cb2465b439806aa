package api

import (
	"errors"
	"net/http"

	service "github.com/scopeworks/estimator/internal/app"
	"github.com/scopeworks/estimator/internal/domain/estimate"
	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/query"
)

// ToolsHandler serves the tool-call surface consumed by the LLM agent.
// Validation problems come back as structured JSON payloads rather than
// bare transport errors so the calling agent can react programmatically.
type ToolsHandler struct {
	deps Dependencies
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(deps Dependencies) *ToolsHandler {
	return &ToolsHandler{deps: deps}
}

// featuresRequest mirrors the get_catalog_features tool arguments.
type featuresRequest struct {
	Category  string `json:"category,omitempty"`
	TechStack string `json:"techStack,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// HandleGetCatalogFeatures handles POST /tools/get_catalog_features.
func (h *ToolsHandler) HandleGetCatalogFeatures(w http.ResponseWriter, r *http.Request) {
	var req featuresRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := h.deps.Features(r.Context(), query.Filter{
		Category:  req.Category,
		TechStack: req.TechStack,
		Tag:       req.Tag,
	})
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// estimateRequest mirrors the calculate_estimate tool arguments.
type estimateRequest struct {
	Selections []model.SizeSelection `json:"selections"`
}

// HandleCalculateEstimate handles POST /tools/calculate_estimate.
func (h *ToolsHandler) HandleCalculateEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	breakdown, err := h.deps.Estimate(r.Context(), req.Selections)
	if err != nil {
		var verrs estimate.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Code:    "validation_failed",
				Message: "one or more selections are invalid",
				Errors:  verrs,
			})
		case errors.Is(err, service.ErrTooManySelections):
			writeError(w, http.StatusBadRequest, "too_many_selections", err)
		default:
			writeCatalogError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// HandleGetInstructions handles GET /tools/get_instructions. The guidance
// document is embedded at build time; see instructions.go.
func (h *ToolsHandler) HandleGetInstructions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(Instructions)
}
