package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/scopeworks/estimator/internal/domain/model"
)

// validate checks admin request DTO shape before the repository enforces
// the catalog invariants.
var validate = validator.New() //nolint:gochecknoglobals // validator instances are designed to be shared

// CatalogHandler serves the catalog administration CRUD routes.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// roleRequest is the PUT /catalog/roles/{id} body.
type roleRequest struct {
	Name                   string  `json:"name" validate:"required"`
	Description            string  `json:"description"`
	ProductivityMultiplier float64 `json:"productivityMultiplier" validate:"required,gt=0"`
	TechStackID            string  `json:"techStackId"`
}

// entryRequest is the PUT /catalog/entries/{id} body.
type entryRequest struct {
	Name            string              `json:"name" validate:"required"`
	Description     string              `json:"description"`
	Category        string              `json:"category" validate:"required"`
	TechStack       string              `json:"techStack"`
	Tags            []string            `json:"tags"`
	MediumEstimates []roleEstimateInput `json:"mediumEstimates" validate:"dive"`
}

type roleEstimateInput struct {
	RoleID string  `json:"roleId" validate:"required"`
	Hours  float64 `json:"hours" validate:"gte=0"`
}

// HandleListRoles handles GET /catalog/roles.
func (h *CatalogHandler) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.deps.Roles(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": roles, "totalCount": len(roles)})
}

// HandleGetRole handles GET /catalog/roles/{id}.
func (h *CatalogHandler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.deps.Role(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// HandleSaveRole handles PUT /catalog/roles/{id} (upsert by id).
func (h *CatalogHandler) HandleSaveRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_role", err)
		return
	}
	role := model.Role{
		ID:                     chi.URLParam(r, "id"),
		Name:                   req.Name,
		Description:            req.Description,
		ProductivityMultiplier: req.ProductivityMultiplier,
		TechStackID:            req.TechStackID,
	}
	if err := h.deps.SaveRole(r.Context(), role); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// HandleDeleteRole handles DELETE /catalog/roles/{id}.
func (h *CatalogHandler) HandleDeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteRole(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListEntries handles GET /catalog/entries.
func (h *CatalogHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Entries(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "totalCount": len(entries)})
}

// HandleGetEntry handles GET /catalog/entries/{id}.
func (h *CatalogHandler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleSaveEntry handles PUT /catalog/entries/{id} (upsert by id).
func (h *CatalogHandler) HandleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_entry", err)
		return
	}
	entry := model.CatalogEntry{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		TechStack:   req.TechStack,
		Tags:        req.Tags,
	}
	for _, re := range req.MediumEstimates {
		entry.MediumEstimates = append(entry.MediumEstimates, model.RoleEstimate{
			RoleID: re.RoleID,
			Hours:  re.Hours,
		})
	}
	if err := h.deps.SaveEntry(r.Context(), entry); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleDeleteEntry handles DELETE /catalog/entries/{id}.
func (h *CatalogHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReload handles POST /catalog/reload.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Reload(r.Context()); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
