package api

import (
	"errors"
	"net/http"

	"github.com/scopeworks/estimator/internal/adapters/repository"
	"github.com/scopeworks/estimator/internal/adapters/snapshot"
)

// writeCatalogError translates repository and store errors into structured
// HTTP responses. Nothing is swallowed: unknown errors become a 500 with
// the original message.
func writeCatalogError(w http.ResponseWriter, err error) {
	var refErr *repository.ReferentialIntegrityError
	var roleRefErr *repository.InvalidRoleReferenceError

	switch {
	case errors.As(err, &refErr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:    "referential_integrity",
			Message: refErr.Error(),
			Errors:  refErr,
		})
	case errors.As(err, &roleRefErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "invalid_role_reference",
			Message: roleRefErr.Error(),
			Errors:  roleRefErr,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidRole), errors.Is(err, repository.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, snapshot.ErrNotFound):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", err)
	case errors.Is(err, snapshot.ErrParse):
		writeError(w, http.StatusInternalServerError, "catalog_corrupt", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
