package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pravacash/internal/http/middleware"
	"pravacash/internal/models"
	"pravacash/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// identity pulls the verified identity injected by the auth middleware.
func identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return models.Identity{}, false
	}
	return ident, true
}

// respondMutationError maps the coordinator's error taxonomy onto HTTP:
// validation -> 400 with the field reason, not-found-or-forbidden -> generic
// 404, anything else is an opaque 500 with server-side detail.
func respondMutationError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": validation.Reason,
			"field":   validation.Field,
		})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found or not yours")
	default:
		logger.Error("mutation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "the system could not save this")
	}
}
