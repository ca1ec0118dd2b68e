package handlers

import (
	"net/http"
	"time"
)

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":        true,
			"timestamp": time.Now().UnixMilli(),
		})
	}
}
