package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pravacash/internal/service"
)

// AdminHandler serves the admin reporting endpoints.
type AdminHandler struct {
	admin  *service.AdminService
	logger *zap.Logger
}

// NewAdminHandler returns handler instance.
func NewAdminHandler(admin *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute admin stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Owners handles GET /api/admin/owners.
func (h *AdminHandler) Owners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.admin.Owners(r.Context())
	if err != nil {
		h.logger.Error("failed to list owners", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list owners")
		return
	}
	writeJSON(w, http.StatusOK, owners)
}

// Transactions handles GET /api/admin/transactions.
func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.admin.AllTransactions(r.Context())
	if err != nil {
		h.logger.Error("failed to list all transactions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
