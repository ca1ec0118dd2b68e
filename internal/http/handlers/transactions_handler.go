package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pravacash/internal/service"
)

// TransactionsHandler serves the owner-facing ledger endpoints.
type TransactionsHandler struct {
	ledger *service.LedgerService
	logger *zap.Logger
}

// NewTransactionsHandler returns handler instance.
func NewTransactionsHandler(ledger *service.LedgerService, logger *zap.Logger) *TransactionsHandler {
	return &TransactionsHandler{ledger: ledger, logger: logger}
}

// Ledger handles GET /api/transactions: the freshly projected ledger view.
func (h *TransactionsHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	view, err := h.ledger.LedgerView(r.Context(), ident.OwnerID)
	if err != nil {
		h.logger.Error("failed to load ledger view", zap.String("owner_id", ident.OwnerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	var input service.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.ledger.CreateTransaction(r.Context(), ident, input)
	if err != nil {
		respondMutationError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PUT /api/transactions/{id}.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	var input service.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ledger.UpdateTransaction(r.Context(), ident, r.PathValue("id"), input); err != nil {
		respondMutationError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), ident, r.PathValue("id")); err != nil {
		respondMutationError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/transactions: bulk removal for the owner.
func (h *TransactionsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.ledger.ClearTransactions(r.Context(), ident); err != nil {
		respondMutationError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
