package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pravacash/internal/auth"
	"pravacash/internal/http/middleware"
	"pravacash/internal/models"
	"pravacash/internal/repository"
	"pravacash/internal/service"
)

type memStore struct {
	mu  sync.Mutex
	seq int
	txs map[string]models.Transaction
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, tx := range m.txs {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id, ownerID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok || tx.OwnerID != ownerID {
		return nil, repository.ErrTransactionNotFound
	}
	return &tx, nil
}

func (m *memStore) Create(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	tx.ID = fmt.Sprintf("tx-%d", m.seq)
	tx.CreatedAt = time.Now()
	m.txs[tx.ID] = *tx
	return nil
}

func (m *memStore) Update(_ context.Context, tx *models.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.txs[tx.ID]
	if !ok || existing.OwnerID != tx.OwnerID {
		return false, nil
	}
	m.txs[tx.ID] = *tx
	return true, nil
}

func (m *memStore) Delete(_ context.Context, id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok || tx.OwnerID != ownerID {
		return false, nil
	}
	delete(m.txs, id)
	return true, nil
}

func (m *memStore) Clear(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, tx := range m.txs {
		if tx.OwnerID == ownerID {
			delete(m.txs, id)
		}
	}
	return nil
}

type noopOwners struct{}

func (noopOwners) Ensure(context.Context, string, string) error { return nil }

type noopPresence struct{}

func (noopPresence) Touch(context.Context, string, time.Time) error { return nil }

type noopNotifier struct{}

func (noopNotifier) NotifyOwner(string, string, interface{}) {}
func (noopNotifier) NotifyAdmins(string, interface{})        {}

type noopStats struct{}

func (noopStats) Stats(context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{}, nil
}

func newTestRig(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()
	store := &memStore{txs: make(map[string]models.Transaction)}
	ledger := service.NewLedgerService(store, noopOwners{}, noopPresence{}, noopNotifier{}, noopStats{}, zap.NewNop())
	handler := NewTransactionsHandler(ledger, zap.NewNop())
	tokens := auth.NewTokenService("test-secret")

	mux := http.NewServeMux()
	authMW := middleware.Auth(tokens)
	mux.Handle("GET /api/transactions", authMW(http.HandlerFunc(handler.Ledger)))
	mux.Handle("POST /api/transactions", authMW(http.HandlerFunc(handler.Create)))
	mux.Handle("DELETE /api/transactions/{id}", authMW(http.HandlerFunc(handler.Delete)))
	return mux, tokens
}

func doJSON(t *testing.T, mux http.Handler, tokens *auth.TokenService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := tokens.Issue(models.Identity{OwnerID: "alice", Role: models.RoleUser}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenListLedger(t *testing.T) {
	mux, tokens := newTestRig(t)

	rec := doJSON(t, mux, tokens, http.MethodPost, "/api/transactions",
		`{"description":"Salary","type":"income","amount":500000,"date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created["id"])

	rec = doJSON(t, mux, tokens, http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.LedgerView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Entries, 1)
	assert.Equal(t, int64(500000), view.Totals.Income)
	assert.Equal(t, int64(500000), view.Entries[0].RunningBalance)
}

func TestCreateValidationMapsTo400(t *testing.T) {
	mux, tokens := newTestRig(t)

	rec := doJSON(t, mux, tokens, http.MethodPost, "/api/transactions",
		`{"description":"Coffee","type":"expense","amount":0,"date":"2024-01-01"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "amount", body["field"])
	assert.NotEmpty(t, body["message"])
}

func TestDeleteMissingMapsTo404(t *testing.T) {
	mux, tokens := newTestRig(t)

	rec := doJSON(t, mux, tokens, http.MethodDelete, "/api/transactions/no-such-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedBodyMapsTo400(t *testing.T) {
	mux, tokens := newTestRig(t)

	rec := doJSON(t, mux, tokens, http.MethodPost, "/api/transactions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
