package httpserver

import (
	"net/http"

	"pravacash/internal/http/middleware"
)

// Routes groups HTTP handlers.
type Routes struct {
	Health       http.HandlerFunc
	Ledger       http.HandlerFunc
	CreateTx     http.HandlerFunc
	UpdateTx     http.HandlerFunc
	DeleteTx     http.HandlerFunc
	ClearTx      http.HandlerFunc
	AdminStats   http.HandlerFunc
	AdminOwners  http.HandlerFunc
	AdminTxs     http.HandlerFunc
	Realtime     http.HandlerFunc
	AuthRequired func(http.Handler) http.Handler
}

// NewRouter registers service endpoints. The realtime endpoint authenticates
// inside the upgrade handler because browsers cannot attach headers to
// websocket requests.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", routes.Health)
	mux.HandleFunc("GET /ws", routes.Realtime)

	authed := func(h http.HandlerFunc) http.Handler {
		return routes.AuthRequired(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return routes.AuthRequired(middleware.RequireAdmin(h))
	}

	mux.Handle("GET /api/transactions", authed(routes.Ledger))
	mux.Handle("POST /api/transactions", authed(routes.CreateTx))
	mux.Handle("PUT /api/transactions/{id}", authed(routes.UpdateTx))
	mux.Handle("DELETE /api/transactions/{id}", authed(routes.DeleteTx))
	mux.Handle("DELETE /api/transactions", authed(routes.ClearTx))

	mux.Handle("GET /api/admin/stats", adminOnly(routes.AdminStats))
	mux.Handle("GET /api/admin/owners", adminOnly(routes.AdminOwners))
	mux.Handle("GET /api/admin/transactions", adminOnly(routes.AdminTxs))

	return mux
}
