package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pravacash/internal/auth"
	"pravacash/internal/service"
)

// Server upgrades authenticated HTTP requests to realtime sessions. Every
// new session immediately receives the current ledger view (and, for admin
// sessions, the current stats) so clients never start stale.
type Server struct {
	registry     *Registry
	tokens       *auth.TokenService
	ledger       *service.LedgerService
	admin        *service.AdminService
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(registry *Registry, tokens *auth.TokenService, ledger *service.LedgerService, admin *service.AdminService, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		registry:     registry,
		tokens:       tokens,
		ledger:       ledger,
		admin:        admin,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for GET /ws. Browsers cannot set headers on
// websocket requests, so the token is also accepted as a query parameter.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := bearerOrQueryToken(r)
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}

	ident, err := s.tokens.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(ident, conn, s.writeTimeout, s.logger, func(c *Connection) {
		s.registry.Unregister(c)
		cancel()
	})
	s.registry.Register(connection)

	go connection.Start(ctx)

	s.ledger.TrackOwner(ctx, ident)
	s.pushSnapshot(ctx, connection)

	s.logger.Info("session connected",
		zap.String("owner_id", ident.OwnerID),
		zap.String("role", ident.Role),
	)
}

// pushSnapshot sends the full current state to a fresh session.
func (s *Server) pushSnapshot(ctx context.Context, conn *Connection) {
	view, err := s.ledger.LedgerView(ctx, conn.OwnerID())
	if err != nil {
		s.logger.Warn("failed to load initial ledger view", zap.String("owner_id", conn.OwnerID()), zap.Error(err))
	} else {
		s.sendEvent(conn, service.EventLedgerUpdated, view)
	}

	if !conn.IsAdmin() {
		return
	}
	stats, err := s.admin.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to load initial admin stats", zap.Error(err))
		return
	}
	s.sendEvent(conn, service.EventAdminStatsUpdated, stats)
}

func (s *Server) sendEvent(conn *Connection, event string, data interface{}) {
	msg, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		s.logger.Warn("failed to encode snapshot payload", zap.String("event", event), zap.Error(err))
		return
	}
	conn.Send(msg)
}

func bearerOrQueryToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
