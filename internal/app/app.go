package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pravacash/internal/auth"
	"pravacash/internal/config"
	"pravacash/internal/db"
	httpserver "pravacash/internal/http"
	"pravacash/internal/http/handlers"
	"pravacash/internal/http/middleware"
	"pravacash/internal/presence"
	"pravacash/internal/repository"
	"pravacash/internal/service"
	"pravacash/internal/ws"
)

// App wires the ledger service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := presence.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	txRepo := repository.NewTransactionRepository(sqlDB)
	ownerRepo := repository.NewOwnerRepository(sqlDB)
	presenceStore := presence.NewStore(redisClient)
	tokens := auth.NewTokenService(cfg.Auth.Secret)

	registry := ws.NewRegistry(logger)
	adminService := service.NewAdminService(
		txRepo,
		ownerRepo,
		presenceStore,
		cfg.Presence.ActiveWithinDays,
		cfg.Presence.InactiveAfterDays,
		logger,
	)
	ledgerService := service.NewLedgerService(txRepo, ownerRepo, presenceStore, registry, adminService, logger)

	wsServer := ws.NewServer(registry, tokens, ledgerService, adminService, cfg.WS.WriteTimeout, logger)
	txHandler := handlers.NewTransactionsHandler(ledgerService, logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger)

	router := httpserver.NewRouter(httpserver.Routes{
		Health:       handlers.NewHealthHandler(),
		Ledger:       txHandler.Ledger,
		CreateTx:     txHandler.Create,
		UpdateTx:     txHandler.Update,
		DeleteTx:     txHandler.Delete,
		ClearTx:      txHandler.Clear,
		AdminStats:   adminHandler.Stats,
		AdminOwners:  adminHandler.Owners,
		AdminTxs:     adminHandler.Transactions,
		Realtime:     wsServer.HandleWS,
		AuthRequired: middleware.Auth(tokens),
	})
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts the HTTP server until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
