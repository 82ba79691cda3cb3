// Package web exposes a CQRS application over HTTP and mirrors query results and
// subscription updates into a Firebase-style realtime database.
package web

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/logger"
	httpadapter "firebase-web/internal/web/adapter/http"
	"firebase-web/internal/web/adapter/security"
	"firebase-web/internal/web/config"
	"firebase-web/internal/web/domain/repository"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/fiber/v2"
)

// Services are the application ports the web module bridges to.
type Services struct {
	Commands      repository.CommandService
	Queries       repository.QueryService
	Subscriptions repository.SubscriptionService
}

// WebModule wires the web endpoints over a database client.
type WebModule struct {
	Config        *config.Config
	Database      repository.DatabaseClient
	Commands      usecase.CommandUsecase
	Queries       usecase.QueryBridge
	Subscriptions usecase.SubscriptionBridge
	Broadcaster   usecase.RecordBroadcaster
	Metrics       *httpadapter.Metrics
	Tokens        *security.TenantTokenService
	Logger        logger.Logger

	closeDatabase Closer
	stopSweeper   context.CancelFunc
}

// NewWebModule opens the configured database and creates the use cases over services.
func NewWebModule(ctx context.Context, cfg *config.Config, services Services, log logger.Logger) (*WebModule, error) {
	db, closeDB, err := NewDatabaseClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Backend, err)
	}
	m, err := NewWebModuleWithDatabase(cfg, services, db, log)
	if err != nil {
		_ = closeDB(ctx)
		return nil, err
	}
	m.closeDatabase = closeDB
	return m, nil
}

// NewWebModuleWithDatabase creates the use cases over an already opened database.
func NewWebModuleWithDatabase(cfg *config.Config, services Services, db repository.DatabaseClient, log logger.Logger) (*WebModule, error) {
	log = log.WithComponent("web")
	log.Infof("Initializing web module on the %s backend", cfg.Backend)

	var tokens *security.TenantTokenService
	if cfg.Token.SecretKey != "" {
		var err error
		tokens, err = security.NewTenantTokenService(security.TokenConfig{
			SecretKey: cfg.Token.SecretKey,
			Issuer:    cfg.Token.Issuer,
			TTL:       cfg.Token.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
	} else {
		log.Warn("JWT_SECRET_KEY not set, tenants are taken from request headers only")
	}

	metrics := httpadapter.NewMetrics()
	broadcaster := usecase.NewRecordBroadcaster(log)

	return &WebModule{
		Config:   cfg,
		Database: db,
		Commands: usecase.NewCommandUsecase(services.Commands, log),
		Queries:  usecase.NewQueryBridge(services.Queries, db, metrics, log),
		Subscriptions: usecase.NewSubscriptionBridge(services.Subscriptions, db, usecase.SubscriptionBridgeConfig{
			TTL:       cfg.Subscription.TTL,
			Metrics:   metrics,
			Publisher: broadcaster,
		}, log),
		Broadcaster:   broadcaster,
		Metrics:       metrics,
		Tokens:        tokens,
		Logger:        log,
		closeDatabase: func(context.Context) error { return nil },
	}, nil
}

// RegisterRoutes mounts the web endpoints on router.
func (m *WebModule) RegisterRoutes(router fiber.Router) {
	var validator httpadapter.TokenValidator
	if m.Tokens != nil {
		validator = m.Tokens
	}

	routes := &httpadapter.Router{
		Command:      httpadapter.NewCommandHandler(m.Commands, m.Logger),
		Query:        httpadapter.NewQueryHandler(m.Queries, m.Logger),
		Subscription: httpadapter.NewSubscriptionHandler(m.Subscriptions, m.Logger),
		Stream: httpadapter.NewStreamHandler(m.Broadcaster, m.Config.Realtime.WebSocketPath,
			m.Config.Realtime.ClientSendChannelBuffer, m.Logger),
		Health:  httpadapter.NewHealthHandler(m.Database, m.Config.Backend, m.Logger),
		Metrics: m.Metrics,
		Tenant:  httpadapter.TenantMiddleware(validator, m.Logger),
	}
	routes.RegisterRoutes(router)
	m.Logger.Info("Web routes registered")
}

// StartSubscriptionSweeper cancels expired subscriptions in the background until Stop.
func (m *WebModule) StartSubscriptionSweeper() {
	if m.stopSweeper != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.stopSweeper = cancel
	go m.Subscriptions.RunSweeper(ctx, m.Config.Subscription.SweepInterval)
	m.Logger.Infof("Subscription sweeper started, interval %s", m.Config.Subscription.SweepInterval)
}

// Stop stops the sweeper and closes the database connection.
func (m *WebModule) Stop(ctx context.Context) error {
	m.Logger.Info("Stopping web module...")
	if m.stopSweeper != nil {
		m.stopSweeper()
		m.stopSweeper = nil
	}
	if err := m.closeDatabase(ctx); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	m.Logger.Info("Web module stopped.")
	return nil
}
