// Package app assembles the store, repositories and services from config.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inmo-backoffice/internal/appearance"
	"inmo-backoffice/internal/config"
	"inmo-backoffice/internal/mqtt"
	"inmo-backoffice/internal/notify"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/seed"
	"inmo-backoffice/internal/service"
	"inmo-backoffice/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App the wired back-office core.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *store.Store

	Settings *repository.Settings

	Receipts      *service.ReceiptService
	Tickets       *service.TicketService
	Leases        *service.LeaseService
	Tenants       *service.TenantService
	Properties    *service.PropertyService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService

	// MQTT is nil unless MQTT is enabled.
	MQTT *mqtt.Client

	hosts    []*appearance.MQTTHost
	notifier *notify.Dispatcher
	redis    *redis.Client
	db       *sql.DB
	gormDB   *gorm.DB
}

// Options overrides used by tests and the CLI.
type Options struct {
	// KV replaces the configured backend.
	KV    store.KV
	Now   service.Clock
	NewID service.IDGenerator
}

// New connects the configured backends and loads every collection.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	kv := opts.KV
	if kv == nil {
		var err error
		if kv, err = a.openKV(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Store = store.New(kv, cfg.Store.Namespace, logger)
	repository.RegisterMigrations(a.Store)

	messenger, err := a.messenger(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.notifier = notify.NewDispatcher(messenger, logger)
	today := nowOr(opts.Now)()
	a.Settings = repository.NewSettings(ctx, a.Store, seed.Config())
	deps := service.Deps{
		Properties: repository.NewProperties(ctx, a.Store, seed.Properties()),
		Tenants:    repository.NewTenants(ctx, a.Store, seed.Tenants()),
		Contracts:  repository.NewContracts(ctx, a.Store, seed.Contracts()),
		Receipts:   repository.NewReceipts(ctx, a.Store, seed.Receipts()),
		Tickets:    repository.NewTickets(ctx, a.Store, seed.Tickets(today)),
		Settings:   a.Settings,
		Notifier:   a.notifier,
		Now:        opts.Now,
		NewID:      opts.NewID,
	}

	a.Receipts = service.NewReceiptService(deps, logger)
	a.Tickets = service.NewTicketService(deps, logger)
	a.Leases = service.NewLeaseService(deps, logger)
	a.Tenants = service.NewTenantService(deps, logger)
	a.Properties = service.NewPropertyService(deps, logger)
	a.Notifications = service.NewNotificationService(deps, logger)
	a.Dashboard = service.NewDashboardService(deps)

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to mqtt: %w", err)
		}
		a.MQTT = client
	}

	logger.Info("Back-office ready",
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("notify_backend", cfg.Notify.Backend),
		zap.Bool("mqtt_enabled", cfg.MQTT.Enabled),
	)
	return a, nil
}

func nowOr(c service.Clock) service.Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func (a *App) openKV(ctx context.Context) (store.KV, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendRedis:
		c, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return store.NewRedisKV(c), nil
	case config.BackendPostgres:
		db, err := store.OpenPostgres(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		kv := store.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare kv_store: %w", err)
		}
		return kv, nil
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.gormDB = db
		kv, err := store.NewSQLiteKV(db)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case config.BackendMemory:
		return store.NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
}

// redisClient shares one connection between the store and the stream messenger.
func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	c := store.NewRedisClient(&a.Config.Redis)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.redis = c
	return c, nil
}

func (a *App) messenger(ctx context.Context) (notify.Messenger, error) {
	switch a.Config.Notify.Backend {
	case config.NotifyStream:
		c, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return notify.NewStreamMessenger(c, a.Config.Notify.Stream), nil
	case config.NotifyWebhook:
		return notify.NewWebhookMessenger(a.Config.Notify.WebhookURL), nil
	}
	return notify.Nop{}, nil
}

// Appearance builds a resolver over the MQTT host signal, or a static host
// when MQTT is disabled. The host signal is followed until Close.
func (a *App) Appearance(ctx context.Context, initialDark bool) (*appearance.Resolver, error) {
	var host appearance.HostScheme = appearance.StaticHost{Dark: initialDark}
	if a.MQTT != nil {
		h := appearance.NewMQTTHost(a.MQTT, a.Config.Appearance.Topic, a.Config.MQTT.QoS, initialDark)
		if err := h.Start(); err != nil {
			return nil, fmt.Errorf("failed to follow host color scheme: %w", err)
		}
		a.hosts = append(a.hosts, h)
		host = h
	}
	return appearance.NewResolver(ctx, a.Settings, host, a.Logger)
}

// Close waits for background notices, then releases every backend
// connection that was opened.
func (a *App) Close() {
	if a.notifier != nil {
		a.notifier.Close()
	}
	for _, h := range a.hosts {
		if err := h.Close(); err != nil {
			a.Logger.Warn("Failed to release host color scheme", zap.Error(err))
		}
	}
	if a.MQTT != nil {
		a.MQTT.Disconnect()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
