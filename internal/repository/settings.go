package repository

import (
	"context"
	"strings"
	"sync"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/store"
)

// SettingsRepository agency-wide configuration.
type SettingsRepository interface {
	Get(ctx context.Context) domain.AgencyConfig
	Update(ctx context.Context, fn func(*domain.AgencyConfig) error) (domain.AgencyConfig, error)
}

// Settings the persisted AgencyConfig.
type Settings struct {
	mu    sync.RWMutex
	store *store.Store
	cfg   domain.AgencyConfig
}

func NewSettings(ctx context.Context, s *store.Store, fallback domain.AgencyConfig) *Settings {
	cfg := store.Load(ctx, s, KeyConfig, fallback)
	if !cfg.Appearance.Valid() {
		cfg.Appearance = domain.AppearanceSystem
	}
	return &Settings{store: s, cfg: cfg}
}

func (r *Settings) Get(_ context.Context) domain.AgencyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Settings) Update(ctx context.Context, fn func(*domain.AgencyConfig) error) (domain.AgencyConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.cfg
	if err := fn(&next); err != nil {
		return r.cfg, err
	}
	if strings.TrimSpace(next.Name) == "" {
		return r.cfg, domain.Invalid("name", "is required")
	}
	if !next.Appearance.Valid() {
		return r.cfg, domain.Invalid("appearance", "unknown appearance preference")
	}
	r.cfg = next
	r.store.Save(ctx, KeyConfig, r.cfg)
	return r.cfg, nil
}
