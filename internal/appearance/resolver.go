// Package appearance resolves the light/dark/system preference into a single
// dark-mode flag that follows the host while the preference is "system".
package appearance

import (
	"context"
	"sync"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"

	"go.uber.org/zap"
)

// Resolver tracks the effective color scheme.
type Resolver struct {
	settings repository.SettingsRepository
	host     HostScheme
	logger   *zap.Logger

	mu       sync.Mutex
	pref     domain.AppearancePreference
	hostDark bool
	cancel   func() // host subscription, held only under system
	watchers map[int]func(bool)
	nextID   int
}

// NewResolver starts from the stored preference.
func NewResolver(ctx context.Context, settings repository.SettingsRepository, host HostScheme, logger *zap.Logger) (*Resolver, error) {
	if host == nil {
		host = StaticHost{}
	}
	r := &Resolver{
		settings: settings,
		host:     host,
		logger:   logger,
		pref:     settings.Get(ctx).Appearance,
		watchers: map[int]func(bool){},
	}
	if !r.pref.Valid() {
		r.pref = domain.AppearanceSystem
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.follow(); err != nil {
		return nil, err
	}
	return r, nil
}

// follow subscribes to or releases the host signal to match the preference.
// Callers hold r.mu.
func (r *Resolver) follow() error {
	if r.pref != domain.AppearanceSystem {
		if r.cancel != nil {
			r.cancel()
			r.cancel = nil
		}
		return nil
	}
	if r.cancel != nil {
		return nil
	}
	r.hostDark = r.host.Current()
	cancel, err := r.host.Subscribe(r.onHost)
	if err != nil {
		return err
	}
	r.cancel = cancel
	return nil
}

func (r *Resolver) onHost(dark bool) {
	r.mu.Lock()
	if r.pref != domain.AppearanceSystem {
		r.mu.Unlock()
		return
	}
	before := r.resolved()
	r.hostDark = dark
	after := r.resolved()
	fns := r.snapshotWatchers()
	r.mu.Unlock()

	if before != after {
		r.logger.Debug("Host color scheme changed", zap.Bool("dark", after))
		notifyAll(fns, after)
	}
}

// resolved computes the output; callers hold r.mu.
func (r *Resolver) resolved() bool {
	switch r.pref {
	case domain.AppearanceDark:
		return true
	case domain.AppearanceLight:
		return false
	case domain.AppearanceSystem:
		return r.hostDark
	}
	return r.hostDark
}

func (r *Resolver) snapshotWatchers() []func(bool) {
	fns := make([]func(bool), 0, len(r.watchers))
	for _, fn := range r.watchers {
		fns = append(fns, fn)
	}
	return fns
}

func notifyAll(fns []func(bool), dark bool) {
	for _, fn := range fns {
		fn(dark)
	}
}

func (r *Resolver) IsDark() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved()
}

func (r *Resolver) Preference() domain.AppearancePreference {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pref
}

// SetPreference persists pref and re-resolves.
func (r *Resolver) SetPreference(ctx context.Context, pref domain.AppearancePreference) error {
	if !pref.Valid() {
		return domain.Invalid("appearance", "unknown appearance preference")
	}
	if _, err := r.settings.Update(ctx, func(c *domain.AgencyConfig) error {
		c.Appearance = pref
		return nil
	}); err != nil {
		return err
	}

	r.mu.Lock()
	before := r.resolved()
	r.pref = pref
	err := r.follow()
	after := r.resolved()
	fns := r.snapshotWatchers()
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("Failed to follow host color scheme", zap.Error(err))
	}
	if before != after {
		notifyAll(fns, after)
	}
	return nil
}

// Toggle flips the current output and stores it as an explicit preference.
func (r *Resolver) Toggle(ctx context.Context) (bool, error) {
	next := domain.AppearanceDark
	if r.IsDark() {
		next = domain.AppearanceLight
	}
	if err := r.SetPreference(ctx, next); err != nil {
		return r.IsDark(), err
	}
	return next == domain.AppearanceDark, nil
}

// Watch calls fn whenever the resolved value changes, until stop is called.
func (r *Resolver) Watch(fn func(dark bool)) (stop func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.watchers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.watchers, id)
	}
}

// Close releases the host subscription.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
