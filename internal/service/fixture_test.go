package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/notify"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/seed"
	"inmo-backoffice/internal/store"

	"go.uber.org/zap"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

// recorder captures sent notices. A non-nil block holds every Send until closed.
type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
	err     error
	block   chan struct{}
}

func (r *recorder) Send(_ context.Context, n notify.Notice) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.notices = append(r.notices, n)
	return nil
}

func (r *recorder) sent() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.notices...)
}

// faulty fails writes with the configured errors and delegates everything else.
type faulty[T any] struct {
	repository.Repository[T]
	insertErr error
	updateErr error
}

func (f *faulty[T]) Insert(ctx context.Context, item T) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Repository.Insert(ctx, item)
}

func (f *faulty[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	if f.updateErr != nil {
		var zero T
		return zero, f.updateErr
	}
	return f.Repository.Update(ctx, id, fn)
}

type fixture struct {
	ctx      context.Context
	kv       *store.MemoryKV
	deps     Deps
	messages *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := store.New(kv, "inmo_v2_data_", zap.NewNop())
	repository.RegisterMigrations(s)

	seq := 0
	rec := &recorder{}
	deps := Deps{
		Properties: repository.NewProperties(ctx, s, seed.Properties()),
		Tenants:    repository.NewTenants(ctx, s, seed.Tenants()),
		Contracts:  repository.NewContracts(ctx, s, seed.Contracts()),
		Receipts:   repository.NewReceipts(ctx, s, seed.Receipts()),
		Tickets:    repository.NewTickets(ctx, s, seed.Tickets(testNow)),
		Settings:   repository.NewSettings(ctx, s, seed.Config()),
		Notifier:   notify.NewDispatcher(rec, zap.NewNop()),
		Now:        func() time.Time { return testNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}
	return &fixture{ctx: ctx, kv: kv, deps: deps, messages: rec}
}

func (f *fixture) tenant(t *testing.T, id string) domain.Tenant {
	t.Helper()
	tn, err := f.deps.Tenants.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("tenant %s: %v", id, err)
	}
	return tn
}

func (f *fixture) property(t *testing.T, id string) domain.Property {
	t.Helper()
	p, err := f.deps.Properties.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("property %s: %v", id, err)
	}
	return p
}
