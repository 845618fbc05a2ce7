package repository

import (
	"context"
	"fmt"
	"sync"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/store"
)

// Persisted keys, one per collection.
const (
	KeyConfig     = "config"
	KeyProperties = "properties"
	KeyTenants    = "tenants"
	KeyContracts  = "contracts"
	KeyReceipts   = "paymentReceipts"
	KeyTickets    = "tickets"
)

// Repository the single writable copy of one entity collection.
// Every successful mutation is written through to the store before it returns.
type Repository[T any] interface {
	// List returns copies in insertion order.
	List(ctx context.Context) []T
	// Get returns a copy, or a domain.ErrNotFound error.
	Get(ctx context.Context, id string) (T, error)
	// Insert appends a new item; the id must be unused and the item valid.
	Insert(ctx context.Context, item T) error
	// Update applies fn to a copy of the item and stores it if fn succeeds and
	// the result is still valid. Nothing changes when either fails.
	Update(ctx context.Context, id string, fn func(*T) error) (T, error)
}

// entity is what a collection needs from its element type.
type entity[T any] interface {
	Validate() error
	Clone() T
}

// Collection slice-backed Repository persisted as a single value under key.
type Collection[T entity[T]] struct {
	mu    sync.RWMutex
	store *store.Store
	key   string
	kind  string
	idOf  func(T) string
	items []T
	byID  map[string]int
}

// NewCollection loads key from the store, falling back to fallback. A stored
// collection with an invalid item or a repeated id is rejected as a whole.
func NewCollection[T entity[T]](ctx context.Context, s *store.Store, key, kind string, idOf func(T) string, fallback []T) *Collection[T] {
	items := store.LoadChecked(ctx, s, key, fallback, func(items []T) error {
		return checkItems(items, kind, idOf)
	})
	c := &Collection[T]{
		store: s,
		key:   key,
		kind:  kind,
		idOf:  idOf,
		items: make([]T, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, it := range items {
		c.byID[idOf(it)] = len(c.items)
		c.items = append(c.items, it.Clone())
	}
	return c
}

func checkItems[T entity[T]](items []T, kind string, idOf func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		id := idOf(it)
		if id == "" {
			return fmt.Errorf("%s #%d: missing id", kind, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s %s: duplicate id", kind, id)
		}
		seen[id] = struct{}{}
		if err := it.Validate(); err != nil {
			return fmt.Errorf("%s %s: %w", kind, id, err)
		}
	}
	return nil
}

func (c *Collection[T]) List(_ context.Context) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, domain.NotFound(c.kind, id)
	}
	return c.items[i].Clone(), nil
}

func (c *Collection[T]) Insert(ctx context.Context, item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	id := c.idOf(item)
	if id == "" {
		return domain.Invalid("id", "is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.byID[id]; dup {
		return domain.Invalid("id", c.kind+" "+id+" already exists")
	}
	c.byID[id] = len(c.items)
	c.items = append(c.items, item.Clone())
	c.persist(ctx)
	return nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return zero, domain.NotFound(c.kind, id)
	}
	next := c.items[i].Clone()
	if err := fn(&next); err != nil {
		return zero, err
	}
	if c.idOf(next) != id {
		return zero, domain.Invalid("id", "cannot be changed")
	}
	if err := next.Validate(); err != nil {
		return zero, err
	}
	c.items[i] = next
	c.persist(ctx)
	return next.Clone(), nil
}

// persist writes the whole collection; callers hold the write lock.
func (c *Collection[T]) persist(ctx context.Context) {
	c.store.Save(ctx, c.key, c.items)
}

func NewProperties(ctx context.Context, s *store.Store, fallback []domain.Property) *Collection[domain.Property] {
	return NewCollection(ctx, s, KeyProperties, "property", func(p domain.Property) string { return p.ID }, fallback)
}

func NewTenants(ctx context.Context, s *store.Store, fallback []domain.Tenant) *Collection[domain.Tenant] {
	return NewCollection(ctx, s, KeyTenants, "tenant", func(t domain.Tenant) string { return t.ID }, fallback)
}

func NewContracts(ctx context.Context, s *store.Store, fallback []domain.Contract) *Collection[domain.Contract] {
	return NewCollection(ctx, s, KeyContracts, "contract", func(c domain.Contract) string { return c.ID }, fallback)
}

func NewReceipts(ctx context.Context, s *store.Store, fallback []domain.PaymentReceipt) *Collection[domain.PaymentReceipt] {
	return NewCollection(ctx, s, KeyReceipts, "receipt", func(r domain.PaymentReceipt) string { return r.ID }, fallback)
}

func NewTickets(ctx context.Context, s *store.Store, fallback []domain.Ticket) *Collection[domain.Ticket] {
	return NewCollection(ctx, s, KeyTickets, "ticket", func(t domain.Ticket) string { return t.ID }, fallback)
}
