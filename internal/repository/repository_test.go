package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/seed"
	"inmo-backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const ns = "inmo_v2_data_"

func newStore(kv store.KV) *store.Store {
	s := store.New(kv, ns, zap.NewNop())
	RegisterMigrations(s)
	return s
}

func TestCollection_FallbackWhenEmpty(t *testing.T) {
	ctx := context.Background()
	tenants := NewTenants(ctx, newStore(store.NewMemoryKV()), seed.Tenants())

	all := tenants.List(ctx)
	require.Len(t, all, 5)
	assert.Equal(t, "t1", all[0].ID)

	got, err := tenants.Get(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, "Carlos Rodriguez", got.Name)
}

func TestCollection_GetMissing(t *testing.T) {
	ctx := context.Background()
	tenants := NewTenants(ctx, newStore(store.NewMemoryKV()), nil)

	_, err := tenants.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollection_WriteThrough(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := newStore(kv)
	tickets := NewTickets(ctx, s, nil)

	tk := domain.Ticket{
		ID: "x1", Title: "Leak", Description: "Kitchen sink",
		Priority: domain.PriorityLow, Status: domain.TicketPending, Origin: domain.OriginManual,
	}
	require.NoError(t, tickets.Insert(ctx, tk))

	_, err := kv.Get(ctx, ns+KeyTickets)
	require.NoError(t, err, "insert is persisted immediately")

	// a fresh load sees the insert
	reloaded := NewTickets(ctx, s, nil)
	got, err := reloaded.Get(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "Leak", got.Title)
}

func TestCollection_InsertRejectsDuplicateAndInvalid(t *testing.T) {
	ctx := context.Background()
	props := NewProperties(ctx, newStore(store.NewMemoryKV()), seed.Properties())

	dup := seed.Properties()[1]
	assert.ErrorIs(t, props.Insert(ctx, dup), domain.ErrValidation)

	bad := dup
	bad.ID = "p99"
	bad.Bedrooms = 0
	assert.ErrorIs(t, props.Insert(ctx, bad), domain.ErrValidation)
	assert.Len(t, props.List(ctx), 20)
}

func TestCollection_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	tenants := NewTenants(ctx, newStore(store.NewMemoryKV()), seed.Tenants())

	// invariant violation leaves the stored item untouched
	_, err := tenants.Update(ctx, "t2", func(tn *domain.Tenant) error {
		tn.DebtAmount = 0
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	boom := errors.New("boom")
	_, err = tenants.Update(ctx, "t2", func(tn *domain.Tenant) error {
		tn.Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := tenants.Get(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, int64(45000), got.DebtAmount)
	assert.Equal(t, "Lucia Fernandez", got.Name)

	updated, err := tenants.Update(ctx, "t2", func(tn *domain.Tenant) error {
		tn.ApplyPayment(45000)
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, updated.DaysLate)

	_, err = tenants.Update(ctx, "t2", func(tn *domain.Tenant) error {
		tn.ID = "other"
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCollection_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	tenants := NewTenants(ctx, newStore(store.NewMemoryKV()), seed.Tenants())

	all := tenants.List(ctx)
	all[2].Guarantor.Phone = "mutated"

	got, err := tenants.Get(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, "5493434777888", got.Guarantor.Phone)
}

func TestCollection_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ns+KeyProperties, "]]"))

	props := NewProperties(ctx, newStore(kv), seed.Properties())
	assert.Len(t, props.List(ctx), 20)
}

func TestCollection_InvalidStoredItemFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ns+KeyTenants,
		`[{"id":"t9","name":"Ana","phone":"","debtAmount":98000,"daysLate":12}]`))

	core, logs := observer.New(zapcore.WarnLevel)
	s := store.New(kv, ns, zap.New(core))
	RegisterMigrations(s)

	tenants := NewTenants(ctx, s, seed.Tenants())
	assert.Len(t, tenants.List(ctx), 5)
	_, err := tenants.Get(ctx, "t9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Stored value unreadable, using fallback", logs.All()[0].Message)
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "t9")
}

func TestCollection_DuplicateStoredIDsFallBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ns+KeyTenants, `[
		{"id":"t1","name":"Mateo Gomez","phone":"1"},
		{"id":"t1","name":"Mateo G.","phone":"2"}
	]`))

	tenants := NewTenants(ctx, newStore(kv), seed.Tenants())
	all := tenants.List(ctx)
	require.Len(t, all, 5)
	assert.Equal(t, "Mateo Gomez", all[0].Name)
}

func TestMigrations_LegacyContractsAndTenants(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ns+KeyContracts, `[{
		"id":"c1","tenantId":"t1","propertyId":"p1",
		"startDate":"2024-01-01","endDate":"2025-01-01",
		"monthlyAmount":185000,"status":"vigente",
		"guarantor":{"name":"Ricardo Gomez","phone":"1","dni":"20.123.456"}
	}]`))
	require.NoError(t, kv.Set(ctx, ns+KeyTenants,
		`[{"id":"t5","name":"Elena Paz","phone":"2","status":"En Mora","debtAmount":98000,"daysLate":12}]`))
	s := newStore(kv)

	contracts := NewContracts(ctx, s, nil)
	c, err := contracts.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-c1", c.FolioNumber)
	assert.Equal(t, domain.ContractActive, c.Status)
	assert.Equal(t, "20.123.456", c.Guarantor.NationalID)
	assert.Equal(t, 2025, c.EndDate.Year())

	tenants := NewTenants(ctx, s, nil)
	tn, err := tenants.Get(ctx, "t5")
	require.NoError(t, err)
	assert.Equal(t, int64(98000), tn.DebtAmount)

	// the next save rewrites the value at the current version without the derived field
	_, err = tenants.Update(ctx, "t5", func(*domain.Tenant) error { return nil })
	require.NoError(t, err)
	raw, err := kv.Get(ctx, ns+KeyTenants)
	require.NoError(t, err)
	assert.NotContains(t, raw, "En Mora")
	var env struct {
		SchemaVersion int `json:"schema_version"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, store.SchemaVersion, env.SchemaVersion)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ns+KeyConfig,
		`{"name":"Inmobiliaria Libertador","whatsappNumber":"5493434123456","appearance":"system"}`))
	s := newStore(kv)

	settings := NewSettings(ctx, s, seed.Config())
	assert.Equal(t, "5493434123456", settings.Get(ctx).ContactPhone)

	_, err := settings.Update(ctx, func(c *domain.AgencyConfig) error {
		c.Appearance = "sepia"
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.AppearanceSystem, settings.Get(ctx).Appearance)

	cfg, err := settings.Update(ctx, func(c *domain.AgencyConfig) error {
		c.Appearance = domain.AppearanceDark
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AppearanceDark, cfg.Appearance)
	assert.Equal(t, domain.AppearanceDark, NewSettings(ctx, s, seed.Config()).Get(ctx).Appearance)
}
