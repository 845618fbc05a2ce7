package service

import (
	"errors"
	"testing"
	"time"

	"inmo-backoffice/internal/delinquency"
	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/seed"
	"inmo-backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func submitReq(tenantID string, amount int64) SubmitReceiptRequest {
	return SubmitReceiptRequest{
		TenantID:    tenantID,
		Amount:      amount,
		Period:      "Marzo 2025",
		PaymentDate: testNow.AddDate(0, 0, -1),
		Method:      domain.MethodTransfer,
	}
}

func TestReceipt_SubmitDenormalizesTenant(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())

	r, err := svc.Submit(f.ctx, submitReq("t2", 45000))
	require.NoError(t, err)

	assert.Equal(t, domain.ReceiptPending, r.Status)
	assert.Equal(t, "Lucia Fernandez", r.TenantName)
	assert.Equal(t, "Pueyrredón 34, Libertador", r.PropertyAddress)
	assert.Nil(t, r.Review)
	assert.Equal(t, testNow, r.SubmittedAt)
}

func TestReceipt_SubmitValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())

	cases := map[string]func(*SubmitReceiptRequest){
		"negative amount": func(r *SubmitReceiptRequest) { r.Amount = -100 },
		"zero amount":     func(r *SubmitReceiptRequest) { r.Amount = 0 },
		"blank period":    func(r *SubmitReceiptRequest) { r.Period = "  " },
		"no date":         func(r *SubmitReceiptRequest) { r.PaymentDate = time.Time{} },
		"future date":     func(r *SubmitReceiptRequest) { r.PaymentDate = testNow.AddDate(0, 0, 1) },
		"unknown method":  func(r *SubmitReceiptRequest) { r.Method = "barter" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := submitReq("t2", 45000)
			mutate(&req)
			_, err := svc.Submit(f.ctx, req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, svc.List(f.ctx, ReceiptFilter{}))

	// paid earlier today is fine
	req := submitReq("t2", 1000)
	req.PaymentDate = testNow.Add(-time.Hour)
	_, err := svc.Submit(f.ctx, req)
	assert.NoError(t, err)

	_, err = svc.Submit(f.ctx, submitReq("ghost", 1000))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceipt_ApproveClearsSeriousDefault(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())
	require.Equal(t, delinquency.TierSeriousDefault, delinquency.Of(f.tenant(t, "t5")))

	r, err := svc.Submit(f.ctx, submitReq("t5", 98000))
	require.NoError(t, err)

	approved, err := svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptApproved, approved.Status)
	require.NotNil(t, approved.Review)
	assert.Equal(t, "admin", approved.Review.By)

	t5 := f.tenant(t, "t5")
	assert.Zero(t, t5.DebtAmount)
	assert.Zero(t, t5.DaysLate)
	assert.Equal(t, delinquency.TierCurrent, delinquency.Of(t5))
}

func TestReceipt_ApprovePartialAndOverpayment(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())

	r, err := svc.Submit(f.ctx, submitReq("t3", 25000))
	require.NoError(t, err)
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	t3 := f.tenant(t, "t3")
	assert.Equal(t, int64(100000), t3.DebtAmount)
	assert.Equal(t, 15, t3.DaysLate)

	r, err = svc.Submit(f.ctx, submitReq("t3", 500000))
	require.NoError(t, err)
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Zero(t, f.tenant(t, "t3").DebtAmount, "debt never goes below zero")
}

func TestReceipt_ReviewOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())
	r, err := svc.Submit(f.ctx, submitReq("t2", 45000))
	require.NoError(t, err)
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)

	_, err = svc.Approve(f.ctx, r.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.Reject(f.ctx, r.ID, "admin", "duplicate")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// the second approval did not touch the debt again
	assert.Zero(t, f.tenant(t, "t2").DebtAmount)

	_, err = svc.Approve(f.ctx, "missing", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceipt_Reject(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())
	r, err := svc.Submit(f.ctx, submitReq("t2", 45000))
	require.NoError(t, err)

	_, err = svc.Reject(f.ctx, r.ID, "admin", "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	rejected, err := svc.Reject(f.ctx, r.ID, "admin", "Comprobante ilegible")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptRejected, rejected.Status)
	require.NotNil(t, rejected.Comments)
	assert.Equal(t, "Comprobante ilegible", *rejected.Comments)
	assert.Equal(t, int64(45000), f.tenant(t, "t2").DebtAmount)

	// an empty reason is reported before the state check
	_, err = svc.Reject(f.ctx, r.ID, "admin", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReceipt_RecordManual(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())

	r, err := svc.RecordManual(f.ctx, submitReq("t2", 20000), "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptApproved, r.Status)
	require.NotNil(t, r.Review)
	assert.Equal(t, int64(25000), f.tenant(t, "t2").DebtAmount)

	_, err = svc.RecordManual(f.ctx, submitReq("t2", 20000), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReceipt_ApproveRevertsWhenDebtUpdateFails(t *testing.T) {
	f := newFixture(t)
	tenants := &faulty[domain.Tenant]{Repository: f.deps.Tenants}
	f.deps.Tenants = tenants
	svc := NewReceiptService(f.deps, zap.NewNop())

	r, err := svc.Submit(f.ctx, submitReq("t5", 50000))
	require.NoError(t, err)

	tenants.updateErr = errors.New("disk full")
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	assert.ErrorContains(t, err, "disk full")

	got, err := svc.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptPending, got.Status)
	assert.Nil(t, got.Review)
	assert.Equal(t, int64(98000), f.tenant(t, "t5").DebtAmount)

	// once the tenant is writable again the same receipt can be approved
	tenants.updateErr = nil
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(48000), f.tenant(t, "t5").DebtAmount)
}

func TestReceipt_ApproveInvalidStoredTenant(t *testing.T) {
	f := newFixture(t)
	s := store.New(f.kv, "inmo_v2_data_", zap.NewNop())
	s.Save(f.ctx, repository.KeyTenants, []domain.Tenant{
		{ID: "t9", Name: "Ana", Phone: "", DebtAmount: 98000, DaysLate: 12},
	})
	f.deps.Tenants = repository.NewTenants(f.ctx, s, seed.Tenants())
	svc := NewReceiptService(f.deps, zap.NewNop())

	// the unreadable collection is replaced by the defaults, so no receipt can
	// be approved against a debt that would never be reduced
	_, err := svc.Submit(f.ctx, submitReq("t9", 50000))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.deps.Tenants.List(f.ctx), len(seed.Tenants()))

	r, err := svc.Submit(f.ctx, submitReq("t5", 50000))
	require.NoError(t, err)
	_, err = svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(48000), f.tenant(t, "t5").DebtAmount)
}

func TestReceipt_ApproveForRemovedTenantStands(t *testing.T) {
	f := newFixture(t)
	tenants := &faulty[domain.Tenant]{Repository: f.deps.Tenants}
	f.deps.Tenants = tenants
	svc := NewReceiptService(f.deps, zap.NewNop())

	r, err := svc.Submit(f.ctx, submitReq("t5", 50000))
	require.NoError(t, err)

	tenants.updateErr = domain.NotFound("tenant", "t5")
	approved, err := svc.Approve(f.ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptApproved, approved.Status)
}

func TestReceipt_RecordManualLeavesNothingOnFailure(t *testing.T) {
	f := newFixture(t)
	tenants := &faulty[domain.Tenant]{Repository: f.deps.Tenants, updateErr: errors.New("disk full")}
	f.deps.Tenants = tenants
	svc := NewReceiptService(f.deps, zap.NewNop())
	before := len(svc.List(f.ctx, ReceiptFilter{}))

	_, err := svc.RecordManual(f.ctx, submitReq("t2", 20000), "admin")
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, svc.List(f.ctx, ReceiptFilter{}), before)

	tenants.updateErr = nil
	receipts := &faulty[domain.PaymentReceipt]{Repository: f.deps.Receipts, insertErr: errors.New("quota exceeded")}
	f.deps.Receipts = receipts
	svc = NewReceiptService(f.deps, zap.NewNop())

	_, err = svc.RecordManual(f.ctx, submitReq("t2", 20000), "admin")
	assert.ErrorContains(t, err, "quota exceeded")
	t2 := f.tenant(t, "t2")
	assert.Equal(t, int64(45000), t2.DebtAmount, "debt restored")
	assert.NotZero(t, t2.DaysLate)
}

func TestReceipt_ListAndStats(t *testing.T) {
	f := newFixture(t)
	svc := NewReceiptService(f.deps, zap.NewNop())

	a, err := svc.Submit(f.ctx, submitReq("t2", 10000))
	require.NoError(t, err)
	b, err := svc.Submit(f.ctx, submitReq("t3", 20000))
	require.NoError(t, err)
	_, err = svc.Submit(f.ctx, submitReq("t5", 30000))
	require.NoError(t, err)
	_, err = svc.Approve(f.ctx, a.ID, "admin")
	require.NoError(t, err)
	_, err = svc.Reject(f.ctx, b.ID, "admin", "monto incorrecto")
	require.NoError(t, err)

	st := svc.Stats(f.ctx)
	assert.Equal(t, ReceiptStats{Pending: 1, Approved: 1, Rejected: 1, ApprovedTotal: 10000}, st)

	pending := svc.List(f.ctx, ReceiptFilter{Status: domain.ReceiptPending})
	require.Len(t, pending, 1)
	assert.Equal(t, "t5", pending[0].TenantID)
	assert.Len(t, svc.List(f.ctx, ReceiptFilter{TenantID: "t3"}), 1)
}
