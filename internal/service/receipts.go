package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"

	"go.uber.org/zap"
)

// SubmitReceiptRequest a tenant's payment evidence.
type SubmitReceiptRequest struct {
	TenantID    string
	Amount      int64
	Period      string
	PaymentDate time.Time
	Method      domain.PaymentMethod
	Comments    *string
	ReceiptURL  *string
}

// ReceiptFilter zero fields match everything.
type ReceiptFilter struct {
	Status   domain.ReceiptStatus
	TenantID string
}

type ReceiptStats struct {
	Pending       int   `json:"pending"`
	Approved      int   `json:"approved"`
	Rejected      int   `json:"rejected"`
	ApprovedTotal int64 `json:"approvedTotal"`
}

// ReceiptService the payment receipt review workflow.
type ReceiptService struct {
	// mu serializes review so the receipt and the tenant's debt change together.
	mu         sync.Mutex
	receipts   repository.Repository[domain.PaymentReceipt]
	tenants    repository.Repository[domain.Tenant]
	contracts  repository.Repository[domain.Contract]
	properties repository.Repository[domain.Property]
	now        Clock
	newID      IDGenerator
	logger     *zap.Logger
}

func NewReceiptService(deps Deps, logger *zap.Logger) *ReceiptService {
	deps = deps.withDefaults()
	return &ReceiptService{
		receipts:   deps.Receipts,
		tenants:    deps.Tenants,
		contracts:  deps.Contracts,
		properties: deps.Properties,
		now:        deps.Now,
		newID:      deps.NewID,
		logger:     logger,
	}
}

func (s *ReceiptService) validate(req SubmitReceiptRequest) error {
	if req.Amount <= 0 {
		return domain.Invalid("amount", "must be positive")
	}
	if strings.TrimSpace(req.Period) == "" {
		return domain.Invalid("period", "is required")
	}
	if req.PaymentDate.IsZero() {
		return domain.Invalid("paymentDate", "is required")
	}
	today := s.now()
	if domain.DateOf(req.PaymentDate, today.Location()).After(domain.DateOf(today, today.Location())) {
		return domain.Invalid("paymentDate", "cannot be in the future")
	}
	if !req.Method.Valid() {
		return domain.Invalid("method", "unknown payment method")
	}
	return nil
}

// newReceipt builds a pending receipt with the tenant's name and address copied in.
func (s *ReceiptService) newReceipt(ctx context.Context, req SubmitReceiptRequest) (domain.PaymentReceipt, error) {
	if err := s.validate(req); err != nil {
		return domain.PaymentReceipt{}, err
	}
	tenant, err := s.tenants.Get(ctx, req.TenantID)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}

	r := domain.PaymentReceipt{
		ID:          s.newID(),
		TenantID:    tenant.ID,
		TenantName:  tenant.Name,
		Amount:      req.Amount,
		Period:      strings.TrimSpace(req.Period),
		SubmittedAt: s.now(),
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		Status:      domain.ReceiptPending,
		ReceiptURL:  req.ReceiptURL,
		Comments:    req.Comments,
	}
	if c, ok := activeContract(ctx, s.contracts, tenant.ID); ok {
		if p, err := s.properties.Get(ctx, c.PropertyID); err == nil {
			r.PropertyAddress = p.Address
		}
	}
	return r, nil
}

// Submit records a pending receipt for later review.
func (s *ReceiptService) Submit(ctx context.Context, req SubmitReceiptRequest) (domain.PaymentReceipt, error) {
	r, err := s.newReceipt(ctx, req)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}
	if err := s.receipts.Insert(ctx, r); err != nil {
		return domain.PaymentReceipt{}, err
	}
	s.logger.Info("Receipt submitted",
		zap.String("receipt_id", r.ID),
		zap.String("tenant_id", r.TenantID),
		zap.Int64("amount", r.Amount),
		zap.String("period", r.Period),
	)
	return r, nil
}

// review moves a pending receipt to status, or fails with a transition error.
func (s *ReceiptService) review(ctx context.Context, id string, status domain.ReceiptStatus, reviewer string, comments *string) (domain.PaymentReceipt, error) {
	return s.receipts.Update(ctx, id, func(r *domain.PaymentReceipt) error {
		if r.Status != domain.ReceiptPending {
			return &domain.TransitionError{Entity: "receipt", ID: id, From: string(r.Status), To: string(status)}
		}
		r.Status = status
		r.Review = &domain.Review{By: reviewer, At: s.now()}
		if comments != nil {
			r.Comments = comments
		}
		return nil
	})
}

// applyPayment reduces the tenant's debt by the receipt amount and returns
// the tenant as it was before. A tenant that no longer exists is logged and
// skipped; any other failure is returned.
func (s *ReceiptService) applyPayment(ctx context.Context, r domain.PaymentReceipt) (prev *domain.Tenant, err error) {
	var applied int64
	t, err := s.tenants.Update(ctx, r.TenantID, func(t *domain.Tenant) error {
		before := *t
		prev = &before
		applied = t.ApplyPayment(r.Amount)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Approved receipt for unknown tenant",
			zap.String("receipt_id", r.ID),
			zap.String("tenant_id", r.TenantID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply receipt %s to tenant %s: %w", r.ID, r.TenantID, err)
	}
	s.logger.Info("Debt reduced",
		zap.String("tenant_id", t.ID),
		zap.Int64("applied", applied),
		zap.Int64("remaining", t.DebtAmount),
	)
	return prev, nil
}

// Approve accepts a pending receipt and credits the amount against the tenant's
// debt. If the debt cannot be updated the receipt stays pending.
func (s *ReceiptService) Approve(ctx context.Context, receiptID, reviewer string) (domain.PaymentReceipt, error) {
	if strings.TrimSpace(reviewer) == "" {
		return domain.PaymentReceipt{}, domain.Invalid("reviewer", "is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.review(ctx, receiptID, domain.ReceiptApproved, reviewer, nil)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}
	if _, err := s.applyPayment(ctx, r); err != nil {
		if _, rerr := s.receipts.Update(ctx, r.ID, func(r *domain.PaymentReceipt) error {
			r.Status = domain.ReceiptPending
			r.Review = nil
			return nil
		}); rerr != nil {
			s.logger.Error("Failed to revert receipt approval", zap.String("receipt_id", r.ID), zap.Error(rerr))
		}
		return domain.PaymentReceipt{}, err
	}
	return r, nil
}

// Reject declines a pending receipt; the reason is kept in Comments.
func (s *ReceiptService) Reject(ctx context.Context, receiptID, reviewer, reason string) (domain.PaymentReceipt, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.PaymentReceipt{}, domain.Invalid("reason", "is required")
	}
	if strings.TrimSpace(reviewer) == "" {
		return domain.PaymentReceipt{}, domain.Invalid("reviewer", "is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.review(ctx, receiptID, domain.ReceiptRejected, reviewer, &reason)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}
	s.logger.Info("Receipt rejected", zap.String("receipt_id", r.ID), zap.String("reason", reason))
	return r, nil
}

// RecordManual registers a payment taken at the office; it is approved on
// creation. The debt is reduced first so a failure leaves no receipt behind.
func (s *ReceiptService) RecordManual(ctx context.Context, req SubmitReceiptRequest, reviewer string) (domain.PaymentReceipt, error) {
	if strings.TrimSpace(reviewer) == "" {
		return domain.PaymentReceipt{}, domain.Invalid("reviewer", "is required")
	}
	r, err := s.newReceipt(ctx, req)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}
	r.Status = domain.ReceiptApproved
	r.Review = &domain.Review{By: reviewer, At: r.SubmittedAt}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.applyPayment(ctx, r)
	if err != nil {
		return domain.PaymentReceipt{}, err
	}
	if err := s.receipts.Insert(ctx, r); err != nil {
		if prev != nil {
			if _, rerr := s.tenants.Update(ctx, prev.ID, func(t *domain.Tenant) error {
				t.DebtAmount, t.DaysLate = prev.DebtAmount, prev.DaysLate
				return nil
			}); rerr != nil {
				s.logger.Error("Failed to restore tenant debt", zap.String("tenant_id", prev.ID), zap.Error(rerr))
			}
		}
		return domain.PaymentReceipt{}, err
	}
	return r, nil
}

func (s *ReceiptService) Get(ctx context.Context, id string) (domain.PaymentReceipt, error) {
	return s.receipts.Get(ctx, id)
}

// List returns matching receipts, newest submission first.
func (s *ReceiptService) List(ctx context.Context, f ReceiptFilter) []domain.PaymentReceipt {
	return filterReceipts(s.receipts.List(ctx), f)
}

func (s *ReceiptService) Stats(ctx context.Context) ReceiptStats {
	return receiptStats(s.receipts.List(ctx))
}

func filterReceipts(all []domain.PaymentReceipt, f ReceiptFilter) []domain.PaymentReceipt {
	out := make([]domain.PaymentReceipt, 0, len(all))
	for _, r := range all {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.TenantID != "" && r.TenantID != f.TenantID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func receiptStats(all []domain.PaymentReceipt) ReceiptStats {
	var st ReceiptStats
	for _, r := range all {
		switch r.Status {
		case domain.ReceiptPending:
			st.Pending++
		case domain.ReceiptApproved:
			st.Approved++
			st.ApprovedTotal += r.Amount
		case domain.ReceiptRejected:
			st.Rejected++
		}
	}
	return st
}
