package service

import (
	"context"

	"inmo-backoffice/internal/delinquency"
	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/notify"
	"inmo-backoffice/internal/repository"

	"go.uber.org/zap"
)

// NotificationService payment reminders and guarantor escalation.
type NotificationService struct {
	tenants  repository.Repository[domain.Tenant]
	notifier *notify.Dispatcher
	now      Clock
	logger   *zap.Logger
}

func NewNotificationService(deps Deps, logger *zap.Logger) *NotificationService {
	deps = deps.withDefaults()
	n := deps.Notifier
	if n == nil {
		n = notify.NewDispatcher(nil, logger)
	}
	return &NotificationService{tenants: deps.Tenants, notifier: n, now: deps.Now, logger: logger}
}

// RemindTenant asks a tenant with outstanding debt to pay.
func (s *NotificationService) RemindTenant(ctx context.Context, tenantID string) (notify.Notice, error) {
	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return notify.Notice{}, err
	}
	if delinquency.Of(t) == delinquency.TierCurrent {
		return notify.Notice{}, domain.Invalid("tenantId", "tenant has no outstanding debt")
	}
	n := notify.Notice{
		Kind:       notify.KindPaymentReminder,
		Phone:      t.Phone,
		TenantID:   t.ID,
		TenantName: t.Name,
		Amount:     t.DebtAmount,
		DaysLate:   t.DaysLate,
		CreatedAt:  s.now(),
	}
	return n, s.notifier.Send(ctx, n)
}

// EscalateToGuarantor contacts the guarantor of a serious defaulter.
func (s *NotificationService) EscalateToGuarantor(ctx context.Context, tenantID string) (notify.Notice, error) {
	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return notify.Notice{}, err
	}
	d := delinquency.Escalation(t)
	if !d.Escalate {
		if delinquency.ShouldEscalate(d.Tier) {
			return notify.Notice{}, domain.Invalid("guarantor", "tenant has no guarantor to contact")
		}
		return notify.Notice{}, domain.Invalid("tenantId", "only serious-default tenants are escalated")
	}
	n := s.escalationNotice(t, d)
	return n, s.notifier.Send(ctx, n)
}

// EscalateAll escalates every serious defaulter that has a guarantor and
// returns the notices that were delivered.
func (s *NotificationService) EscalateAll(ctx context.Context) []notify.Notice {
	var sent []notify.Notice
	for _, t := range s.tenants.List(ctx) {
		d := delinquency.Escalation(t)
		if !d.Escalate {
			if delinquency.ShouldEscalate(d.Tier) {
				s.logger.Warn("Serious defaulter without guarantor", zap.String("tenant_id", t.ID))
			}
			continue
		}
		n := s.escalationNotice(t, d)
		if err := s.notifier.Send(ctx, n); err != nil {
			continue
		}
		sent = append(sent, n)
	}
	return sent
}

func (s *NotificationService) escalationNotice(t domain.Tenant, d delinquency.Decision) notify.Notice {
	return notify.Notice{
		Kind:       notify.KindGuarantorEscalation,
		Phone:      d.Guarantor.Phone,
		TenantID:   t.ID,
		TenantName: t.Name,
		Amount:     t.DebtAmount,
		DaysLate:   t.DaysLate,
		Subject:    d.Guarantor.Name,
		CreatedAt:  s.now(),
	}
}
