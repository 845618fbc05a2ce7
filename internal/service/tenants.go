package service

import (
	"context"
	"strings"

	"inmo-backoffice/internal/delinquency"
	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/search"

	"go.uber.org/zap"
)

type RegisterTenantRequest struct {
	Name      string
	Phone     string
	Guarantor *domain.Guarantor
}

type TenantService struct {
	tenants repository.Repository[domain.Tenant]
	newID   IDGenerator
	logger  *zap.Logger
}

func NewTenantService(deps Deps, logger *zap.Logger) *TenantService {
	deps = deps.withDefaults()
	return &TenantService{tenants: deps.Tenants, newID: deps.NewID, logger: logger}
}

// RegisterTenant adds a tenant with no debt.
func (s *TenantService) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (domain.Tenant, error) {
	t := domain.Tenant{
		ID:    s.newID(),
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
	}
	if req.Guarantor != nil {
		g := *req.Guarantor
		t.Guarantor = &g
	}
	if err := s.tenants.Insert(ctx, t); err != nil {
		return domain.Tenant{}, err
	}
	s.logger.Info("Tenant registered", zap.String("tenant_id", t.ID))
	return t, nil
}

// UpdateArrears records debt and lateness computed by the external aging process.
func (s *TenantService) UpdateArrears(ctx context.Context, tenantID string, debt int64, daysLate int) (domain.Tenant, error) {
	if err := domain.ValidateArrears(debt, daysLate); err != nil {
		return domain.Tenant{}, err
	}
	t, err := s.tenants.Update(ctx, tenantID, func(t *domain.Tenant) error {
		t.DebtAmount = debt
		t.DaysLate = daysLate
		return nil
	})
	if err != nil {
		return domain.Tenant{}, err
	}
	s.logger.Info("Arrears updated",
		zap.String("tenant_id", t.ID),
		zap.Int64("debt", debt),
		zap.Int("days_late", daysLate),
		zap.String("tier", string(delinquency.Of(t))),
	)
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, id string) (domain.Tenant, error) {
	return s.tenants.Get(ctx, id)
}

// Search matches name or phone; an empty query lists everyone.
func (s *TenantService) Search(ctx context.Context, query string) []domain.Tenant {
	return search.Tenants(s.tenants.List(ctx), query)
}

func (s *TenantService) Delinquents(ctx context.Context) []delinquency.Delinquent {
	return delinquency.Delinquents(s.tenants.List(ctx))
}
