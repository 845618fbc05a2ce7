package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/search"

	"go.uber.org/zap"
)

type CreateLeaseRequest struct {
	TenantID      string
	PropertyID    string
	StartDate     time.Time
	EndDate       time.Time
	MonthlyAmount int64
	FolioNumber   string
	Guarantor     domain.ContractGuarantor
	Increases     string
}

// LeaseService signs and ends contracts, keeping property occupancy in step.
type LeaseService struct {
	mu         sync.Mutex
	contracts  repository.Repository[domain.Contract]
	properties repository.Repository[domain.Property]
	tenants    repository.Repository[domain.Tenant]
	newID      IDGenerator
	logger     *zap.Logger
}

func NewLeaseService(deps Deps, logger *zap.Logger) *LeaseService {
	deps = deps.withDefaults()
	return &LeaseService{
		contracts:  deps.Contracts,
		properties: deps.Properties,
		tenants:    deps.Tenants,
		newID:      deps.NewID,
		logger:     logger,
	}
}

// CreateLease signs an active contract and marks the property occupied.
func (s *LeaseService) CreateLease(ctx context.Context, req CreateLeaseRequest) (domain.Contract, error) {
	c := domain.Contract{
		ID:            s.newID(),
		TenantID:      req.TenantID,
		PropertyID:    req.PropertyID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MonthlyAmount: req.MonthlyAmount,
		Status:        domain.ContractActive,
		FolioNumber:   strings.TrimSpace(req.FolioNumber),
		Guarantor:     req.Guarantor,
		Increases:     req.Increases,
	}
	if err := c.Validate(); err != nil {
		return domain.Contract{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tenants.Get(ctx, c.TenantID); err != nil {
		return domain.Contract{}, err
	}
	p, err := s.properties.Get(ctx, c.PropertyID)
	if err != nil {
		return domain.Contract{}, err
	}
	if p.Transaction != domain.TransactionForRent {
		return domain.Contract{}, domain.Invalid("propertyId", "property is not offered for rent")
	}
	for _, other := range s.contracts.List(ctx) {
		if strings.EqualFold(other.FolioNumber, c.FolioNumber) {
			return domain.Contract{}, domain.Invalid("folioNumber", "already used by contract "+other.ID)
		}
		if other.PropertyID == c.PropertyID && other.IsActive() {
			return domain.Contract{}, &domain.TransitionError{Entity: "property", ID: p.ID, From: string(p.Status), To: string(domain.AvailabilityOccupied)}
		}
	}
	if !p.IsRentable() {
		return domain.Contract{}, &domain.TransitionError{Entity: "property", ID: p.ID, From: string(p.Status), To: string(domain.AvailabilityOccupied)}
	}

	// The property is claimed first so a failed write never leaves an active
	// contract on an available property.
	if _, err := s.properties.Update(ctx, p.ID, func(p *domain.Property) error {
		p.Status = domain.AvailabilityOccupied
		p.TenantID = domain.StringPtr(c.TenantID)
		p.ContractID = domain.StringPtr(c.ID)
		return nil
	}); err != nil {
		return domain.Contract{}, err
	}
	if err := s.contracts.Insert(ctx, c); err != nil {
		if _, rerr := s.properties.Update(ctx, p.ID, func(cur *domain.Property) error {
			cur.Status, cur.TenantID, cur.ContractID = p.Status, p.TenantID, p.ContractID
			return nil
		}); rerr != nil {
			s.logger.Error("Failed to release property", zap.String("property_id", p.ID), zap.Error(rerr))
		}
		return domain.Contract{}, err
	}

	s.logger.Info("Lease created",
		zap.String("contract_id", c.ID),
		zap.String("folio", c.FolioNumber),
		zap.String("property_id", c.PropertyID),
		zap.String("tenant_id", c.TenantID),
	)
	return c, nil
}

// TerminateLease ends an active contract and releases the property. The contract is kept.
func (s *LeaseService) TerminateLease(ctx context.Context, contractID string) (domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminate(ctx, contractID)
}

func (s *LeaseService) terminate(ctx context.Context, contractID string) (domain.Contract, error) {
	c, err := s.contracts.Update(ctx, contractID, func(c *domain.Contract) error {
		if !c.IsActive() {
			return &domain.TransitionError{Entity: "contract", ID: contractID, From: string(c.Status), To: string(domain.ContractEnded)}
		}
		c.Status = domain.ContractEnded
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}

	_, err = s.properties.Update(ctx, c.PropertyID, func(p *domain.Property) error {
		if p.ContractID == nil || *p.ContractID != c.ID {
			return nil
		}
		p.Status = domain.AvailabilityAvailable
		p.TenantID = nil
		p.ContractID = nil
		return nil
	})
	if err != nil {
		s.logger.Warn("Ended contract references a missing property",
			zap.String("contract_id", c.ID),
			zap.String("property_id", c.PropertyID),
			zap.Error(err),
		)
	}
	s.logger.Info("Lease ended", zap.String("contract_id", c.ID))
	return c, nil
}

// ExpireLeases ends every active contract whose end date is before today.
func (s *LeaseService) ExpireLeases(ctx context.Context, today time.Time) ([]domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ended []domain.Contract
	for _, c := range s.contracts.List(ctx) {
		if !c.IsActive() || !c.ExpiredOn(today) {
			continue
		}
		done, err := s.terminate(ctx, c.ID)
		if err != nil {
			return ended, err
		}
		ended = append(ended, done)
	}
	return ended, nil
}

// ActiveContractFor returns the tenant's active lease, if any.
func (s *LeaseService) ActiveContractFor(ctx context.Context, tenantID string) (domain.Contract, bool) {
	return activeContract(ctx, s.contracts, tenantID)
}

// Search matches id, folio, tenant name or property title.
func (s *LeaseService) Search(ctx context.Context, query string) []domain.Contract {
	return search.Contracts(s.contracts.List(ctx), s.tenants.List(ctx), s.properties.List(ctx), query)
}
