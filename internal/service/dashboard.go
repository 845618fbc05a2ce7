package service

import (
	"context"
	"time"

	"inmo-backoffice/internal/analytics"
	"inmo-backoffice/internal/delinquency"
	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"
)

// PaymentDueDay day of the month rent falls due.
const PaymentDueDay = 8

// DashboardView the administrator's operational summary.
type DashboardView struct {
	Pulse             analytics.Pulse          `json:"pulse"`
	Expirations       analytics.Timeline       `json:"expirations"`
	Delinquents       []delinquency.Delinquent `json:"delinquents"`
	OccupiedRentals   int                      `json:"occupiedRentals"`
	AvailableRentals  int                      `json:"availableRentals"`
	OpenTickets       int                      `json:"openTickets"`
	PendingEscalation int                      `json:"pendingEscalation"`
	Receipts          ReceiptStats             `json:"receipts"`
}

// TenantOverview what a tenant sees about their own account.
type TenantOverview struct {
	Tenant      domain.Tenant           `json:"tenant"`
	Tier        delinquency.Tier        `json:"tier"`
	Contract    *domain.Contract        `json:"contract,omitempty"`
	Property    *domain.Property        `json:"property,omitempty"`
	Receipts    []domain.PaymentReceipt `json:"receipts"`
	Tickets     []domain.Ticket         `json:"tickets"`
	NextDueDate time.Time               `json:"nextDueDate"`
}

// DashboardService read-only projections over all collections.
type DashboardService struct {
	properties repository.Repository[domain.Property]
	tenants    repository.Repository[domain.Tenant]
	contracts  repository.Repository[domain.Contract]
	receipts   repository.Repository[domain.PaymentReceipt]
	tickets    repository.Repository[domain.Ticket]
}

func NewDashboardService(deps Deps) *DashboardService {
	return &DashboardService{
		properties: deps.Properties,
		tenants:    deps.Tenants,
		contracts:  deps.Contracts,
		receipts:   deps.Receipts,
		tickets:    deps.Tickets,
	}
}

// Dashboard computes the summary for the billing period as of today.
func (s *DashboardService) Dashboard(ctx context.Context, period string, today time.Time) DashboardView {
	props := s.properties.List(ctx)
	tenants := s.tenants.List(ctx)
	contracts := s.contracts.List(ctx)
	receipts := s.receipts.List(ctx)

	v := DashboardView{
		Pulse:       analytics.CollectionPulse(contracts, receipts, period),
		Expirations: analytics.ExpirationTimeline(contracts, props, today),
		Delinquents: delinquency.Delinquents(tenants),
		OpenTickets: len(filterTickets(s.tickets.List(ctx), TicketFilter{OpenOnly: true})),
		Receipts:    receiptStats(receipts),
	}
	for _, p := range props {
		if p.Transaction != domain.TransactionForRent {
			continue
		}
		switch p.Status {
		case domain.AvailabilityOccupied:
			v.OccupiedRentals++
		case domain.AvailabilityAvailable:
			v.AvailableRentals++
		}
	}
	for _, t := range tenants {
		if delinquency.Escalation(t).Escalate {
			v.PendingEscalation++
		}
	}
	return v
}

// TenantOverview gathers one tenant's lease, payments and tickets.
func (s *DashboardService) TenantOverview(ctx context.Context, tenantID string, today time.Time) (TenantOverview, error) {
	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return TenantOverview{}, err
	}
	o := TenantOverview{
		Tenant:      t,
		Tier:        delinquency.Of(t),
		Receipts:    filterReceipts(s.receipts.List(ctx), ReceiptFilter{TenantID: t.ID}),
		Tickets:     filterTickets(s.tickets.List(ctx), TicketFilter{TenantID: t.ID}),
		NextDueDate: NextDueDate(today),
	}
	if c, ok := activeContract(ctx, s.contracts, t.ID); ok {
		o.Contract = &c
		if p, err := s.properties.Get(ctx, c.PropertyID); err == nil {
			o.Property = &p
		}
	}
	return o, nil
}

// NextDueDate the due day of the month after today's.
func NextDueDate(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()+1, PaymentDueDay, 0, 0, 0, 0, today.Location())
}
