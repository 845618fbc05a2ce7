// Package service holds the operations that mutate the agency's collections.
package service

import (
	"context"
	"time"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/notify"
	"inmo-backoffice/internal/repository"

	"github.com/google/uuid"
)

// Clock returns the current instant; injected so dates are testable.
type Clock func() time.Time

// IDGenerator returns a fresh entity id.
type IDGenerator func() string

// Deps collaborators shared by every service.
type Deps struct {
	Properties repository.Repository[domain.Property]
	Tenants    repository.Repository[domain.Tenant]
	Contracts  repository.Repository[domain.Contract]
	Receipts   repository.Repository[domain.PaymentReceipt]
	Tickets    repository.Repository[domain.Ticket]
	Settings   repository.SettingsRepository
	Notifier   *notify.Dispatcher

	Now   Clock
	NewID IDGenerator
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// activeContract finds the tenant's active lease.
func activeContract(ctx context.Context, contracts repository.Repository[domain.Contract], tenantID string) (domain.Contract, bool) {
	for _, c := range contracts.List(ctx) {
		if c.TenantID == tenantID && c.IsActive() {
			return c, true
		}
	}
	return domain.Contract{}, false
}
