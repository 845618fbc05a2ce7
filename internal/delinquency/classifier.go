// Package delinquency turns a tenant's outstanding debt and lateness into a
// payment-status tier and decides when a guarantor should be contacted.
package delinquency

import (
	"sort"

	"inmo-backoffice/internal/domain"
)

// SeriousDefaultDays lateness beyond which a debtor is in serious default.
const SeriousDefaultDays = 10

// Tier payment-status tier.
type Tier string

const (
	TierCurrent        Tier = "current"
	TierLate           Tier = "late"
	TierSeriousDefault Tier = "serious-default"
)

func (t Tier) Valid() bool {
	switch t {
	case TierCurrent, TierLate, TierSeriousDefault:
		return true
	}
	return false
}

// Classify maps debt and days late onto a tier.
func Classify(debtAmount int64, daysLate int) Tier {
	switch {
	case debtAmount <= 0:
		return TierCurrent
	case daysLate <= SeriousDefaultDays:
		return TierLate
	default:
		return TierSeriousDefault
	}
}

// Of classifies a tenant.
func Of(t domain.Tenant) Tier {
	return Classify(t.DebtAmount, t.DaysLate)
}

// ShouldEscalate only serious default triggers guarantor contact.
func ShouldEscalate(tier Tier) bool {
	switch tier {
	case TierSeriousDefault:
		return true
	case TierCurrent, TierLate:
		return false
	}
	return false
}

// Decision escalation outcome for one tenant.
type Decision struct {
	TenantID  string
	Tier      Tier
	Escalate  bool
	Guarantor *domain.Guarantor
}

// Escalation decides whether the tenant's guarantor must be contacted.
// A serious defaulter without a guarantor is not escalatable.
func Escalation(t domain.Tenant) Decision {
	tier := Of(t)
	d := Decision{TenantID: t.ID, Tier: tier}
	if ShouldEscalate(tier) && t.Guarantor != nil && t.Guarantor.Phone != "" {
		g := *t.Guarantor
		d.Escalate = true
		d.Guarantor = &g
	}
	return d
}

// Delinquent a non-current tenant with its tier.
type Delinquent struct {
	Tenant domain.Tenant `json:"tenant"`
	Tier   Tier          `json:"tier"`
}

// Delinquents lists non-current tenants, most days late first.
func Delinquents(tenants []domain.Tenant) []Delinquent {
	out := make([]Delinquent, 0)
	for _, t := range tenants {
		tier := Of(t)
		if tier == TierCurrent {
			continue
		}
		out = append(out, Delinquent{Tenant: t, Tier: tier})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tenant.DaysLate != out[j].Tenant.DaysLate {
			return out[i].Tenant.DaysLate > out[j].Tenant.DaysLate
		}
		return out[i].Tenant.DebtAmount > out[j].Tenant.DebtAmount
	})
	return out
}
