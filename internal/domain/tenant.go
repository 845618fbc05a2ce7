package domain

import "strings"

// Guarantor vouches for a tenant's debt.
type Guarantor struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Tenant a person renting, or having rented, a property.
// Payment status is derived, never stored: see delinquency.Classify.
type Tenant struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	DebtAmount int64      `json:"debtAmount"`
	DaysLate   int        `json:"daysLate"`
	Guarantor  *Guarantor `json:"guarantor,omitempty"`
}

// Validate enforces debt == 0 <=> daysLate == 0.
func (t Tenant) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Invalid("name", "is required")
	}
	if strings.TrimSpace(t.Phone) == "" {
		return Invalid("phone", "is required")
	}
	return ValidateArrears(t.DebtAmount, t.DaysLate)
}

// ValidateArrears checks a debt/days-late pair on its own.
func ValidateArrears(debt int64, daysLate int) error {
	if debt < 0 {
		return Invalid("debtAmount", "must not be negative")
	}
	if daysLate < 0 {
		return Invalid("daysLate", "must not be negative")
	}
	if (debt == 0) != (daysLate == 0) {
		return Invalid("daysLate", "must be zero exactly when debt is zero")
	}
	return nil
}

// ApplyPayment reduces the debt by min(amount, debt) and returns the amount applied.
// Lateness is cleared once the debt is settled.
func (t *Tenant) ApplyPayment(amount int64) int64 {
	if amount <= 0 || t.DebtAmount == 0 {
		return 0
	}
	applied := amount
	if applied > t.DebtAmount {
		applied = t.DebtAmount
	}
	t.DebtAmount -= applied
	if t.DebtAmount == 0 {
		t.DaysLate = 0
	}
	return applied
}

func (t Tenant) Clone() Tenant {
	if t.Guarantor != nil {
		g := *t.Guarantor
		t.Guarantor = &g
	}
	return t
}
