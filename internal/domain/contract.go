package domain

import (
	"strings"
	"time"
)

// ContractStatus lease status.
type ContractStatus string

const (
	ContractActive ContractStatus = "active"
	ContractEnded  ContractStatus = "ended"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractActive, ContractEnded:
		return true
	}
	return false
}

// ContractGuarantor guarantor as recorded on the lease.
type ContractGuarantor struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
}

// Contract a lease binding one tenant to one property.
type Contract struct {
	ID            string            `json:"id"`
	TenantID      string            `json:"tenantId"`
	PropertyID    string            `json:"propertyId"`
	StartDate     time.Time         `json:"startDate"`
	EndDate       time.Time         `json:"endDate"`
	MonthlyAmount int64             `json:"monthlyAmount"`
	Status        ContractStatus    `json:"status"`
	FolioNumber   string            `json:"folioNumber"`
	Guarantor     ContractGuarantor `json:"guarantor"`
	Increases     string            `json:"increases"`
}

func (c Contract) Validate() error {
	if c.TenantID == "" {
		return Invalid("tenantId", "is required")
	}
	if c.PropertyID == "" {
		return Invalid("propertyId", "is required")
	}
	if strings.TrimSpace(c.FolioNumber) == "" {
		return Invalid("folioNumber", "is required")
	}
	if c.MonthlyAmount <= 0 {
		return Invalid("monthlyAmount", "must be positive")
	}
	if !c.EndDate.After(c.StartDate) {
		return Invalid("endDate", "must be after start date")
	}
	if !c.Status.Valid() {
		return Invalid("status", "unknown contract status")
	}
	return nil
}

// Clone returns c; contracts hold no shared references.
func (c Contract) Clone() Contract { return c }

func (c Contract) IsActive() bool { return c.Status == ContractActive }

// ExpiredOn reports whether the end date falls before today's calendar date.
func (c Contract) ExpiredOn(today time.Time) bool {
	return DateOf(c.EndDate, today.Location()).Before(DateOf(today, today.Location()))
}

// DateOf truncates t to midnight of its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
