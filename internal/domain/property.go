package domain

import "strings"

// TransactionType how a property is offered.
type TransactionType string

const (
	TransactionForRent TransactionType = "for-rent"
	TransactionForSale TransactionType = "for-sale"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionForRent, TransactionForSale:
		return true
	}
	return false
}

// Availability of a listing.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityOccupied  Availability = "occupied"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityOccupied:
		return true
	}
	return false
}

// Property a listable unit.
type Property struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       int64           `json:"price"`
	Address     string          `json:"address"`
	Bedrooms    int             `json:"bedrooms"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Transaction TransactionType `json:"type"`
	Status      Availability    `json:"status"`
	Featured    bool            `json:"featured"`
	TenantID    *string         `json:"tenantId,omitempty"`
	ContractID  *string         `json:"contractId,omitempty"`
}

// Validate checks field ranges and the occupancy/reference invariant.
func (p Property) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Invalid("title", "is required")
	}
	if p.Price < 0 {
		return Invalid("price", "must not be negative")
	}
	if p.Bedrooms < 1 {
		return Invalid("bedrooms", "must be at least 1")
	}
	if !p.Transaction.Valid() {
		return Invalid("type", "unknown transaction type")
	}
	if !p.Status.Valid() {
		return Invalid("status", "unknown availability")
	}
	switch p.Status {
	case AvailabilityAvailable:
		if p.TenantID != nil || p.ContractID != nil {
			return Invalid("status", "available property cannot reference a tenant or contract")
		}
	case AvailabilityOccupied:
		if p.Transaction == TransactionForRent && (p.TenantID == nil || p.ContractID == nil) {
			return Invalid("status", "occupied rental requires tenant and contract")
		}
	}
	return nil
}

// IsRentable reports whether a new lease can be signed on the property.
func (p Property) IsRentable() bool {
	return p.Transaction == TransactionForRent && p.Status == AvailabilityAvailable
}

// Clone returns a copy that shares no pointers with p.
func (p Property) Clone() Property {
	p.TenantID = cloneString(p.TenantID)
	p.ContractID = cloneString(p.ContractID)
	return p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
