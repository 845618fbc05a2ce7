package search

import "inmo-backoffice/internal/domain"

// ListingFilter rental listing criteria. Nil bounds impose no constraint.
type ListingFilter struct {
	Transaction   *domain.TransactionType
	OnlyAvailable bool
	Bedrooms      *int
	MinPrice      *int64
	MaxPrice      *int64
}

// RentalFilter the public rentals page defaults: for-rent listings only.
func RentalFilter() ListingFilter {
	rent := domain.TransactionForRent
	return ListingFilter{Transaction: &rent, OnlyAvailable: true}
}

// Match reports whether every configured predicate holds for p.
func (f ListingFilter) Match(p domain.Property) bool {
	if f.Transaction != nil && p.Transaction != *f.Transaction {
		return false
	}
	if f.OnlyAvailable && p.Status != domain.AvailabilityAvailable {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply keeps the properties matching f, preserving order.
func (f ListingFilter) Apply(items []domain.Property) []domain.Property {
	out := make([]domain.Property, 0, len(items))
	for _, p := range items {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedListings featured properties that are still available.
func FeaturedListings(items []domain.Property) []domain.Property {
	out := make([]domain.Property, 0)
	for _, p := range items {
		if p.Featured && p.Status == domain.AvailabilityAvailable {
			out = append(out, p)
		}
	}
	return out
}
