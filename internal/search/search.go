// Package search holds stateless predicates over the domain collections.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"inmo-backoffice/internal/domain"
)

// fold lower-cases s and strips combining marks so "Colón" matches "colon".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func matchAny(query string, fields ...string) bool {
	q := fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// Properties matches title, address or identifier.
func Properties(items []domain.Property, query string) []domain.Property {
	out := make([]domain.Property, 0, len(items))
	for _, p := range items {
		if matchAny(query, p.Title, p.Address, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Tenants matches name or phone.
func Tenants(items []domain.Tenant, query string) []domain.Tenant {
	out := make([]domain.Tenant, 0, len(items))
	for _, t := range items {
		if matchAny(query, t.Name, t.Phone) {
			out = append(out, t)
		}
	}
	return out
}

// Contracts matches identifier, folio number, or the linked tenant name and property title.
func Contracts(items []domain.Contract, tenants []domain.Tenant, properties []domain.Property, query string) []domain.Contract {
	names := make(map[string]string, len(tenants))
	for _, t := range tenants {
		names[t.ID] = t.Name
	}
	titles := make(map[string]string, len(properties))
	for _, p := range properties {
		titles[p.ID] = p.Title
	}

	out := make([]domain.Contract, 0, len(items))
	for _, c := range items {
		if matchAny(query, c.ID, c.FolioNumber, names[c.TenantID], titles[c.PropertyID]) {
			out = append(out, c)
		}
	}
	return out
}
