package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"inmo-backoffice/internal/store"
)

// RegisterMigrations installs the upgrades for values written before the
// versioned envelope existed.
func RegisterMigrations(s *store.Store) {
	s.RegisterMigration(KeyContracts, 0, contractsUpgrade)
	s.RegisterMigration(KeyTenants, 0, tenantsDropStatus)
	s.RegisterMigration(KeyConfig, 0, configRenameWhatsapp)
}

func eachObject(data json.RawMessage, fn func(map[string]any)) (json.RawMessage, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	for _, r := range rows {
		fn(r)
	}
	return json.Marshal(rows)
}

var legacyContractStatus = map[string]string{
	"vigente":    "active",
	"finalizado": "ended",
}

// contractsUpgrade gives folio-less contracts a LEGACY-<id> folio, widens
// date-only values to timestamps and maps the old status labels.
func contractsUpgrade(data json.RawMessage) (json.RawMessage, error) {
	return eachObject(data, func(r map[string]any) {
		folio, _ := r["folioNumber"].(string)
		if strings.TrimSpace(folio) == "" {
			id, _ := r["id"].(string)
			r["folioNumber"] = "LEGACY-" + id
		}
		for _, f := range []string{"startDate", "endDate"} {
			if d, ok := r[f].(string); ok {
				if t, err := time.Parse(time.DateOnly, d); err == nil {
					r[f] = t.Format(time.RFC3339)
				}
			}
		}
		if st, ok := r["status"].(string); ok {
			if mapped, ok := legacyContractStatus[st]; ok {
				r["status"] = mapped
			}
		}
		if g, ok := r["guarantor"].(map[string]any); ok {
			if dni, ok := g["dni"]; ok {
				g["nationalId"] = dni
				delete(g, "dni")
			}
		}
	})
}

// tenantsDropStatus removes the payment status that used to be stored next to the debt.
func tenantsDropStatus(data json.RawMessage) (json.RawMessage, error) {
	return eachObject(data, func(r map[string]any) {
		delete(r, "status")
		delete(r, "avatar")
	})
}

// configRenameWhatsapp maps the old whatsappNumber field onto contactPhone.
func configRenameWhatsapp(data json.RawMessage) (json.RawMessage, error) {
	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	if phone, ok := cfg["whatsappNumber"]; ok {
		if _, has := cfg["contactPhone"]; !has {
			cfg["contactPhone"] = phone
		}
		delete(cfg, "whatsappNumber")
	}
	return json.Marshal(cfg)
}
