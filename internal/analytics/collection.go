package analytics

import "inmo-backoffice/internal/domain"

// Pulse expected vs. collected rent for one billing period.
type Pulse struct {
	Period         string `json:"period"`
	TotalExpected  int64  `json:"totalExpected"`
	TotalCollected int64  `json:"totalCollected"`
	Percentage     int    `json:"percentage"`
	Shortfall      int64  `json:"shortfall"`
	OverCollected  bool   `json:"overCollected"`
	Surplus        int64  `json:"surplus"`
}

// CollectionPulse sums active contract rent against approved receipts for period.
// The percentage is rounded half up and clamped to [0, 100]; collections above
// the expected total are reported as Surplus instead of a negative shortfall.
func CollectionPulse(contracts []domain.Contract, receipts []domain.PaymentReceipt, period string) Pulse {
	p := Pulse{Period: period}
	for _, c := range contracts {
		if c.IsActive() {
			p.TotalExpected += c.MonthlyAmount
		}
	}
	for _, r := range receipts {
		if r.Status == domain.ReceiptApproved && r.MatchesPeriod(period) {
			p.TotalCollected += r.Amount
		}
	}

	if p.TotalExpected > 0 {
		pct := (p.TotalCollected*100 + p.TotalExpected/2) / p.TotalExpected
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		p.Percentage = int(pct)
	}

	if p.TotalCollected > p.TotalExpected {
		p.OverCollected = true
		p.Surplus = p.TotalCollected - p.TotalExpected
	} else {
		p.Shortfall = p.TotalExpected - p.TotalCollected
	}
	return p
}
