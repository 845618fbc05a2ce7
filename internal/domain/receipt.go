package domain

import (
	"strings"
	"time"
)

// PaymentMethod how the tenant paid.
type PaymentMethod string

const (
	MethodTransfer     PaymentMethod = "transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
	MethodCard         PaymentMethod = "card"
	MethodMobileWallet PaymentMethod = "mobile-wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodTransfer, MethodCash, MethodCheck, MethodCard, MethodMobileWallet:
		return true
	}
	return false
}

// ReceiptStatus review state. Approved and rejected are terminal.
type ReceiptStatus string

const (
	ReceiptPending  ReceiptStatus = "pending"
	ReceiptApproved ReceiptStatus = "approved"
	ReceiptRejected ReceiptStatus = "rejected"
)

func (s ReceiptStatus) Valid() bool {
	switch s {
	case ReceiptPending, ReceiptApproved, ReceiptRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s ReceiptStatus) Terminal() bool {
	switch s {
	case ReceiptApproved, ReceiptRejected:
		return true
	case ReceiptPending:
		return false
	}
	return false
}

// Review who decided on a receipt, and when.
type Review struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

// PaymentReceipt evidence of a rent payment.
type PaymentReceipt struct {
	ID              string        `json:"id"`
	TenantID        string        `json:"tenantId"`
	TenantName      string        `json:"tenantName"`
	PropertyAddress string        `json:"propertyAddress,omitempty"`
	Amount          int64         `json:"amount"`
	Period          string        `json:"period"`
	SubmittedAt     time.Time     `json:"submittedAt"`
	PaymentDate     time.Time     `json:"paymentDate"`
	Method          PaymentMethod `json:"method"`
	Status          ReceiptStatus `json:"status"`
	ReceiptURL      *string       `json:"receiptUrl,omitempty"`
	Comments        *string       `json:"comments,omitempty"`
	Review          *Review       `json:"review,omitempty"`
}

// Validate checks the review/status and rejection/reason invariants.
func (r PaymentReceipt) Validate() error {
	if r.TenantID == "" {
		return Invalid("tenantId", "is required")
	}
	if r.Amount <= 0 {
		return Invalid("amount", "must be positive")
	}
	if strings.TrimSpace(r.Period) == "" {
		return Invalid("period", "is required")
	}
	if !r.Method.Valid() {
		return Invalid("method", "unknown payment method")
	}
	if !r.Status.Valid() {
		return Invalid("status", "unknown receipt status")
	}
	if r.Status.Terminal() != (r.Review != nil) {
		return Invalid("review", "must be present exactly when the receipt is reviewed")
	}
	if r.Status == ReceiptRejected && (r.Comments == nil || strings.TrimSpace(*r.Comments) == "") {
		return Invalid("comments", "rejection requires a reason")
	}
	return nil
}

// MatchesPeriod compares billing period labels, ignoring case and surrounding space.
func (r PaymentReceipt) MatchesPeriod(period string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Period), strings.TrimSpace(period))
}

func (r PaymentReceipt) Clone() PaymentReceipt {
	r.ReceiptURL = cloneString(r.ReceiptURL)
	r.Comments = cloneString(r.Comments)
	if r.Review != nil {
		rv := *r.Review
		r.Review = &rv
	}
	return r
}
