package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_MatchSentinels(t *testing.T) {
	assert.True(t, errors.Is(Invalid("amount", "must be positive"), ErrValidation))
	assert.False(t, errors.Is(Invalid("amount", "x"), ErrInvalidTransition))

	terr := &TransitionError{Entity: "receipt", ID: "r1", From: "approved", To: "rejected"}
	assert.True(t, errors.Is(terr, ErrInvalidTransition))
	assert.Contains(t, terr.Error(), "approved")

	assert.True(t, errors.Is(NotFound("tenant", "t9"), ErrNotFound))
}

func TestProperty_Validate(t *testing.T) {
	base := Property{ID: "p1", Title: "Loft", Price: 100, Bedrooms: 1,
		Transaction: TransactionForRent, Status: AvailabilityAvailable}
	require.NoError(t, base.Validate())

	noBeds := base
	noBeds.Bedrooms = 0
	assert.ErrorIs(t, noBeds.Validate(), ErrValidation)

	occupiedNoRefs := base
	occupiedNoRefs.Status = AvailabilityOccupied
	assert.ErrorIs(t, occupiedNoRefs.Validate(), ErrValidation)

	occupied := occupiedNoRefs
	occupied.TenantID = StringPtr("t1")
	occupied.ContractID = StringPtr("c1")
	assert.NoError(t, occupied.Validate())

	availableWithRef := base
	availableWithRef.TenantID = StringPtr("t1")
	assert.ErrorIs(t, availableWithRef.Validate(), ErrValidation)

	sold := base
	sold.Transaction = TransactionForSale
	sold.Status = AvailabilityOccupied
	assert.NoError(t, sold.Validate())
}

func TestProperty_CloneDoesNotAlias(t *testing.T) {
	p := Property{TenantID: StringPtr("t1")}
	c := p.Clone()
	*c.TenantID = "t2"
	assert.Equal(t, "t1", *p.TenantID)
}

func TestTenant_ValidateArrearsInvariant(t *testing.T) {
	assert.NoError(t, ValidateArrears(0, 0))
	assert.NoError(t, ValidateArrears(45000, 5))
	assert.ErrorIs(t, ValidateArrears(0, 3), ErrValidation)
	assert.ErrorIs(t, ValidateArrears(100, 0), ErrValidation)
	assert.ErrorIs(t, ValidateArrears(-1, 0), ErrValidation)
	assert.ErrorIs(t, ValidateArrears(10, -2), ErrValidation)

	assert.ErrorIs(t, Tenant{Phone: "1"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Tenant{Name: "A"}.Validate(), ErrValidation)
}

func TestTenant_ApplyPayment(t *testing.T) {
	tn := Tenant{DebtAmount: 98000, DaysLate: 12}
	assert.Equal(t, int64(40000), tn.ApplyPayment(40000))
	assert.Equal(t, int64(58000), tn.DebtAmount)
	assert.Equal(t, 12, tn.DaysLate)

	assert.Equal(t, int64(58000), tn.ApplyPayment(100000))
	assert.Equal(t, int64(0), tn.DebtAmount)
	assert.Equal(t, 0, tn.DaysLate)

	assert.Equal(t, int64(0), tn.ApplyPayment(500))
	assert.Equal(t, int64(0), tn.DebtAmount)
}

func TestContract_Validate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Contract{TenantID: "t1", PropertyID: "p1", FolioNumber: "A30", MonthlyAmount: 185000,
		StartDate: start, EndDate: start.AddDate(1, 0, 0), Status: ContractActive}
	require.NoError(t, c.Validate())

	same := c
	same.EndDate = start
	assert.ErrorIs(t, same.Validate(), ErrValidation)

	noFolio := c
	noFolio.FolioNumber = " "
	assert.ErrorIs(t, noFolio.Validate(), ErrValidation)
}

func TestContract_ExpiredOn(t *testing.T) {
	c := Contract{EndDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)}
	assert.True(t, c.ExpiredOn(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)))
	assert.False(t, c.ExpiredOn(time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC)))
}

func TestReceipt_Validate(t *testing.T) {
	r := PaymentReceipt{TenantID: "t1", Amount: 1000, Period: "Enero 2026",
		Method: MethodTransfer, Status: ReceiptPending}
	require.NoError(t, r.Validate())

	reviewedPending := r
	reviewedPending.Review = &Review{By: "Juan"}
	assert.ErrorIs(t, reviewedPending.Validate(), ErrValidation)

	approvedNoReview := r
	approvedNoReview.Status = ReceiptApproved
	assert.ErrorIs(t, approvedNoReview.Validate(), ErrValidation)

	rejectedNoReason := r
	rejectedNoReason.Status = ReceiptRejected
	rejectedNoReason.Review = &Review{By: "Juan"}
	assert.ErrorIs(t, rejectedNoReason.Validate(), ErrValidation)

	rejectedNoReason.Comments = StringPtr("illegible")
	assert.NoError(t, rejectedNoReason.Validate())
}

func TestReceipt_MatchesPeriod(t *testing.T) {
	r := PaymentReceipt{Period: " Enero 2026"}
	assert.True(t, r.MatchesPeriod("enero 2026 "))
	assert.False(t, r.MatchesPeriod("Febrero 2026"))
}

func TestTicketStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, TicketPending.CanAdvanceTo(TicketInProgress))
	assert.True(t, TicketPending.CanAdvanceTo(TicketAwaitingQuote))
	assert.True(t, TicketInProgress.CanAdvanceTo(TicketAwaitingQuote))

	assert.False(t, TicketInProgress.CanAdvanceTo(TicketPending))
	assert.False(t, TicketPending.CanAdvanceTo(TicketPending))
	assert.False(t, TicketPending.CanAdvanceTo(TicketResolved))
	assert.False(t, TicketResolved.CanAdvanceTo(TicketInProgress))
	assert.False(t, TicketPending.CanAdvanceTo(TicketStatus("closed")))
}

func TestTicket_Validate(t *testing.T) {
	tk := Ticket{Title: "Leak", Description: "Bathroom", Priority: PriorityHigh,
		Status: TicketPending, Origin: OriginManual}
	require.NoError(t, tk.Validate())

	resolvedNoInfo := tk
	resolvedNoInfo.Status = TicketResolved
	assert.ErrorIs(t, resolvedNoInfo.Validate(), ErrValidation)

	resolvedNoInfo.Resolution = &Resolution{By: ResolvedByAgent}
	assert.NoError(t, resolvedNoInfo.Validate())
}
