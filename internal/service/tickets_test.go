package service

import (
	"errors"
	"testing"
	"time"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTicket_ReportDefaultsAndNotifies(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(f.deps, zap.NewNop())

	tk, err := svc.Report(f.ctx, ReportTicketRequest{
		Title:       " Canilla rota ",
		Description: "Pierde agua en la cocina",
		Origin:      domain.OriginManual,
		TenantID:    domain.StringPtr("t2"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPending, tk.Status)
	assert.Equal(t, domain.PriorityMedium, tk.Priority)
	assert.Equal(t, "Canilla rota", tk.Title)
	assert.Nil(t, tk.Resolution)

	f.deps.Notifier.Close()
	sent := f.messages.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindIssueReport, sent[0].Kind)
	assert.Equal(t, "5493434123456", sent[0].Phone)
	assert.Equal(t, "Lucia Fernandez", sent[0].TenantName)
}

func TestTicket_ReportValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(f.deps, zap.NewNop())

	_, err := svc.Report(f.ctx, ReportTicketRequest{Title: "", Description: "x", Origin: domain.OriginManual})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Report(f.ctx, ReportTicketRequest{Title: "x", Description: " ", Origin: domain.OriginManual})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Report(f.ctx, ReportTicketRequest{Title: "x", Description: "y", Origin: "carrier-pigeon"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Report(f.ctx, ReportTicketRequest{Title: "x", Description: "y", Origin: domain.OriginManual, TenantID: domain.StringPtr("ghost")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.deps.Notifier.Close()
	assert.Empty(t, f.messages.sent())
}

func TestTicket_ReportDoesNotWaitForChannel(t *testing.T) {
	f := newFixture(t)
	f.messages.block = make(chan struct{})
	svc := NewTicketService(f.deps, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Report(f.ctx, ReportTicketRequest{Title: "Sin luz", Description: "Corte en el tablero", Origin: domain.OriginManual})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on the messaging channel")
	}
	assert.Equal(t, 4, svc.OpenCount(f.ctx))

	close(f.messages.block)
	f.deps.Notifier.Close()
	assert.Len(t, f.messages.sent(), 1)
}

func TestTicket_ReportSurvivesChannelFailure(t *testing.T) {
	f := newFixture(t)
	f.messages.err = errors.New("gateway down")
	svc := NewTicketService(f.deps, zap.NewNop())

	tk, err := svc.Report(f.ctx, ReportTicketRequest{Title: "x", Description: "y", Origin: domain.OriginAutomated})
	require.NoError(t, err)
	_, err = svc.Get(f.ctx, tk.ID)
	assert.NoError(t, err)
}

func TestTicket_Advance(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(f.deps, zap.NewNop())

	// tk1 pending, tk2 in-progress, tk3 awaiting-quote
	tk, err := svc.Advance(f.ctx, "tk1", domain.TicketInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketInProgress, tk.Status)

	_, err = svc.Advance(f.ctx, "tk1", domain.TicketPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "backwards")
	_, err = svc.Advance(f.ctx, "tk2", domain.TicketInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "same state")
	_, err = svc.Advance(f.ctx, "tk3", domain.TicketResolved)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "resolution goes through Resolve")
	_, err = svc.Advance(f.ctx, "tk2", "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)

	tk, err = svc.Advance(f.ctx, "tk2", domain.TicketAwaitingQuote)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketAwaitingQuote, tk.Status)
}

func TestTicket_Resolve(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(f.deps, zap.NewNop())

	tk, err := svc.Resolve(f.ctx, "tk3", domain.ResolvedByTenant)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketResolved, tk.Status)
	require.NotNil(t, tk.Resolution)
	assert.Equal(t, domain.ResolvedByTenant, tk.Resolution.By)
	assert.Equal(t, testNow, tk.Resolution.At)

	_, err = svc.Resolve(f.ctx, "tk3", domain.ResolvedByAgent)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.Advance(f.ctx, "tk3", domain.TicketInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.Resolve(f.ctx, "tk1", "landlord")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 2, svc.OpenCount(f.ctx))
}

func TestTicket_List(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(f.deps, zap.NewNop())

	all := svc.List(f.ctx, TicketFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "tk1", all[0].ID, "newest first")

	mine := svc.List(f.ctx, TicketFilter{TenantID: "t1"})
	assert.Len(t, mine, 2)

	pending := svc.List(f.ctx, TicketFilter{Status: domain.TicketPending})
	require.Len(t, pending, 1)
	assert.Equal(t, "tk1", pending[0].ID)
}
