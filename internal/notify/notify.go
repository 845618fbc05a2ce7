// Package notify hands structured notices to the agency's external messaging
// channel. Message wording and chat deep links belong to the channel, not here.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind what a notice is about.
type Kind string

const (
	KindPaymentReminder     Kind = "payment-reminder"
	KindGuarantorEscalation Kind = "guarantor-escalation"
	KindIssueReport         Kind = "issue-report"
)

// Notice one outbound message request. Phone is the recipient.
type Notice struct {
	Kind       Kind      `json:"kind"`
	Phone      string    `json:"phone"`
	TenantID   string    `json:"tenantId,omitempty"`
	TenantName string    `json:"tenantName,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	DaysLate   int       `json:"daysLate,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Messenger delivers notices.
type Messenger interface {
	Send(ctx context.Context, n Notice) error
}

// Nop discards every notice.
type Nop struct{}

func (Nop) Send(context.Context, Notice) error { return nil }

// DispatchTimeout bounds one background delivery, retries included.
const DispatchTimeout = 45 * time.Second

// Dispatcher sends notices on behalf of domain operations, which never fail
// or wait because of the channel.
type Dispatcher struct {
	messenger Messenger
	logger    *zap.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewDispatcher(m Messenger, logger *zap.Logger) *Dispatcher {
	if m == nil {
		m = Nop{}
	}
	return &Dispatcher{messenger: m, logger: logger}
}

// Send delivers n and returns the channel error.
func (d *Dispatcher) Send(ctx context.Context, n Notice) error {
	if err := d.messenger.Send(ctx, n); err != nil {
		d.logger.Warn("Failed to send notice",
			zap.String("kind", string(n.Kind)),
			zap.String("tenant_id", n.TenantID),
			zap.Error(err),
		)
		return err
	}
	d.logger.Info("Notice sent",
		zap.String("kind", string(n.Kind)),
		zap.String("tenant_id", n.TenantID),
	)
	return nil
}

// Dispatch delivers n in the background and returns at once. Failures are
// logged. The send outlives ctx cancellation but not DispatchTimeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Dispatcher closed, notice dropped", zap.String("kind", string(n.Kind)))
		return
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DispatchTimeout)
		defer cancel()
		_ = d.Send(sendCtx, n)
	}()
}

// Close stops accepting dispatches and waits for the ones in flight.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.inflight.Wait()
}
