package domain

import (
	"strings"
	"time"
)

type TicketPriority string

const (
	PriorityHigh   TicketPriority = "high"
	PriorityMedium TicketPriority = "medium"
	PriorityLow    TicketPriority = "low"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TicketStatus maintenance request state. Resolved is terminal.
type TicketStatus string

const (
	TicketPending       TicketStatus = "pending"
	TicketInProgress    TicketStatus = "in-progress"
	TicketAwaitingQuote TicketStatus = "awaiting-quote"
	TicketResolved      TicketStatus = "resolved"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPending, TicketInProgress, TicketAwaitingQuote, TicketResolved:
		return true
	}
	return false
}

// rank orders the administrative states; resolved sits outside the sequence.
func (s TicketStatus) rank() int {
	switch s {
	case TicketPending:
		return 0
	case TicketInProgress:
		return 1
	case TicketAwaitingQuote:
		return 2
	case TicketResolved:
		return -1
	}
	return -1
}

// CanAdvanceTo reports whether an administrative edit from s to next is allowed.
// Only forward moves among pending, in-progress and awaiting-quote qualify.
func (s TicketStatus) CanAdvanceTo(next TicketStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to >= 0 && to > from
}

// TicketOrigin intake channel.
type TicketOrigin string

const (
	OriginAutomated TicketOrigin = "automated-channel"
	OriginManual    TicketOrigin = "manual"
)

func (o TicketOrigin) Valid() bool {
	switch o {
	case OriginAutomated, OriginManual:
		return true
	}
	return false
}

// ResolverRole who closed a ticket.
type ResolverRole string

const (
	ResolvedByTenant ResolverRole = "tenant"
	ResolvedByAgent  ResolverRole = "agent"
)

func (r ResolverRole) Valid() bool {
	switch r {
	case ResolvedByTenant, ResolvedByAgent:
		return true
	}
	return false
}

type Resolution struct {
	By ResolverRole `json:"by"`
	At time.Time    `json:"at"`
}

// Ticket a maintenance or incident report.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	Origin      TicketOrigin   `json:"origin"`
	CreatedAt   time.Time      `json:"createdAt"`
	TenantID    *string        `json:"tenantId,omitempty"`
	Resolution  *Resolution    `json:"resolution,omitempty"`
}

func (t Ticket) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return Invalid("title", "is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Invalid("description", "is required")
	}
	if !t.Priority.Valid() {
		return Invalid("priority", "unknown priority")
	}
	if !t.Origin.Valid() {
		return Invalid("origin", "unknown origin")
	}
	if !t.Status.Valid() {
		return Invalid("status", "unknown ticket status")
	}
	if (t.Status == TicketResolved) != (t.Resolution != nil) {
		return Invalid("resolution", "must be present exactly when the ticket is resolved")
	}
	return nil
}

func (t Ticket) IsOpen() bool { return t.Status != TicketResolved }

func (t Ticket) Clone() Ticket {
	t.TenantID = cloneString(t.TenantID)
	if t.Resolution != nil {
		r := *t.Resolution
		t.Resolution = &r
	}
	return t
}
