package service

import (
	"context"
	"sort"
	"strings"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/notify"
	"inmo-backoffice/internal/repository"

	"go.uber.org/zap"
)

type ReportTicketRequest struct {
	Title       string
	Description string
	Origin      domain.TicketOrigin
	Priority    *domain.TicketPriority // medium when nil
	TenantID    *string
}

// TicketFilter zero fields match everything.
type TicketFilter struct {
	Status   domain.TicketStatus
	TenantID string
	OpenOnly bool
}

// TicketService maintenance ticket lifecycle.
type TicketService struct {
	tickets  repository.Repository[domain.Ticket]
	tenants  repository.Repository[domain.Tenant]
	settings repository.SettingsRepository
	notifier *notify.Dispatcher
	now      Clock
	newID    IDGenerator
	logger   *zap.Logger
}

func NewTicketService(deps Deps, logger *zap.Logger) *TicketService {
	deps = deps.withDefaults()
	return &TicketService{
		tickets:  deps.Tickets,
		tenants:  deps.Tenants,
		settings: deps.Settings,
		notifier: deps.Notifier,
		now:      deps.Now,
		newID:    deps.NewID,
		logger:   logger,
	}
}

// Report opens a pending ticket and alerts the agency contact.
func (s *TicketService) Report(ctx context.Context, req ReportTicketRequest) (domain.Ticket, error) {
	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	if title == "" {
		return domain.Ticket{}, domain.Invalid("title", "is required")
	}
	if desc == "" {
		return domain.Ticket{}, domain.Invalid("description", "is required")
	}
	priority := domain.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	var tenantName string
	if req.TenantID != nil {
		t, err := s.tenants.Get(ctx, *req.TenantID)
		if err != nil {
			return domain.Ticket{}, err
		}
		tenantName = t.Name
	}

	tk := domain.Ticket{
		ID:          s.newID(),
		Title:       title,
		Description: desc,
		Priority:    priority,
		Status:      domain.TicketPending,
		Origin:      req.Origin,
		CreatedAt:   s.now(),
		TenantID:    req.TenantID,
	}
	if err := s.tickets.Insert(ctx, tk); err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("Ticket reported",
		zap.String("ticket_id", tk.ID),
		zap.String("priority", string(tk.Priority)),
		zap.String("origin", string(tk.Origin)),
	)

	if s.notifier != nil && s.settings != nil {
		n := notify.Notice{
			Kind:       notify.KindIssueReport,
			Phone:      s.settings.Get(ctx).ContactPhone,
			TenantName: tenantName,
			Subject:    tk.Title,
			CreatedAt:  tk.CreatedAt,
		}
		if tk.TenantID != nil {
			n.TenantID = *tk.TenantID
		}
		s.notifier.Dispatch(ctx, n)
	}
	return tk, nil
}

// Advance is the administrative status edit; only forward moves before resolution.
func (s *TicketService) Advance(ctx context.Context, id string, status domain.TicketStatus) (domain.Ticket, error) {
	if !status.Valid() {
		return domain.Ticket{}, domain.Invalid("status", "unknown ticket status")
	}
	return s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		if !t.Status.CanAdvanceTo(status) {
			return &domain.TransitionError{Entity: "ticket", ID: id, From: string(t.Status), To: string(status)}
		}
		t.Status = status
		return nil
	})
}

// Resolve closes an open ticket, recording who closed it.
func (s *TicketService) Resolve(ctx context.Context, id string, by domain.ResolverRole) (domain.Ticket, error) {
	if !by.Valid() {
		return domain.Ticket{}, domain.Invalid("resolvedBy", "unknown resolver role")
	}
	tk, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		if !t.IsOpen() {
			return &domain.TransitionError{Entity: "ticket", ID: id, From: string(t.Status), To: string(domain.TicketResolved)}
		}
		t.Status = domain.TicketResolved
		t.Resolution = &domain.Resolution{By: by, At: s.now()}
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("Ticket resolved", zap.String("ticket_id", id), zap.String("by", string(by)))
	return tk, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return s.tickets.Get(ctx, id)
}

// List returns matching tickets, newest first.
func (s *TicketService) List(ctx context.Context, f TicketFilter) []domain.Ticket {
	return filterTickets(s.tickets.List(ctx), f)
}

func (s *TicketService) OpenCount(ctx context.Context) int {
	return len(s.List(ctx, TicketFilter{OpenOnly: true}))
}

func filterTickets(all []domain.Ticket, f TicketFilter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(all))
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.TenantID != "" && (t.TenantID == nil || *t.TenantID != f.TenantID) {
			continue
		}
		if f.OpenOnly && !t.IsOpen() {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
