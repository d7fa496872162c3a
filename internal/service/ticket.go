package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
)

const ticketIDPrefix = "TICKET-"

// TicketRepository defines the repository interface for ticket persistence
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) (*TicketPageResult, error)
	Count(ctx context.Context) (int, error)
}

type TicketPageResult struct {
	Items      []*domain.Ticket
	NextCursor string
	HasMore    bool
}

// TicketEventPublisher announces accepted tickets. Publishing is best effort;
// implementations log their own failures.
type TicketEventPublisher interface {
	PublishTicketCreated(ctx context.Context, t *domain.Ticket)
}

type noopPublisher struct{}

func (noopPublisher) PublishTicketCreated(context.Context, *domain.Ticket) {}

// TicketService accepts support ticket submissions.
type TicketService struct {
	repo      TicketRepository
	publisher TicketEventPublisher
	observer  Observer
	uuidGen   UUIDGenerator
}

// NewTicketService creates a new TicketService instance. publisher and observer may be nil.
func NewTicketService(repo TicketRepository, publisher TicketEventPublisher, observer Observer) *TicketService {
	return NewTicketServiceWithUUIDGen(repo, publisher, observer, &DefaultUUIDGenerator{})
}

// NewTicketServiceWithUUIDGen creates a new TicketService with custom UUID generator (for testing)
func NewTicketServiceWithUUIDGen(repo TicketRepository, publisher TicketEventPublisher, observer Observer, uuidGen UUIDGenerator) *TicketService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if observer == nil {
		observer = NoOpObserver{}
	}
	return &TicketService{
		repo:      repo,
		publisher: publisher,
		observer:  observer,
		uuidGen:   uuidGen,
	}
}

// Submit validates and records a ticket. Validation failures are VALIDATION_ERROR;
// a storage failure is INTAKE_UNAVAILABLE and is not retried.
func (s *TicketService) Submit(ctx context.Context, req domain.TicketRequest) (*domain.TicketResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.Submit", telemetry.SpanAttributes{
		Operation: "submit",
	})
	defer span.End()

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		s.observer.ObserveTicket("", OutcomeRejected)
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:          s.newTicketID(),
		UserMessage: strings.TrimSpace(req.UserMessage),
		AIResponse:  req.AIResponse,
		UserEmail:   strings.TrimSpace(req.UserEmail),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	if err := domain.ValidateTicket(ticket); err != nil {
		s.observer.ObserveTicket(priority, OutcomeRejected)
		return nil, err
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		span.SetError(err)
		s.observer.ObserveTicket(priority, OutcomeFailed)
		return nil, domain.NewDomainErrorWithCause(
			domain.ErrIntakeUnavailable.Code,
			domain.ErrIntakeUnavailable.Message,
			err,
		)
	}

	s.observer.ObserveTicket(priority, OutcomeCreated)
	s.publisher.PublishTicketCreated(ctx, ticket)
	log.Printf("ticket: created %s (priority %s)", ticket.ID, ticket.Priority)

	return &domain.TicketResult{
		TicketID:  ticket.ID,
		Priority:  ticket.Priority,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
	}, nil
}

// GetByID returns one ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.GetByID", telemetry.SpanAttributes{
		TicketID:  id,
		Operation: "get",
	})
	defer span.End()

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return found, nil
}

type ListTicketsInput struct {
	Cursor string
	Limit  int
}

type ListTicketsOutput struct {
	Items   []*domain.Ticket
	Cursor  string
	HasMore bool
}

// List returns tickets newest first, paginated by cursor.
func (s *TicketService) List(ctx context.Context, input ListTicketsInput) (*ListTicketsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	page, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListTicketsOutput{
		Items:   page.Items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}, nil
}

func (s *TicketService) newTicketID() string {
	raw := strings.ReplaceAll(s.uuidGen.NewString(), "-", "")
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return ticketIDPrefix + strings.ToUpper(raw)
}
