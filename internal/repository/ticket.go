package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type TicketRepository struct {
	db dbtx
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: pool}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets (id, user_message, ai_response, user_email, priority, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserMessage, t.AIResponse, nullableString(t.UserEmail), t.Priority, t.Status, t.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrTicketAlreadyExists
	}
	return err
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	var email *string
	err := r.db.QueryRow(ctx,
		`SELECT id, user_message, ai_response, user_email, priority, status, created_at
		 FROM tickets WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.UserMessage, &t.AIResponse, &email, &t.Priority, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	t.UserEmail = stringValue(email)
	return &t, nil
}

// List returns tickets newest first. The cursor holds the last ticket's
// created_at and id from the previous page.
func (r *TicketRepository) List(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.TicketPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, user_message, ai_response, user_email, priority, status, created_at
			 FROM tickets
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.CreatedAt, cursor.ID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, user_message, ai_response, user_email, priority, status, created_at
			 FROM tickets
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Ticket{}
	for rows.Next() {
		var t domain.Ticket
		var email *string
		if err := rows.Scan(&t.ID, &t.UserMessage, &t.AIResponse, &email, &t.Priority, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.UserEmail = stringValue(email)
		items = append(items, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ticketPage(items, limit), nil
}

func (r *TicketRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}

// ticketPage trims a limit+1 result to limit and builds the next cursor.
func ticketPage(items []*domain.Ticket, limit int) *service.TicketPageResult {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.TicketPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}
