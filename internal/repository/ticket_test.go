//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/cloo-solutions/supporthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTicketRepository(pool)

	tk := &domain.Ticket{
		ID:          "TICKET-3F2A9C1E",
		UserMessage: "I was charged twice",
		AIResponse:  "I couldn't find information about that.",
		UserEmail:   "user@example.com",
		Priority:    domain.PriorityUrgent,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, tk))
	assert.ErrorIs(t, repo.Create(ctx, tk), domain.ErrTicketAlreadyExists)

	got, err := repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.UserEmail, got.UserEmail)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.True(t, got.CreatedAt.Equal(tk.CreatedAt))

	_, err = repo.GetByID(ctx, "TICKET-NOPE")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestTicketRepository_ListWithCursor(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTicketRepository(pool)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"TICKET-A", "TICKET-B", "TICKET-C"} {
		require.NoError(t, repo.Create(ctx, &domain.Ticket{
			ID:          id,
			UserMessage: "help",
			Priority:    domain.PriorityLow,
			Status:      domain.TicketStatusOpen,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page, err := repo.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "TICKET-C", page.Items[0].ID)
	assert.Empty(t, page.Items[0].UserEmail)
	assert.True(t, page.HasMore)

	cursor, err := pagination.DecodeCursor(page.NextCursor)
	require.NoError(t, err)

	page, err = repo.List(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "TICKET-A", page.Items[0].ID)
	assert.False(t, page.HasMore)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
