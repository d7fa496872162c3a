package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDocumentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDocumentRepository()

	require.NoError(t, repo.Seed(ctx, knowledge.SeedDocuments()))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	doc := &domain.Document{Title: "Refunds", Content: "30 days", Type: domain.DocumentTypeFAQ}
	require.NoError(t, repo.Create(ctx, doc))
	assert.Equal(t, int64(6), doc.ID)

	doc.Content = "14 days"
	require.NoError(t, repo.Update(ctx, doc))

	got, err := repo.GetByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "14 days", got.Content)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "Password Reset Guide", all[0].Title)
	assert.Equal(t, "Refunds", all[5].Title)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Document{ID: 42}), domain.ErrDocumentNotFound)
}

func TestMemoryDocumentRepository_SeedKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDocumentRepository()

	require.NoError(t, repo.Seed(ctx, knowledge.SeedDocuments()))
	require.NoError(t, repo.Seed(ctx, knowledge.SeedDocuments()))

	n, _ := repo.Count(ctx)
	assert.Equal(t, 5, n)
}

func TestMemoryTicketRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"TICKET-A", "TICKET-B", "TICKET-C", "TICKET-D", "TICKET-E"} {
		require.NoError(t, repo.Create(ctx, &domain.Ticket{
			ID:          id,
			UserMessage: "msg",
			Priority:    domain.PriorityMedium,
			Status:      domain.TicketStatusOpen,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := repo.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "TICKET-E", page.Items[0].ID)
	assert.Equal(t, "TICKET-D", page.Items[1].ID)
	assert.True(t, page.HasMore)

	cursor, err := pagination.DecodeCursor(page.NextCursor)
	require.NoError(t, err)

	page, err = repo.List(ctx, cursor, 2)
	require.NoError(t, err)
	assert.Equal(t, "TICKET-C", page.Items[0].ID)
	assert.Equal(t, "TICKET-B", page.Items[1].ID)

	cursor, _ = pagination.DecodeCursor(page.NextCursor)
	page, err = repo.List(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "TICKET-A", page.Items[0].ID)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestMemoryTicketRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	tk := &domain.Ticket{ID: "TICKET-1", UserMessage: "help", Priority: domain.PriorityLow, Status: domain.TicketStatusOpen}
	require.NoError(t, repo.Create(ctx, tk))
	assert.ErrorIs(t, repo.Create(ctx, tk), domain.ErrTicketAlreadyExists)

	got, err := repo.GetByID(ctx, "TICKET-1")
	require.NoError(t, err)
	assert.Equal(t, "help", got.UserMessage)

	_, err = repo.GetByID(ctx, "TICKET-2")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryChatLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatLogRepository()

	entries := []domain.ChatLog{
		{ID: "1", Message: "Pricing", DurationMs: 100},
		{ID: "2", Message: "pricing", DurationMs: 200},
		{ID: "3", Message: "refunds", TicketOffered: true, DurationMs: 300},
		{ID: "4", Message: "api", Failed: true, DurationMs: 400},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalChats)
	assert.Equal(t, 1, stats.FailedChats)
	assert.Equal(t, 1, stats.TicketsOffered)
	assert.Equal(t, 250.0, stats.AvgDurationMs)

	top, err := repo.TopQueries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, domain.QueryCount{Query: "pricing", Count: 2}, top[0])
	assert.Equal(t, domain.QueryCount{Query: "api", Count: 1}, top[1])
}
