package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("computes dashboard figures", func(t *testing.T) {
		logs := new(MockChatLogRepository)
		tickets := new(MockTicketRepository)
		svc := NewAnalyticsService(logs, tickets)

		logs.On("Stats", mock.Anything).Return(&domain.ChatStats{
			TotalChats:     12,
			FailedChats:    2,
			TicketsOffered: 3,
			AvgDurationMs:  1234,
		}, nil)
		logs.On("TopQueries", mock.Anything, 5).Return([]domain.QueryCount{{Query: "password reset", Count: 4}}, nil)
		tickets.On("Count", mock.Anything).Return(7, nil)
		tickets.On("List", mock.Anything, (*pagination.Cursor)(nil), 5).Return(&TicketPageResult{
			Items: []*domain.Ticket{{ID: "TICKET-1", UserMessage: "Login issues", Status: domain.TicketStatusOpen, Priority: domain.PriorityHigh}},
		}, nil)

		a, err := svc.Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 12, a.TotalChats)
		assert.Equal(t, 7, a.TicketsCreated)
		assert.Equal(t, 70.0, a.ResolutionRate)
		assert.Equal(t, "1.2s", a.AvgResponseTime)
		assert.Equal(t, "password reset", a.TopQueries[0].Query)
		assert.Len(t, a.RecentTickets, 1)
	})

	t.Run("no chats", func(t *testing.T) {
		logs := new(MockChatLogRepository)
		tickets := new(MockTicketRepository)
		svc := NewAnalyticsService(logs, tickets)

		logs.On("Stats", mock.Anything).Return(&domain.ChatStats{}, nil)
		logs.On("TopQueries", mock.Anything, 5).Return([]domain.QueryCount{}, nil)
		tickets.On("Count", mock.Anything).Return(0, nil)
		tickets.On("List", mock.Anything, (*pagination.Cursor)(nil), 5).Return(&TicketPageResult{}, nil)

		a, err := svc.Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0.0, a.ResolutionRate)
		assert.Equal(t, "0.0s", a.AvgResponseTime)
	})

	t.Run("repository error", func(t *testing.T) {
		logs := new(MockChatLogRepository)
		svc := NewAnalyticsService(logs, new(MockTicketRepository))

		logs.On("Stats", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := svc.Summary(ctx)
		assert.ErrorContains(t, err, "chat stats")
	})
}

func TestResolutionRate_Rounds(t *testing.T) {
	assert.Equal(t, 66.7, resolutionRate(&domain.ChatStats{TotalChats: 3, TicketsOffered: 1}))
	assert.Equal(t, 0.0, resolutionRate(&domain.ChatStats{TotalChats: 2, FailedChats: 2}))
}
