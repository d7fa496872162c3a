package service

import (
	"context"
	"fmt"
	"math"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
)

const (
	topQueriesLimit    = 5
	recentTicketsLimit = 5
)

// AnalyticsService summarizes chat logs and tickets for the dashboard.
type AnalyticsService struct {
	logs    ChatLogRepository
	tickets TicketRepository
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(logs ChatLogRepository, tickets TicketRepository) *AnalyticsService {
	return &AnalyticsService{logs: logs, tickets: tickets}
}

// Summary computes the dashboard figures. Resolution rate is the share of
// successful chats that did not end in a ticket offer.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.Analytics, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalyticsService.Summary", telemetry.SpanAttributes{
		Operation: "summary",
	})
	defer span.End()

	stats, err := s.logs.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("chat stats: %w", err)
	}

	top, err := s.logs.TopQueries(ctx, topQueriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}

	ticketCount, err := s.tickets.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	recent, err := s.tickets.List(ctx, nil, recentTicketsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent tickets: %w", err)
	}

	return &domain.Analytics{
		TotalChats:      stats.TotalChats,
		TicketsCreated:  ticketCount,
		ResolutionRate:  resolutionRate(stats),
		AvgResponseTime: fmt.Sprintf("%.1fs", stats.AvgDurationMs/1000),
		TopQueries:      top,
		RecentTickets:   recent.Items,
	}, nil
}

func resolutionRate(stats *domain.ChatStats) float64 {
	answered := stats.TotalChats - stats.FailedChats
	if answered <= 0 {
		return 0
	}
	resolved := answered - stats.TicketsOffered
	if resolved < 0 {
		resolved = 0
	}
	rate := float64(resolved) / float64(answered) * 100
	return math.Round(rate*10) / 10
}
