package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/cloo-solutions/supporthub/internal/domain"
)

type AnalyticsService interface {
	Summary(ctx context.Context) (*domain.Analytics, error)
}

type AnalyticsHandler struct {
	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type QueryCountResponse struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type RecentTicketResponse struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

type AnalyticsResponse struct {
	TotalChats      int                    `json:"total_chats"`
	TicketsCreated  int                    `json:"tickets_created"`
	ResolutionRate  float64                `json:"resolution_rate"`
	AvgResponseTime string                 `json:"avg_response_time"`
	TopQueries      []QueryCountResponse   `json:"top_queries"`
	RecentTickets   []RecentTicketResponse `json:"recent_tickets"`
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Summary(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := AnalyticsResponse{
		TotalChats:      a.TotalChats,
		TicketsCreated:  a.TicketsCreated,
		ResolutionRate:  a.ResolutionRate,
		AvgResponseTime: a.AvgResponseTime,
		TopQueries:      make([]QueryCountResponse, 0, len(a.TopQueries)),
		RecentTickets:   make([]RecentTicketResponse, 0, len(a.RecentTickets)),
	}
	for _, q := range a.TopQueries {
		resp.TopQueries = append(resp.TopQueries, QueryCountResponse{Query: q.Query, Count: q.Count})
	}
	for _, t := range a.RecentTickets {
		resp.RecentTickets = append(resp.RecentTickets, RecentTicketResponse{
			ID:       t.ID,
			Subject:  t.Subject(),
			Status:   string(t.Status),
			Priority: string(t.Priority),
		})
	}

	api.Success(w, http.StatusOK, resp)
}
