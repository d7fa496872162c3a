package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/go-chi/chi/v5"
)

const ticketCreatedMessage = "Support ticket created successfully"

type TicketService interface {
	Submit(ctx context.Context, req domain.TicketRequest) (*domain.TicketResult, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, input service.ListTicketsInput) (*service.ListTicketsOutput, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

type SubmitTicketRequest struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	UserEmail   string `json:"user_email"`
	Priority    string `json:"priority"`
}

// SubmitTicketResponse keeps the camelCase ticketId the chat widget reads.
type SubmitTicketResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId,omitempty"`
	Message  string `json:"message"`
}

type TicketResponse struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	UserEmail   string `json:"user_email,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func ticketToResponse(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:          t.ID,
		Subject:     t.Subject(),
		UserMessage: t.UserMessage,
		AIResponse:  t.AIResponse,
		UserEmail:   t.UserEmail,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *TicketHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSON(w, http.StatusBadRequest, SubmitTicketResponse{Message: "invalid request body"})
		return
	}

	result, err := h.svc.Submit(r.Context(), domain.TicketRequest{
		UserMessage: req.UserMessage,
		AIResponse:  req.AIResponse,
		UserEmail:   req.UserEmail,
		Priority:    req.Priority,
	})
	if err != nil {
		if domain.CodeOf(err) == domain.ErrCodeValidation {
			api.JSON(w, http.StatusBadRequest, SubmitTicketResponse{Message: api.ErrorMessage(err)})
			return
		}
		api.JSON(w, http.StatusInternalServerError, SubmitTicketResponse{Message: "Failed to create support ticket"})
		return
	}

	api.JSON(w, http.StatusOK, SubmitTicketResponse{
		Success:  true,
		TicketID: result.TicketID,
		Message:  ticketCreatedMessage,
	})
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	t, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ticketToResponse(t))
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	out, err := h.svc.List(r.Context(), service.ListTicketsInput{
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*TicketResponse, 0, len(out.Items))
	for _, t := range out.Items {
		items = append(items, ticketToResponse(t))
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"items":    items,
		"cursor":   out.Cursor,
		"has_more": out.HasMore,
	})
}
