package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/cloo-solutions/supporthub/internal/service"
)

type ChatService interface {
	Handle(ctx context.Context, message string) (*service.ChatReply, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	UserMessage string `json:"user_message"`
}

// ChatResponse is the single wire shape of a chat turn.
// TicketCreated is always false: tickets are created only through /ticket.
type ChatResponse struct {
	Response      string `json:"response"`
	TicketCreated bool   `json:"ticket_created"`
	TicketID      string `json:"ticket_id,omitempty"`
	TicketOffered bool   `json:"ticket_offered"`
	Timestamp     string `json:"timestamp"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.Handle(r.Context(), req.UserMessage)
	if err != nil {
		status := api.DomainErrorToHTTP(err)
		if status != http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		api.Error(w, status, api.ErrorMessage(err))
		return
	}

	api.JSON(w, http.StatusOK, ChatResponse{
		Response:      reply.Reply,
		TicketCreated: false,
		TicketOffered: reply.TicketOffered,
		Timestamp:     reply.Timestamp.Format(time.RFC3339),
	})
}
