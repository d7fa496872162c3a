package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChatHandler_Chat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc)

		ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
		svc.On("Handle", mock.Anything, "How do I reset my password?").Return(&service.ChatReply{
			Reply:     "Go to the login page and click Forgot Password.",
			Timestamp: ts,
		}, nil)

		body, _ := json.Marshal(ChatRequest{UserMessage: "How do I reset my password?"})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Chat(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Go to the login page and click Forgot Password.", resp.Response)
		assert.False(t, resp.TicketCreated)
		assert.False(t, resp.TicketOffered)
		assert.Empty(t, resp.TicketID)
		assert.Equal(t, "2024-01-15T10:30:00Z", resp.Timestamp)
		svc.AssertExpectations(t)
	})

	t.Run("ticket offered", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc)

		svc.On("Handle", mock.Anything, "quantum flux").Return(&service.ChatReply{
			Reply:         "I could not find that. Would you like to open a ticket?",
			TicketOffered: true,
			Timestamp:     time.Now(),
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"user_message":"quantum flux"}`))
		w := httptest.NewRecorder()

		h.Chat(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ticket_offered":true`)
		assert.NotContains(t, w.Body.String(), "ticket_id")
	})

	t.Run("invalid body", func(t *testing.T) {
		h := NewChatHandler(new(MockChatService))

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("not json"))
		w := httptest.NewRecorder()

		h.Chat(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})

	t.Run("empty message", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc)

		svc.On("Handle", mock.Anything, "").Return(nil, domain.ErrEmptyMessage)

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"user_message":""}`))
		w := httptest.NewRecorder()

		h.Chat(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "user_message is required")
	})

	t.Run("assistant failure", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc)

		svc.On("Handle", mock.Anything, "hello").Return(nil, domain.NewDomainErrorWithCause(
			domain.ErrCodeBackendUnavailable, domain.ErrBackendUnavailable.Message, errors.New("dial tcp: refused"),
		))

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"user_message":"hello"}`))
		w := httptest.NewRecorder()

		h.Chat(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "assistant backend unavailable")
		assert.NotContains(t, w.Body.String(), "dial tcp")
	})
}
