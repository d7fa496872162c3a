package admin

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/cloo-solutions/supporthub/internal/config"
	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAssistant(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"backend wins", config.Config{AssistantBackendURL: "http://localhost:8000", OpenAIAPIKey: "sk-test"}, "backend"},
		{"openai", config.Config{OpenAIAPIKey: "sk-test"}, "openai"},
		{"knowledge fallback", config.Config{}, "knowledge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectAssistant(&tt.cfg).Name())
		})
	}
}

func TestMigrationsSource(t *testing.T) {
	assert.Equal(t, "file://migrations", migrationsSource("migrations"))
	assert.Equal(t, "file:///opt/app/migrations", migrationsSource("file:///opt/app/migrations"))
}

func TestPrintTicketPage(t *testing.T) {
	page := &service.ListTicketsOutput{
		Items: []*domain.Ticket{{
			ID:          "TICKET-1A2B3C4D",
			UserMessage: "Payment failed\nwith card ending 4242",
			Priority:    domain.PriorityHigh,
			Status:      domain.TicketStatusOpen,
			CreatedAt:   time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		}},
		Cursor:  "abc",
		HasMore: true,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTicketPage(&buf, "text", page))

		out := buf.String()
		assert.Contains(t, out, "TICKET-1A2B3C4D [high/open] Payment failed with card ending 4242")
		assert.Contains(t, out, "--cursor abc")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTicketPage(&buf, "json", page))

		var decoded struct {
			Items   []map[string]interface{} `json:"items"`
			HasMore bool                     `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Items, 1)
		assert.Equal(t, "high", decoded.Items[0]["priority"])
		assert.True(t, decoded.HasMore)
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTicketPage(&buf, "text", &service.ListTicketsOutput{}))
		assert.Equal(t, "No tickets found\n", buf.String())
	})
}

func TestPrintDocuments(t *testing.T) {
	var buf bytes.Buffer
	printDocuments(&buf, knowledge.SeedDocuments())

	out := buf.String()
	assert.Contains(t, out, "Password Reset Guide")
	assert.Contains(t, out, "2024-01-15")
	assert.Contains(t, out, "5 documents")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
}
