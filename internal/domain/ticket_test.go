package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Priority
		wantErr  bool
	}{
		{"Low", "low", PriorityLow, false},
		{"Medium", "medium", PriorityMedium, false},
		{"High", "high", PriorityHigh, false},
		{"Urgent", "urgent", PriorityUrgent, false},
		{"UpperCase", "URGENT", "", true},
		{"MixedCase", "Urgent", "", true},
		{"Padded", " urgent ", "", true},
		{"EmptyDefaultsToMedium", "", PriorityMedium, false},
		{"Unknown", "critical", "", true},
		{"Numeric", "1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePriority(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrCodeValidation, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParsePriority_Deterministic(t *testing.T) {
	for _, p := range Priorities {
		first, err := ParsePriority(string(p))
		require.NoError(t, err)
		second, err := ParsePriority(string(p))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestParseTicketStatus(t *testing.T) {
	s, err := ParseTicketStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusInProgress, s)

	_, err = ParseTicketStatus("closed")
	assert.ErrorIs(t, err, ErrInvalidTicketStatus)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("Jane <jane@example.com>"), ErrInvalidEmail)
}

func TestValidateTicket(t *testing.T) {
	valid := func() *Ticket {
		return &Ticket{
			ID:          "TICKET-ABCDEF12",
			UserMessage: "I cannot log in",
			Priority:    PriorityHigh,
			Status:      TicketStatusOpen,
			CreatedAt:   time.Now(),
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateTicket(valid()))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Error(t, ValidateTicket(nil))
	})

	t.Run("missing id", func(t *testing.T) {
		tk := valid()
		tk.ID = ""
		assert.Error(t, ValidateTicket(tk))
	})

	t.Run("blank message", func(t *testing.T) {
		tk := valid()
		tk.UserMessage = "   "
		assert.Equal(t, ErrCodeValidation, CodeOf(ValidateTicket(tk)))
	})

	t.Run("empty priority", func(t *testing.T) {
		tk := valid()
		tk.Priority = ""
		assert.ErrorIs(t, ValidateTicket(tk), ErrInvalidPriority)
	})

	t.Run("bad email", func(t *testing.T) {
		tk := valid()
		tk.UserEmail = "nope"
		assert.ErrorIs(t, ValidateTicket(tk), ErrInvalidEmail)
	})
}

func TestTicketSubject(t *testing.T) {
	tk := &Ticket{UserMessage: "  Login\n  issues   again "}
	assert.Equal(t, "Login issues again", tk.Subject())

	tk.UserMessage = strings.Repeat("x", 80)
	assert.Len(t, []rune(tk.Subject()), 60)
	assert.True(t, strings.HasSuffix(tk.Subject(), "..."))
}

func TestDomainError_Is(t *testing.T) {
	wrapped := NewDomainErrorWithCause(ErrIntakeUnavailable.Code, ErrIntakeUnavailable.Message, errors.New("db down"))
	assert.ErrorIs(t, wrapped, ErrIntakeUnavailable)
	assert.NotErrorIs(t, wrapped, ErrBackendUnavailable)
	assert.Contains(t, wrapped.Error(), "db down")
	assert.Equal(t, ErrCodeIntakeUnavailable, CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
