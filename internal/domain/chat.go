package domain

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// MaxMessageLength bounds a single user chat message, in characters.
const MaxMessageLength = 1000

// FallbackReply is shown in place of an assistant reply when a chat turn fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation. Timestamp is advisory only.
type ChatMessage struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// NormalizeMessage trims a user message and enforces the length bound.
func NormalizeMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return msg, nil
}

// ChatLog records the outcome of one chat turn for analytics.
type ChatLog struct {
	ID            string
	Message       string
	MatchedIDs    []int64
	TicketOffered bool
	Failed        bool
	DurationMs    int
	CreatedAt     time.Time
}

// Transcript is the ordered, append-only message list owned by one chat session.
type Transcript struct {
	mu       sync.Mutex
	messages []ChatMessage
}

// Append adds a message stamped with the current time.
func (t *Transcript) Append(role Role, content string) ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := ChatMessage{Role: role, Content: content, Timestamp: time.Now().UTC()}
	t.messages = append(t.messages, m)
	return m
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// LastExchange returns the most recent user message and the assistant message that
// follows it, if any.
func (t *Transcript) LastExchange() (user, assistant string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleUser {
			user = t.messages[i].Content
			if i+1 < len(t.messages) && t.messages[i+1].Role == RoleAssistant {
				assistant = t.messages[i+1].Content
			}
			return user, assistant
		}
	}
	return "", ""
}
