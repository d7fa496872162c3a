package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Priority represents the urgency of a support ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority applies when a submission leaves the priority empty.
const DefaultPriority = PriorityMedium

// Priorities lists the accepted priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority maps raw input onto a Priority. Empty input yields DefaultPriority;
// anything else must spell one of Priorities exactly, in lower case.
func ParsePriority(raw string) (Priority, error) {
	if raw == "" {
		return DefaultPriority, nil
	}
	for _, p := range Priorities {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// TicketStatus represents where a ticket is in its lifecycle
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// ParseTicketStatus validates a status string.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch s := TicketStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return s, nil
	default:
		return "", ErrInvalidTicketStatus
	}
}

// Ticket is a recorded support request. It has no link to stored chat messages;
// the exchange that prompted it is copied in.
type Ticket struct {
	ID          string
	UserMessage string
	AIResponse  string
	UserEmail   string
	Priority    Priority
	Status      TicketStatus
	CreatedAt   time.Time
}

// TicketRequest is a ticket submission as received from a caller.
type TicketRequest struct {
	UserMessage string
	AIResponse  string
	UserEmail   string
	Priority    string
}

// TicketResult is the outcome of an accepted submission.
type TicketResult struct {
	TicketID  string
	Priority  Priority
	Status    TicketStatus
	CreatedAt time.Time
}

// Subject returns a short single-line summary of the ticket's user message.
func (t *Ticket) Subject() string {
	s := strings.Join(strings.Fields(t.UserMessage), " ")
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

// ValidateEmail accepts an empty address or a single bare RFC 5322 address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateTicket checks a ticket before it is persisted.
func ValidateTicket(t *Ticket) error {
	if t == nil {
		return fmt.Errorf("ticket cannot be nil")
	}
	if t.ID == "" {
		return fmt.Errorf("ticket ID is required")
	}
	if strings.TrimSpace(t.UserMessage) == "" {
		return NewDomainError(ErrCodeValidation, "user_message is required")
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil || t.Priority == "" {
		return ErrInvalidPriority
	}
	if _, err := ParseTicketStatus(string(t.Status)); err != nil {
		return err
	}
	return ValidateEmail(t.UserEmail)
}
