package service

import (
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

// Chat turn outcomes reported to an Observer.
const (
	OutcomeAnswered      = "answered"
	OutcomeTicketOffered = "ticket_offered"
	OutcomeFailed        = "failed"
	OutcomeRejected      = "rejected"
	OutcomeCreated       = "created"
)

// Observer receives service-level measurements.
type Observer interface {
	ObserveChatTurn(outcome string, elapsed time.Duration)
	ObserveTicket(priority domain.Priority, outcome string)
}

// NoOpObserver discards every measurement.
type NoOpObserver struct{}

func (NoOpObserver) ObserveChatTurn(string, time.Duration) {}
func (NoOpObserver) ObserveTicket(domain.Priority, string) {}
