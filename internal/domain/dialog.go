package domain

import (
	"fmt"
	"sync"
	"time"
)

// AutoDismissInterval is how long a submitted ticket dialog stays visible.
const AutoDismissInterval = 2 * time.Second

// DialogState is a state of the ticket submission dialog.
type DialogState string

const (
	DialogDraft      DialogState = "draft"
	DialogSubmitting DialogState = "submitting"
	DialogSubmitted  DialogState = "submitted"
	DialogFailed     DialogState = "failed"
)

// TicketDialog tracks one ticket submission attempt:
//
//	Draft -> Submitting -> Submitted | Failed
//	Failed -> Draft
//
// Submitted is terminal.
type TicketDialog struct {
	mu       sync.Mutex
	state    DialogState
	ticketID string
	failure  string
}

// NewTicketDialog returns a dialog in the Draft state.
func NewTicketDialog() *TicketDialog {
	return &TicketDialog{state: DialogDraft}
}

// State returns the current state.
func (d *TicketDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// TicketID returns the id recorded on success.
func (d *TicketDialog) TicketID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticketID
}

// Failure returns the reason recorded on failure.
func (d *TicketDialog) Failure() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failure
}

// Submit moves Draft to Submitting. It fails while a submission is in flight.
func (d *TicketDialog) Submit() error {
	return d.transition(DialogDraft, DialogSubmitting, func() {})
}

// Succeed moves Submitting to Submitted and records the ticket id.
func (d *TicketDialog) Succeed(ticketID string) error {
	return d.transition(DialogSubmitting, DialogSubmitted, func() { d.ticketID = ticketID })
}

// Fail moves Submitting to Failed and records the reason.
func (d *TicketDialog) Fail(reason string) error {
	return d.transition(DialogSubmitting, DialogFailed, func() { d.failure = reason })
}

// Reset returns a failed dialog to Draft so the user can edit and resubmit.
func (d *TicketDialog) Reset() error {
	return d.transition(DialogFailed, DialogDraft, func() { d.failure = "" })
}

func (d *TicketDialog) transition(from, to DialogState, apply func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != from {
		return fmt.Errorf("ticket dialog: cannot move from %s to %s", d.state, to)
	}
	d.state = to
	apply()
	return nil
}
