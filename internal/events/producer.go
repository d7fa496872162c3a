// Package events publishes ticket lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/segmentio/kafka-go"
)

// EventTicketCreated is the event name carried by every ticket message.
const EventTicketCreated = "ticket.created"

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TicketEvent is the JSON value of a ticket message.
type TicketEvent struct {
	Event     string    `json:"event"`
	TicketID  string    `json:"ticket_id"`
	Subject   string    `json:"subject"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	UserEmail string    `json:"user_email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Producer writes ticket events to a topic. Publishing is best effort: a
// failed write is logged and never fails the ticket submission.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a producer. With no brokers or no topic every method is a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	brokers = cleanBrokers(brokers)
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Enabled reports whether events are actually sent.
func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// PublishTicketCreated sends a ticket.created event keyed by ticket id.
func (p *Producer) PublishTicketCreated(ctx context.Context, t *domain.Ticket) {
	if p.writer == nil || t == nil {
		return
	}

	body, err := json.Marshal(TicketEvent{
		Event:     EventTicketCreated,
		TicketID:  t.ID,
		Subject:   t.Subject(),
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		UserEmail: t.UserEmail,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		log.Printf("kafka: marshal ticket event: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{Key: []byte(t.ID), Value: body}); err != nil {
		log.Printf("kafka: write ticket event %s: %v", t.ID, err)
	}
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	return cleanBrokers(strings.Split(s, ","))
}

func cleanBrokers(in []string) []string {
	var out []string
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
