// Package metrics exports chat and ticket counters to Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "supporthub"

// Metrics implements service.Observer.
type Metrics struct {
	chatTurns    *prometheus.CounterVec
	chatDuration *prometheus.HistogramVec
	tickets      *prometheus.CounterVec
	gatherer     prometheus.Gatherer
}

var (
	defaultOnce sync.Once
	defaultInst *Metrics
)

// Default returns the process-wide Metrics registered with the default registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultInst = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultInst
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		chatTurns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns handled, labeled by outcome",
		}, []string{"outcome"}),
		chatDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "Time from knowledge lookup to assistant reply",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		tickets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tickets",
			Name:      "submissions_total",
			Help:      "Ticket submissions, labeled by priority and outcome",
		}, []string{"priority", "outcome"}),
		gatherer: gatherer,
	}
}

func (m *Metrics) ObserveChatTurn(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.chatDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveTicket(priority domain.Priority, outcome string) {
	if m == nil {
		return
	}
	label := string(priority)
	if label == "" {
		label = "unknown"
	}
	m.tickets.WithLabelValues(label, outcome).Inc()
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
