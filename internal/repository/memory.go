package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/cloo-solutions/supporthub/internal/service"
)

// MemoryDocumentRepository keeps documents in process. Used when no database is configured.
type MemoryDocumentRepository struct {
	mu     sync.RWMutex
	docs   []domain.Document
	nextID int64
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{nextID: 1}
}

func (r *MemoryDocumentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Document, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (r *MemoryDocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	d.ID = r.nextID
	r.nextID++
	r.docs = append(r.docs, *d)
	return nil
}

func (r *MemoryDocumentRepository) Update(ctx context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.docs {
		if r.docs[i].ID == d.ID {
			r.docs[i] = *d
			return nil
		}
	}
	return domain.ErrDocumentNotFound
}

func (r *MemoryDocumentRepository) Seed(ctx context.Context, docs []domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[int64]struct{}, len(r.docs))
	for _, d := range r.docs {
		existing[d.ID] = struct{}{}
	}
	for _, d := range docs {
		if _, ok := existing[d.ID]; ok {
			continue
		}
		r.docs = append(r.docs, d)
		if d.ID >= r.nextID {
			r.nextID = d.ID + 1
		}
	}
	sort.SliceStable(r.docs, func(i, j int) bool { return r.docs[i].ID < r.docs[j].ID })
	return nil
}

func (r *MemoryDocumentRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

// MemoryTicketRepository keeps tickets in process.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]domain.Ticket)}
}

func (r *MemoryTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[t.ID]; ok {
		return domain.ErrTicketAlreadyExists
	}
	r.tickets[t.ID] = *t
	return nil
}

func (r *MemoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return &t, nil
}

// List orders tickets by created_at then id, both descending, like the Postgres repository.
func (r *MemoryTicketRepository) List(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.TicketPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	all := make([]*domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		t := t
		all = append(all, &t)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return ticketAfter(all[i], all[j].CreatedAt, all[j].ID)
	})

	items := []*domain.Ticket{}
	for _, t := range all {
		if cursor != nil && !cursor.Admits(t.CreatedAt, t.ID) {
			continue
		}
		items = append(items, t)
		if len(items) == limit+1 {
			break
		}
	}

	return ticketPage(items, limit), nil
}

func (r *MemoryTicketRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets), nil
}

// ticketAfter reports whether t sorts after (ts, id) in newest-first order.
func ticketAfter(t *domain.Ticket, ts time.Time, id string) bool {
	if !t.CreatedAt.Equal(ts) {
		return t.CreatedAt.After(ts)
	}
	return t.ID > id
}

// MemoryChatLogRepository keeps chat logs in process.
type MemoryChatLogRepository struct {
	mu      sync.RWMutex
	entries []domain.ChatLog
}

func NewMemoryChatLogRepository() *MemoryChatLogRepository {
	return &MemoryChatLogRepository{}
}

func (r *MemoryChatLogRepository) Create(ctx context.Context, entry *domain.ChatLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryChatLogRepository) Stats(ctx context.Context) (*domain.ChatStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s domain.ChatStats
	var totalMs int
	for _, e := range r.entries {
		s.TotalChats++
		totalMs += e.DurationMs
		if e.Failed {
			s.FailedChats++
		} else if e.TicketOffered {
			s.TicketsOffered++
		}
	}
	if s.TotalChats > 0 {
		s.AvgDurationMs = float64(totalMs) / float64(s.TotalChats)
	}
	return &s, nil
}

func (r *MemoryChatLogRepository) TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	r.mu.RLock()
	counts := make(map[string]int)
	for _, e := range r.entries {
		counts[strings.ToLower(e.Message)]++
	}
	r.mu.RUnlock()

	out := make([]domain.QueryCount, 0, len(counts))
	for q, n := range counts {
		out = append(out, domain.QueryCount{Query: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
