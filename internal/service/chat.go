package service

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
)

// Searcher looks up knowledge base documents. *knowledge.Retriever implements it.
type Searcher interface {
	Search(query string, limit int) []domain.Document
}

// ChatLogRepository persists chat turn outcomes for analytics.
type ChatLogRepository interface {
	Create(ctx context.Context, entry *domain.ChatLog) error
	Stats(ctx context.Context) (*domain.ChatStats, error)
	TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error)
}

// ChatReply is the result of one chat turn.
type ChatReply struct {
	Reply         string
	TicketOffered bool
	Sources       []domain.Document
	Timestamp     time.Time
}

// ChatServiceConfig wires a ChatService.
type ChatServiceConfig struct {
	Searcher  Searcher
	Assistant Assistant
	Logs      ChatLogRepository
	Observer  Observer
	UUIDGen   UUIDGenerator
	// Timeout bounds a single assistant call. Zero means no bound beyond the caller's context.
	Timeout time.Duration
}

// ChatService handles chat turns: knowledge lookup, assistant reply, ticket offer.
type ChatService struct {
	searcher  Searcher
	assistant Assistant
	logs      ChatLogRepository
	observer  Observer
	uuidGen   UUIDGenerator
	timeout   time.Duration
	now       func() time.Time
}

// NewChatService creates a new ChatService instance
func NewChatService(cfg ChatServiceConfig) *ChatService {
	s := &ChatService{
		searcher:  cfg.Searcher,
		assistant: cfg.Assistant,
		logs:      cfg.Logs,
		observer:  cfg.Observer,
		uuidGen:   cfg.UUIDGen,
		timeout:   cfg.Timeout,
		now:       time.Now,
	}
	if s.observer == nil {
		s.observer = NoOpObserver{}
	}
	if s.uuidGen == nil {
		s.uuidGen = &DefaultUUIDGenerator{}
	}
	return s
}

// Handle answers one user message. Each call is independent of previous turns.
// A failing assistant yields a BACKEND_UNAVAILABLE error and is not retried.
func (s *ChatService) Handle(ctx context.Context, message string) (*ChatReply, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Handle", telemetry.SpanAttributes{
		Assistant: s.assistant.Name(),
		Operation: "chat",
	})
	defer span.End()

	msg, err := domain.NormalizeMessage(message)
	if err != nil {
		s.observer.ObserveChatTurn(OutcomeRejected, 0)
		return nil, err
	}

	start := s.now()
	docs := s.lookup(msg)
	telemetry.AddBreadcrumb(ctx, "knowledge", "matched documents: "+documentTitles(docs))

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.assistant.Reply(callCtx, AssistantRequest{Message: msg, Documents: docs})
	elapsed := s.now().Sub(start)
	if err != nil {
		span.SetError(err)
		s.observer.ObserveChatTurn(OutcomeFailed, elapsed)
		s.record(ctx, msg, docs, false, true, elapsed)
		return nil, domain.NewDomainErrorWithCause(
			domain.ErrBackendUnavailable.Code,
			domain.ErrBackendUnavailable.Message,
			err,
		)
	}

	offered := len(docs) == 0
	outcome := OutcomeAnswered
	if offered {
		outcome = OutcomeTicketOffered
	}
	s.observer.ObserveChatTurn(outcome, elapsed)
	s.record(ctx, msg, docs, offered, false, elapsed)

	return &ChatReply{
		Reply:         reply,
		TicketOffered: offered,
		Sources:       docs,
		Timestamp:     s.now().UTC(),
	}, nil
}

// lookup searches the whole message first. On a miss it searches each keyword
// and merges the hits in the order found, up to the default limit.
func (s *ChatService) lookup(msg string) []domain.Document {
	docs := s.searcher.Search(msg, knowledge.DefaultLimit)
	if len(docs) > 0 {
		return docs
	}

	seen := make(map[int64]struct{})
	merged := make([]domain.Document, 0, knowledge.DefaultLimit)
	for _, kw := range Keywords(msg) {
		for _, d := range s.searcher.Search(kw, knowledge.DefaultLimit) {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			merged = append(merged, d)
			if len(merged) == knowledge.DefaultLimit {
				return merged
			}
		}
	}
	return merged
}

func (s *ChatService) record(ctx context.Context, msg string, docs []domain.Document, offered, failed bool, elapsed time.Duration) {
	if s.logs == nil {
		return
	}

	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	entry := &domain.ChatLog{
		ID:            s.uuidGen.NewString(),
		Message:       msg,
		MatchedIDs:    ids,
		TicketOffered: offered,
		Failed:        failed,
		DurationMs:    int(elapsed.Milliseconds()),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		log.Printf("chat: failed to record chat log: %v", err)
	}
}

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "could": {}, "does": {}, "doesn't": {},
	"from": {}, "have": {}, "hello": {}, "help": {}, "into": {}, "just": {},
	"need": {}, "please": {}, "should": {}, "some": {}, "than": {}, "that": {},
	"thanks": {}, "their": {}, "them": {}, "then": {}, "there": {}, "they": {},
	"this": {}, "want": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {}, "yours": {},
}

// Keywords splits msg into lower-cased words of at least four letters that are
// not stop words, in order of first appearance.
func Keywords(msg string) []string {
	fields := strings.FieldsFunc(strings.ToLower(msg), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < 4 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func documentTitles(docs []domain.Document) string {
	if len(docs) == 0 {
		return "none"
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Title
	}
	return strings.Join(parts, ", ")
}
