package service

import (
	"context"
	"io"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/pagination"
	"github.com/stretchr/testify/mock"
)

// MockUUIDGenerator is a mock implementation of UUIDGenerator
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		uuid := m.uuids[m.callCount]
		m.callCount++
		return uuid
	}
	return "default-uuid"
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(query string, limit int) []domain.Document {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Document)
}

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Name() string {
	return "mock"
}

func (m *MockAssistant) Reply(ctx context.Context, req AssistantRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockChatLogRepository struct {
	mock.Mock
}

func (m *MockChatLogRepository) Create(ctx context.Context, entry *domain.ChatLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockChatLogRepository) Stats(ctx context.Context) (*domain.ChatStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatStats), args.Error(1)
}

func (m *MockChatLogRepository) TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueryCount), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, cursor *pagination.Cursor, limit int) (*TicketPageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TicketPageResult), args.Error(1)
}

func (m *MockTicketRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockTicketEventPublisher struct {
	mock.Mock
}

func (m *MockTicketEventPublisher) PublishTicketCreated(ctx context.Context, t *domain.Ticket) {
	m.Called(ctx, t)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveChatTurn(outcome string, elapsed time.Duration) {
	m.Called(outcome, elapsed)
}

func (m *MockObserver) ObserveTicket(priority domain.Priority, outcome string) {
	m.Called(priority, outcome)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) Seed(ctx context.Context, docs []domain.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockIndexRefresher struct {
	mock.Mock
}

func (m *MockIndexRefresher) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
	uploaded []byte
}

func (m *MockObjectStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, _ := io.ReadAll(body)
	m.uploaded = data
	args := m.Called(ctx, key, contentType, size)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockDocumentAdder struct {
	mock.Mock
}

func (m *MockDocumentAdder) Add(ctx context.Context, input AddDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
