package service

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
)

// DocumentRepository defines the repository interface for knowledge base documents
type DocumentRepository interface {
	ListAll(ctx context.Context) ([]domain.Document, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	// Create assigns the next id to d.
	Create(ctx context.Context, d *domain.Document) error
	Update(ctx context.Context, d *domain.Document) error
	// Seed inserts documents keeping their ids.
	Seed(ctx context.Context, docs []domain.Document) error
	Count(ctx context.Context) (int, error)
}

// IndexRefresher rebuilds the searchable snapshot after a write.
type IndexRefresher interface {
	Refresh(ctx context.Context) error
}

// TitleFinder filters the searchable snapshot by title.
type TitleFinder interface {
	FilterByTitle(term string) []domain.Document
}

// DocumentService manages the knowledge base for the admin view. Every write
// is followed by an index refresh so chat turns see it immediately.
type DocumentService struct {
	repo   DocumentRepository
	index  IndexRefresher
	finder TitleFinder
	tx     TxRunner
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(repo DocumentRepository, index IndexRefresher, finder TitleFinder) *DocumentService {
	return &DocumentService{repo: repo, index: index, finder: finder, tx: inlineTx{repo: repo}}
}

// NewDocumentServiceWithTx creates a DocumentService whose read-modify-write
// operations run inside transactions from tx.
func NewDocumentServiceWithTx(repo DocumentRepository, index IndexRefresher, finder TitleFinder, tx TxRunner) *DocumentService {
	s := NewDocumentService(repo, index, finder)
	if tx != nil {
		s.tx = tx
	}
	return s
}

type AddDocumentInput struct {
	Title   string
	Content string
	Type    domain.DocumentType
}

type UpdateDocumentInput struct {
	ID      int64
	Title   string
	Content string
	Type    domain.DocumentType
}

// List returns documents whose title contains filter, in knowledge base order.
func (s *DocumentService) List(ctx context.Context, filter string) ([]domain.Document, error) {
	_, span := telemetry.StartSpan(ctx, "DocumentService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	docs := s.finder.FilterByTitle(filter)
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// GetByID returns a document from the repository.
func (s *DocumentService) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.GetByID", telemetry.SpanAttributes{
		DocumentID: strconv.FormatInt(id, 10),
		Operation:  "get",
	})
	defer span.End()

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return found, nil
}

// Add stores a new document and refreshes the index.
func (s *DocumentService) Add(ctx context.Context, input AddDocumentInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Add", telemetry.SpanAttributes{
		Operation: "add",
	})
	defer span.End()

	doc := &domain.Document{
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		Type:      input.Type,
		UpdatedAt: time.Now().UTC(),
	}
	if doc.Type == "" {
		doc.Type = domain.DocumentTypeFAQ
	}
	if err := domain.ValidateDocument(doc); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		span.SetError(err)
		return nil, err
	}

	s.refresh(ctx)
	return doc, nil
}

// Update replaces a document's fields and refreshes the index.
func (s *DocumentService) Update(ctx context.Context, input UpdateDocumentInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Update", telemetry.SpanAttributes{
		DocumentID: strconv.FormatInt(input.ID, 10),
		Operation:  "update",
	})
	defer span.End()

	var updated domain.Document
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		existing, err := repos.Documents().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		updated = *existing
		updated.Title = strings.TrimSpace(input.Title)
		updated.Content = strings.TrimSpace(input.Content)
		if input.Type != "" {
			updated.Type = input.Type
		}
		updated.UpdatedAt = time.Now().UTC()

		if err := domain.ValidateDocument(&updated); err != nil {
			return err
		}
		return repos.Documents().Update(ctx, &updated)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.refresh(ctx)
	return &updated, nil
}

// SeedIfEmpty loads docs into an empty repository and refreshes the index.
// It reports whether anything was inserted.
func (s *DocumentService) SeedIfEmpty(ctx context.Context, docs []domain.Document) (bool, error) {
	seeded := false
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		n, err := repos.Documents().Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		if err := repos.Documents().Seed(ctx, docs); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.refresh(ctx)
	return seeded, nil
}

func (s *DocumentService) refresh(ctx context.Context) {
	if s.index == nil {
		return
	}
	if err := s.index.Refresh(ctx); err != nil {
		log.Printf("documents: index refresh failed: %v", err)
		telemetry.CaptureError(ctx, err)
	}
}
