package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
)

// UploadStatusUploaded is reported for every stored file.
const UploadStatusUploaded = "uploaded"

// ObjectStorage stores uploaded files.
type ObjectStorage interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	DeleteObject(ctx context.Context, key string) error
}

// DocumentAdder adds an extracted document to the knowledge base.
type DocumentAdder interface {
	Add(ctx context.Context, input AddDocumentInput) (*domain.Document, error)
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	Filename    string
	Status      string
	Size        int64
	ContentType string
	Key         string
	// DocumentID is set when the upload was also added to the knowledge base.
	DocumentID *int64
}

// UploadService stores uploaded files and indexes plain-text ones.
type UploadService struct {
	storage  ObjectStorage
	docs     DocumentAdder
	uuidGen  UUIDGenerator
	maxBytes int64
}

// NewUploadService creates a new UploadService instance
func NewUploadService(storage ObjectStorage, docs DocumentAdder, maxBytes int64) *UploadService {
	return &UploadService{
		storage:  storage,
		docs:     docs,
		uuidGen:  &DefaultUUIDGenerator{},
		maxBytes: maxBytes,
	}
}

// Upload stores the file under uploads/<uuid>/<name>. Text and markdown files
// are also added to the knowledge base as Support documents.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "UploadService.Upload", telemetry.SpanAttributes{
		Operation: "upload",
	})
	defer span.End()

	name := path.Base(filepath.ToSlash(strings.TrimSpace(input.Filename)))
	if name == "" || name == "." || name == "/" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "filename is required")
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.limit()+1))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to read upload", err)
	}
	if int64(len(data)) > s.limit() {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	// Text uploads become knowledge-base documents and are validated before the put.
	var docInput *AddDocumentInput
	if s.docs != nil && isTextUpload(name, contentType) && utf8.Valid(data) && len(bytes.TrimSpace(data)) > 0 {
		docInput = &AddDocumentInput{
			Title:   strings.TrimSuffix(name, filepath.Ext(name)),
			Content: string(data),
			Type:    domain.DocumentTypeSupport,
		}
		candidate := &domain.Document{Title: docInput.Title, Content: docInput.Content, Type: docInput.Type}
		if err := domain.ValidateDocument(candidate); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("uploads/%s/%s", s.uuidGen.NewString(), name)
	if err := s.storage.PutObject(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStorageUnavailable, "failed to store upload", err)
	}

	result := &UploadResult{
		Filename:    name,
		Status:      UploadStatusUploaded,
		Size:        int64(len(data)),
		ContentType: contentType,
		Key:         key,
	}

	if docInput != nil {
		doc, err := s.docs.Add(ctx, *docInput)
		if err != nil {
			span.RecordError(err)
			if delErr := s.storage.DeleteObject(context.WithoutCancel(ctx), key); delErr != nil {
				log.Printf("failed to remove upload %s after ingest error: %v", key, delErr)
			}
			return nil, err
		}
		result.DocumentID = &doc.ID
	}

	return result, nil
}

func (s *UploadService) limit() int64 {
	if s.maxBytes > 0 {
		return s.maxBytes
	}
	return 10 << 20
}

func isTextUpload(name, contentType string) bool {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "text/plain", "text/markdown", "text/x-markdown":
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}
