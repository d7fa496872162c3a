package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestUploadService(storage ObjectStorage, docs DocumentAdder, maxBytes int64) *UploadService {
	svc := NewUploadService(storage, docs, maxBytes)
	svc.uuidGen = NewMockUUIDGenerator("upload-1")
	return svc
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a binary file without indexing it", func(t *testing.T) {
		storage := new(MockObjectStorage)
		docs := new(MockDocumentAdder)
		svc := newTestUploadService(storage, docs, 1024)

		storage.On("PutObject", mock.Anything, "uploads/upload-1/manual.pdf", "application/pdf", int64(4)).Return(nil)

		result, err := svc.Upload(ctx, UploadInput{
			Filename:    "manual.pdf",
			ContentType: "application/pdf",
			Size:        4,
			Body:        strings.NewReader("%PDF"),
		})

		require.NoError(t, err)
		assert.Equal(t, "manual.pdf", result.Filename)
		assert.Equal(t, UploadStatusUploaded, result.Status)
		assert.Equal(t, int64(4), result.Size)
		assert.Equal(t, "application/pdf", result.ContentType)
		assert.Nil(t, result.DocumentID)
		assert.Equal(t, []byte("%PDF"), storage.uploaded)
		docs.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("adds text uploads to the knowledge base", func(t *testing.T) {
		storage := new(MockObjectStorage)
		docs := new(MockDocumentAdder)
		svc := newTestUploadService(storage, docs, 1024)

		storage.On("PutObject", mock.Anything, "uploads/upload-1/shipping.md", mock.Anything, mock.Anything).Return(nil)
		docs.On("Add", mock.Anything, AddDocumentInput{
			Title:   "shipping",
			Content: "Orders ship within 2 days.",
			Type:    domain.DocumentTypeSupport,
		}).Return(&domain.Document{ID: 6}, nil)

		result, err := svc.Upload(ctx, UploadInput{
			Filename: "../../shipping.md",
			Body:     strings.NewReader("Orders ship within 2 days."),
		})

		require.NoError(t, err)
		assert.Equal(t, "shipping.md", result.Filename)
		require.NotNil(t, result.DocumentID)
		assert.Equal(t, int64(6), *result.DocumentID)
	})

	t.Run("rejects a text upload with no title before storing it", func(t *testing.T) {
		storage := new(MockObjectStorage)
		docs := new(MockDocumentAdder)
		svc := newTestUploadService(storage, docs, 1024)

		_, err := svc.Upload(ctx, UploadInput{
			Filename:    ".md",
			ContentType: "text/markdown",
			Body:        strings.NewReader("# Returns"),
		})

		assert.Equal(t, domain.ErrCodeValidation, domain.CodeOf(err))
		assert.Contains(t, err.Error(), "title is required")
		storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		docs.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("removes the stored object when ingest fails", func(t *testing.T) {
		storage := new(MockObjectStorage)
		docs := new(MockDocumentAdder)
		svc := newTestUploadService(storage, docs, 1024)

		storage.On("PutObject", mock.Anything, "uploads/upload-1/faq.txt", mock.Anything, mock.Anything).Return(nil)
		storage.On("DeleteObject", mock.Anything, "uploads/upload-1/faq.txt").Return(nil)
		docs.On("Add", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		result, err := svc.Upload(ctx, UploadInput{
			Filename: "faq.txt",
			Body:     strings.NewReader("Refunds take 5 days."),
		})

		require.Error(t, err)
		assert.Nil(t, result)
		storage.AssertExpectations(t)
	})

	t.Run("rejects oversized declared size", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := newTestUploadService(storage, nil, 10)

		_, err := svc.Upload(ctx, UploadInput{Filename: "a.txt", Size: 11, Body: strings.NewReader("x")})

		assert.Equal(t, domain.ErrCodeValidation, domain.CodeOf(err))
		storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := newTestUploadService(storage, nil, 10)

		_, err := svc.Upload(ctx, UploadInput{Filename: "a.txt", Body: strings.NewReader(strings.Repeat("x", 11))})

		assert.Equal(t, domain.ErrCodeValidation, domain.CodeOf(err))
	})

	t.Run("requires a filename", func(t *testing.T) {
		svc := newTestUploadService(new(MockObjectStorage), nil, 10)

		_, err := svc.Upload(ctx, UploadInput{Filename: " ", Body: strings.NewReader("x")})

		assert.Equal(t, domain.ErrCodeValidation, domain.CodeOf(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := newTestUploadService(storage, nil, 1024)

		storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket missing"))

		_, err := svc.Upload(ctx, UploadInput{Filename: "a.bin", Body: strings.NewReader("x")})

		assert.Equal(t, domain.ErrCodeStorageUnavailable, domain.CodeOf(err))
	})
}

func TestIsTextUpload(t *testing.T) {
	assert.True(t, isTextUpload("notes.txt", "application/octet-stream"))
	assert.True(t, isTextUpload("README", "text/plain; charset=utf-8"))
	assert.True(t, isTextUpload("guide.MD", ""))
	assert.False(t, isTextUpload("photo.png", "image/png"))
}
