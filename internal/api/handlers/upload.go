package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/service"
)

// multipart parts beyond this are spooled to disk by net/http
const uploadMemory = 8 << 20

type UploadService interface {
	Upload(ctx context.Context, input service.UploadInput) (*service.UploadResult, error)
}

type UploadHandler struct {
	svc UploadService
}

// NewUploadHandler accepts a nil service; uploads then answer 503.
func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type UploadResponse struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	DocumentID  *int64 `json:"document_id,omitempty"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		api.Error(w, http.StatusServiceUnavailable, domain.ErrStorageNotConfigured.Message)
		return
	}

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Error(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(r.Context(), service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, UploadResponse{
		Filename:    result.Filename,
		Status:      result.Status,
		Size:        result.Size,
		ContentType: result.ContentType,
		DocumentID:  result.DocumentID,
	})
}
