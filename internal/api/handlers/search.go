package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
)

const maxSearchLimit = 50

type Searcher interface {
	Search(query string, limit int) []domain.Document
}

type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []DocumentResponse `json:"results"`
	Total   int                `json:"total"`
}

// Search runs a substring lookup. An omitted limit uses the chat default;
// a zero or negative limit yields no results.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := knowledge.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results := documentsToResponse(h.searcher.Search(req.Query, limit))

	api.Success(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: results,
		Total:   len(results),
	})
}
