package knowledge

import (
	"strings"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

// DefaultLimit is the number of documents a chat turn is grounded on.
const DefaultLimit = 3

// Source yields the Store to search. *Store and *Index both satisfy it.
type Source interface {
	Snapshot() *Store
}

// Snapshot lets a bare Store act as a Source.
func (s *Store) Snapshot() *Store {
	return s
}

// Retriever finds documents whose title or content contains a query.
type Retriever struct {
	source Source
}

// NewRetriever creates a Retriever over source.
func NewRetriever(source Source) *Retriever {
	return &Retriever{source: source}
}

// Search returns at most limit documents containing query, case-insensitively,
// in title or content. Results keep the store's insertion order. An empty query
// matches every document. A negative limit yields no results.
func (r *Retriever) Search(query string, limit int) []domain.Document {
	if limit <= 0 {
		return []domain.Document{}
	}

	needle := strings.ToLower(query)
	results := make([]domain.Document, 0, limit)
	for _, d := range r.source.Snapshot().docs {
		if !d.Matches(needle) {
			continue
		}
		results = append(results, d)
		if len(results) == limit {
			break
		}
	}
	return results
}

// FilterByTitle returns documents whose title contains term, case-insensitively,
// in store order. It backs the admin document list filter.
func (r *Retriever) FilterByTitle(term string) []domain.Document {
	needle := strings.ToLower(strings.TrimSpace(term))
	var out []domain.Document
	for _, d := range r.source.Snapshot().docs {
		if strings.Contains(strings.ToLower(d.Title), needle) {
			out = append(out, d)
		}
	}
	return out
}
