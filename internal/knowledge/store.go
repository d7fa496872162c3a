// Package knowledge holds the in-memory knowledge base used to ground chat replies.
package knowledge

import (
	"fmt"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

// Store is an immutable, ordered collection of documents. A Store is safe for
// concurrent use because nothing mutates it after NewStore returns.
type Store struct {
	docs []domain.Document
}

// NewStore builds a Store preserving the given order. Duplicate ids are rejected.
func NewStore(docs ...domain.Document) (*Store, error) {
	seen := make(map[int64]struct{}, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.ID]; dup {
			return nil, domain.NewDomainErrorWithCause(
				domain.ErrDuplicateDocumentID.Code,
				domain.ErrDuplicateDocumentID.Message,
				fmt.Errorf("id %d", d.ID),
			)
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return &Store{docs: out}, nil
}

// MustNewStore is NewStore for fixed inputs known to be valid.
func MustNewStore(docs ...domain.Document) *Store {
	s, err := NewStore(docs...)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns every document in insertion order. The slice is a copy.
func (s *Store) All() []domain.Document {
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Len returns the number of documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// Get looks up a document by id.
func (s *Store) Get(id int64) (domain.Document, bool) {
	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}
