package knowledge

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

// Loader reads the authoritative document list, ordered by id.
type Loader interface {
	ListAll(ctx context.Context) ([]domain.Document, error)
}

// Index holds the live Store snapshot. Readers always see a complete Store;
// Refresh swaps in a new one atomically.
type Index struct {
	loader  Loader
	current atomic.Pointer[Store]
}

// NewIndex creates an Index serving initial until the first Refresh.
func NewIndex(loader Loader, initial *Store) *Index {
	if initial == nil {
		initial = MustNewStore()
	}
	idx := &Index{loader: loader}
	idx.current.Store(initial)
	return idx
}

// Snapshot returns the Store in effect right now.
func (i *Index) Snapshot() *Store {
	return i.current.Load()
}

// Refresh rebuilds the snapshot from the loader. On error the previous snapshot stays.
func (i *Index) Refresh(ctx context.Context) error {
	if i.loader == nil {
		return nil
	}

	docs, err := i.loader.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	store, err := NewStore(docs...)
	if err != nil {
		return err
	}
	i.current.Store(store)
	return nil
}
