package jobs

import (
	"context"
	"fmt"
	"log"
)

// Refresher rebuilds a searchable snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SizeReporter exposes the number of documents in the current snapshot.
type SizeReporter interface {
	Len() int
}

// IndexRefreshWorker reloads the knowledge index so documents written by
// other replicas become searchable.
type IndexRefreshWorker struct {
	index    Refresher
	snapshot func() SizeReporter
	lastSize int
}

// NewIndexRefreshWorker creates a new IndexRefreshWorker instance.
// snapshot may be nil, in which case size changes are not logged.
func NewIndexRefreshWorker(index Refresher, snapshot func() SizeReporter) *IndexRefreshWorker {
	w := &IndexRefreshWorker{index: index, snapshot: snapshot, lastSize: -1}
	if snapshot != nil {
		w.lastSize = snapshot().Len()
	}
	return w
}

// Run reloads the index and logs when the document count changes.
func (w *IndexRefreshWorker) Run(ctx context.Context) error {
	if err := w.index.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh knowledge index: %w", err)
	}

	if w.snapshot == nil {
		return nil
	}
	if size := w.snapshot().Len(); size != w.lastSize {
		log.Printf("Knowledge index refreshed: %d documents (was %d)", size, w.lastSize)
		w.lastSize = size
	}
	return nil
}
