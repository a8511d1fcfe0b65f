package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tjfontaine/mrr-go/internal/storage"
)

// Store is an in-process CallStore.
type Store struct {
	mu      sync.RWMutex
	records []*storage.CallRecord
}

var _ storage.CallStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Record(ctx context.Context, rec *storage.CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.records = append(s.records, &cp)
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]*storage.CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*storage.CallRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		cp := *s.records[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) Close() error {
	return nil
}
