package history

import (
	"context"
	"sync"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// MemoryStore keeps history in memory
type MemoryStore struct {
	limit   int
	mu      sync.RWMutex
	records map[types.ProviderKind][]Record
}

// NewMemoryStore creates a store keeping at most limit records per kind
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		limit:   limit,
		records: make(map[types.ProviderKind][]Record),
	}
}

func (s *MemoryStore) Add(_ context.Context, record Record) error {
	if err := validKind(record.Kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Kind] = prepend(s.records[record.Kind], record, s.limit)
	return nil
}

func (s *MemoryStore) List(_ context.Context, kind types.ProviderKind) ([]Record, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records[kind]))
	copy(out, s.records[kind])
	return out, nil
}
