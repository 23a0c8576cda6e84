package match

import (
	"context"
	"sync"
)

// TimeKey addresses one cell of the historical time table
type TimeKey struct {
	Category   string
	Difficulty int
}

// HistoryStore persists the observed mean completion time per (category,
// difficulty bucket). Loaded once at the start of a batch and written back
// once at the end; a missing store reads as an empty map, never an error.
type HistoryStore interface {
	Load(ctx context.Context) (map[TimeKey]float64, error)
	Save(ctx context.Context, times map[TimeKey]float64) error
}

// MemoryHistoryStore is an in-memory HistoryStore, used in tests and when no
// database is configured
type MemoryHistoryStore struct {
	mu    sync.Mutex
	times map[TimeKey]float64
}

// NewMemoryHistoryStore creates an empty in-memory store
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{times: map[TimeKey]float64{}}
}

// Load returns a copy of the stored table
func (s *MemoryHistoryStore) Load(_ context.Context) (map[TimeKey]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[TimeKey]float64, len(s.times))
	for k, v := range s.times {
		res[k] = v
	}
	return res, nil
}

// Save replaces the stored table
func (s *MemoryHistoryStore) Save(_ context.Context, times map[TimeKey]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times = make(map[TimeKey]float64, len(times))
	for k, v := range times {
		s.times[k] = v
	}
	return nil
}
