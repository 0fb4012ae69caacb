package store

import (
	"errors"
	"sync"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

var (
	// ErrNotLoaded is returned when no dataset has been loaded yet.
	ErrNotLoaded = errors.New("dataset not loaded")
)

// MemoryStore is a concurrency-safe in-memory holder of the current table.
type MemoryStore struct {
	mu sync.RWMutex

	current *rental.Table
	history []rental.LoadInfo

	// retention configuration
	maxHistory int // max number of load records kept
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, the load history is unbounded.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
	}
}

// Save makes t the current table and appends it to the load history.
func (s *MemoryStore) Save(t *rental.Table) {
	if t == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = t
	s.history = append(s.history, t.Info())

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = s.history[over:]
	}
}

// Current returns the most recently saved table.
func (s *MemoryStore) Current() (*rental.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// History returns the load records, oldest first.
func (s *MemoryStore) History() []rental.LoadInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rental.LoadInfo, len(s.history))
	copy(out, s.history)
	return out
}
