package workout

import (
	"context"
	"slices"
	"sync"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// VarietyKey identifies the workouts whose last selection is remembered together.
type VarietyKey struct {
	Type       Type
	Difficulty catalog.Difficulty
}

func (k VarietyKey) String() string {
	return string(k.Type) + "-" + string(k.Difficulty)
}

// VarietyStore remembers the exercise names of the most recent program per key.
// Get returns an empty slice when nothing is stored. Set replaces the previous entry.
type VarietyStore interface {
	Get(ctx context.Context, key VarietyKey) ([]string, error)
	Set(ctx context.Context, key VarietyKey, names []string) error
}

// MemoryVarietyStore keeps the entries in process memory. The zero value is ready to use.
type MemoryVarietyStore struct {
	mu      sync.Mutex
	entries map[VarietyKey][]string
}

// NewMemoryVarietyStore returns an empty in-memory store.
func NewMemoryVarietyStore() *MemoryVarietyStore {
	return &MemoryVarietyStore{
		mu:      sync.Mutex{},
		entries: make(map[VarietyKey][]string),
	}
}

func (s *MemoryVarietyStore) Get(_ context.Context, key VarietyKey) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries[key]), nil
}

func (s *MemoryVarietyStore) Set(_ context.Context, key VarietyKey, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[VarietyKey][]string)
	}
	s.entries[key] = slices.Clone(names)
	return nil
}
