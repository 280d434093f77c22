package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps charts in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	charts map[string]*StoredChart
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{charts: make(map[string]*StoredChart)}
}

// Save persists a chart, assigning an ID if needed.
func (s *MemoryStore) Save(ctx context.Context, chart *StoredChart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if chart.ID == "" {
		chart.ID = NewID()
		chart.CreatedAt = now
	} else if existing, ok := s.charts[chart.ID]; ok {
		chart.CreatedAt = existing.CreatedAt
	} else if chart.CreatedAt.IsZero() {
		chart.CreatedAt = now
	}
	chart.UpdatedAt = now

	clone := *chart
	s.charts[chart.ID] = &clone
	return nil
}

// Get retrieves a chart by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chart, ok := s.charts[id]
	if !ok {
		return nil, notFound(id)
	}
	clone := *chart
	return &clone, nil
}

// List returns all charts ordered by creation time.
func (s *MemoryStore) List(ctx context.Context) ([]*StoredChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StoredChart, 0, len(s.charts))
	for _, chart := range s.charts {
		clone := *chart
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a chart by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.charts[id]; !ok {
		return notFound(id)
	}
	delete(s.charts, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
