package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the EntryRepository interface
type MemoryStore struct {
	entries map[string]*core.Entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*core.Entry),
		logger:  logger,
	}
}

// Save inserts or replaces an entry
func (s *MemoryStore) Save(ctx context.Context, entry *core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID] = copyEntry(entry)
	s.logger.Debug("Entry stored", zap.String("id", entry.ID))
	return nil
}

// Get retrieves an entry by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	return copyEntry(entry), nil
}

// List returns every entry, newest first
func (s *MemoryStore) List(ctx context.Context) ([]*core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, copyEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes an entry
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return notFound(id)
	}
	delete(s.entries, id)
	return nil
}

func copyEntry(e *core.Entry) *core.Entry {
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	c.ImagePaths = append([]string(nil), e.ImagePaths...)
	if e.Analysis != nil {
		a := *e.Analysis
		a.ExtractedTags = append([]string(nil), e.Analysis.ExtractedTags...)
		c.Analysis = &a
	}
	return &c
}
