package store

import (
	"context"
	"sync"
	"time"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/search"
)

var _ model.CacheStore = (*MemoryStore)(nil)

// MemoryStore is a process-local store used for dry runs and tests. Nothing
// survives Close.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
	nextID  int64
	now     func() time.Time
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{now: o.now}
}

func (s *MemoryStore) HasAnyData(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records) > 0, nil
}

func (s *MemoryStore) MostRecentFetchTime(_ context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *time.Time
	for i := range s.records {
		if latest == nil || s.records[i].FetchedAt.After(*latest) {
			t := s.records[i].FetchedAt
			latest = &t
		}
	}
	return latest, nil
}

func (s *MemoryStore) InsertAll(_ context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	fetchedAt := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		r.Title = search.Normalize(r.Title)
		r.FetchedAt = fetchedAt
		s.records = append(s.records, r)
	}
	return nil
}

func (s *MemoryStore) WipeAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := int64(len(s.records))
	s.records = nil
	return removed, nil
}

func (s *MemoryStore) SearchByTitle(_ context.Context, query string) ([]model.Record, error) {
	s.mu.RLock()
	snapshot := make([]model.Record, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()

	return search.Match(query, snapshot, func() ([]model.Record, error) {
		return snapshot, nil
	})
}

func (s *MemoryStore) Close() error { return nil }
