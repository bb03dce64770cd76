package drafts

import (
	"context"
	"sync"
)

// MemoryStore keeps drafts in memory. Drafts are copied on the way in and
// out, so callers may modify what they pass or receive.
type MemoryStore struct {
	mu     sync.RWMutex
	owners map[string]map[string]*Draft
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{owners: make(map[string]map[string]*Draft)}
}

func (s *MemoryStore) Put(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.owners[d.Owner]
	if !ok {
		byName = make(map[string]*Draft)
		s.owners[d.Owner] = byName
	}
	byName[d.Name] = clone(d)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, owner, name string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.owners[owner][name]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d), nil
}

func (s *MemoryStore) List(ctx context.Context, owner string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Summary, 0, len(s.owners[owner]))
	for _, d := range s.owners[owner] {
		list = append(list, Summary{Name: d.Name, UpdatedAt: d.UpdatedAt})
	}
	sortSummaries(list)
	return list, nil
}

func (s *MemoryStore) Delete(ctx context.Context, owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners[owner], name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
