package store

import (
	"context"
	"sort"
	"sync"

	"represent/internal/officials/models"
	"represent/pkg/platform/sentinel"
)

// InMemoryStore keeps officials in a map. Used by tests and by deployments
// without a configured database.
type InMemoryStore struct {
	mu        sync.RWMutex
	officials map[string]models.Official
}

// NewInMemory creates an empty in-memory officials store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{officials: make(map[string]models.Official)}
}

func (s *InMemoryStore) Create(_ context.Context, official *models.Official) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officials[official.ID]; exists {
		return sentinel.ErrConflict
	}
	s.officials[official.ID] = *official
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*models.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	official, ok := s.officials[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &official, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Official, 0, len(s.officials))
	for _, official := range s.officials {
		o := official
		out = append(out, &o)
	}
	sortOfficials(out)
	return out, nil
}

func (s *InMemoryStore) ListByDivisions(_ context.Context, divisionIDs []string) ([]*models.Official, error) {
	wanted := make(map[string]bool, len(divisionIDs))
	for _, id := range divisionIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Official
	for _, official := range s.officials {
		if wanted[official.DivisionID] {
			o := official
			out = append(out, &o)
		}
	}
	sortOfficials(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, official *models.Official) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officials[official.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.officials[official.ID] = *official
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officials[id]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.officials, id)
	return nil
}

func sortOfficials(officials []*models.Official) {
	sort.Slice(officials, func(i, j int) bool {
		if officials[i].DivisionID != officials[j].DivisionID {
			return officials[i].DivisionID < officials[j].DivisionID
		}
		return officials[i].Name < officials[j].Name
	})
}

var _ Store = (*InMemoryStore)(nil)
