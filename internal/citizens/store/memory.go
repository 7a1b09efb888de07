package store

import (
	"context"
	"slices"
	"sync"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
)

// InMemoryStore keeps imports in a map guarded by a RWMutex. Citizens are
// deep-copied on the way in and out.
type InMemoryStore struct {
	mu      sync.RWMutex
	imports map[id.ImportID][]models.Citizen
	lastID  id.ImportID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{imports: make(map[id.ImportID][]models.Citizen)}
}

func (s *InMemoryStore) Create(_ context.Context, citizens []models.Citizen) (id.ImportID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.imports[s.lastID] = normalize(models.CloneCitizens(citizens))
	return s.lastID, nil
}

func (s *InMemoryStore) Get(_ context.Context, importID id.ImportID) (*models.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	citizens, ok := s.imports[importID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &models.Import{ImportID: importID, Citizens: models.CloneCitizens(citizens)}, nil
}

func (s *InMemoryStore) Replace(_ context.Context, importID id.ImportID, citizens []models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.imports[importID]; !ok {
		return sentinel.ErrNotFound
	}
	s.imports[importID] = normalize(models.CloneCitizens(citizens))
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]id.ImportID, 0, len(s.imports))
	for importID := range s.imports {
		ids = append(ids, importID)
	}
	slices.Sort(ids)

	out := make([]*models.Import, 0, len(ids))
	for _, importID := range ids {
		out = append(out, &models.Import{ImportID: importID, Citizens: models.CloneCitizens(s.imports[importID])})
	}
	return out, nil
}

func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}
