package sample

import (
	"encoding/json"
	"sort"
	"sync"

	"firebase-web/internal/web/domain/model"
)

// Store holds entity states per tenant and type.
type Store struct {
	mu       sync.RWMutex
	entities map[storeKey]map[string]model.EntityState
}

type storeKey struct {
	tenant     string
	entityType string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entities: make(map[storeKey]map[string]model.EntityState)}
}

// Create stores entity unless an entity with the same type and id exists.
func (s *Store) Create(tenant model.TenantID, entity model.EntityState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey{tenant.String(), entity.Type}
	bucket := s.entities[key]
	if bucket == nil {
		bucket = make(map[string]model.EntityState)
		s.entities[key] = bucket
	}
	if _, exists := bucket[entity.ID]; exists {
		return false
	}
	bucket[entity.ID] = entity
	return true
}

// Update replaces the state of an existing entity with the result of apply.
// It reports false when the entity does not exist.
func (s *Store) Update(tenant model.TenantID, entityType, id string, apply func(json.RawMessage) (json.RawMessage, error)) (model.EntityState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.entities[storeKey{tenant.String(), entityType}]
	entity, ok := bucket[id]
	if !ok {
		return model.EntityState{}, false, nil
	}
	state, err := apply(entity.State)
	if err != nil {
		return model.EntityState{}, true, err
	}
	entity.State = state
	bucket[id] = entity
	return entity, true, nil
}

// Get returns one entity.
func (s *Store) Get(tenant model.TenantID, entityType, id string) (model.EntityState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[storeKey{tenant.String(), entityType}][id]
	return entity, ok
}

// List returns the entities of a type ordered by id.
func (s *Store) List(tenant model.TenantID, entityType string) []model.EntityState {
	s.mu.RLock()
	bucket := s.entities[storeKey{tenant.String(), entityType}]
	out := make([]model.EntityState, 0, len(bucket))
	for _, entity := range bucket {
		out = append(out, entity)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
