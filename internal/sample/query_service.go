package sample

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/web/domain/model"
)

var entityTypes = map[string]bool{TypeTask: true, TypeProject: true}

// QueryService reads entity states from the store.
type QueryService struct {
	store   *Store
	filters *Filters
}

// NewQueryService creates a QueryService.
func NewQueryService(store *Store, filters *Filters) *QueryService {
	return &QueryService{store: store, filters: filters}
}

// Read returns the entities of the query tenant selected by the query target.
func (s *QueryService) Read(_ context.Context, q model.Query) ([]model.EntityState, error) {
	m, err := targetMatcher(s.filters, q.Target)
	if err != nil {
		return nil, err
	}

	var out []model.EntityState
	for _, entity := range s.store.List(q.Context.TenantID, q.Target.Type) {
		if m.matches(entity) {
			out = append(out, entity)
		}
	}
	return out, nil
}

func targetMatcher(filters *Filters, target model.Target) (*matcher, error) {
	if !entityTypes[target.Type] {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown entity type %q", target.Type)).
			WithCause(errors.ErrInvalidQuery)
	}
	m, err := filters.matcher(target)
	if err != nil {
		return nil, errors.NewValidationError("invalid target filter").WithCause(err)
	}
	return m, nil
}
