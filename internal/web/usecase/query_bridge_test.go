package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/web/adapter/persistence/memory"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func taskQuery(id string) model.Query {
	return model.Query{
		ID:      id,
		Target:  model.Target{Type: "Task", IncludeAll: true},
		Context: model.ActorContext{TenantID: model.TenantID{Value: "acme"}, Actor: "alice"},
	}
}

func taskStates() []model.EntityState {
	return []model.EntityState{
		{ID: "t1", Type: "Task", State: json.RawMessage(`{"id":"t1","name":"one"}`)},
		{ID: "t2", Type: "Task", State: json.RawMessage(`{"id":"t2","name":"two"}`)},
	}
}

func TestQueryBridge_MirrorsEntities(t *testing.T) {
	service := new(MockQueryService)
	db := memory.NewClient()
	metrics := newCountingMetrics()
	bridge := usecase.NewQueryBridge(service, db, metrics, &MockLogger{})
	service.On("Read", mock.Anything, mock.Anything).Return(taskStates(), nil)

	result, err := bridge.Send(context.Background(), taskQuery("q1"))

	require.NoError(t, err)
	path := model.AllocateForQuery(taskQuery("q1"))
	assert.Equal(t, path.String(), result.Path)
	assert.Equal(t, int64(2), result.Count)

	children, err := db.Children(context.Background(), path)
	require.NoError(t, err)
	values := make([]string, 0, len(children))
	for _, v := range children {
		values = append(values, v)
	}
	assert.ElementsMatch(t, []string{`{"id":"t1","name":"one"}`, `{"id":"t2","name":"two"}`}, values)
	assert.Equal(t, 1, metrics.queries)
}

func TestQueryBridge_ResendReplacesResult(t *testing.T) {
	service := new(MockQueryService)
	db := memory.NewClient()
	bridge := usecase.NewQueryBridge(service, db, nil, &MockLogger{})
	service.On("Read", mock.Anything, mock.Anything).Return(taskStates(), nil)

	_, err := bridge.Send(context.Background(), taskQuery("q1"))
	require.NoError(t, err)
	_, err = bridge.Send(context.Background(), taskQuery("q1"))
	require.NoError(t, err)

	assert.Equal(t, 2, db.Len())
}

func TestQueryBridge_InvalidQuery(t *testing.T) {
	service := new(MockQueryService)
	bridge := usecase.NewQueryBridge(service, memory.NewClient(), nil, &MockLogger{})
	q := taskQuery("q1")
	q.Target.IncludeAll = false

	_, err := bridge.Send(context.Background(), q)

	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
	service.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}

func TestQueryBridge_PropagatesDatabaseErrors(t *testing.T) {
	service := new(MockQueryService)
	db := &failingDatabase{Client: memory.NewClient(), failAfter: 1}
	bridge := usecase.NewQueryBridge(service, db, nil, &MockLogger{})
	service.On("Read", mock.Anything, mock.Anything).Return(taskStates(), nil)

	_, err := bridge.Send(context.Background(), taskQuery("q1"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(err))
	assert.Equal(t, 2, db.writes, "no retry after the failing write")
}

func TestQueryBridge_DistinctQueriesDistinctPaths(t *testing.T) {
	service := new(MockQueryService)
	bridge := usecase.NewQueryBridge(service, memory.NewClient(), nil, &MockLogger{})
	service.On("Read", mock.Anything, mock.Anything).Return([]model.EntityState{}, nil)

	first, err := bridge.Send(context.Background(), taskQuery(""))
	require.NoError(t, err)
	second, err := bridge.Send(context.Background(), taskQuery(""))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, int64(0), first.Count)
}
