package usecase_test

import (
	"context"
	"errors"
	"sync"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/adapter/persistence/memory"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements the logger interface for testing
type MockLogger struct{}

func (m *MockLogger) Debug(args ...interface{})                              {}
func (m *MockLogger) Info(args ...interface{})                               {}
func (m *MockLogger) Warn(args ...interface{})                               {}
func (m *MockLogger) Error(args ...interface{})                              {}
func (m *MockLogger) Fatal(args ...interface{})                              {}
func (m *MockLogger) Debugf(format string, args ...interface{})              {}
func (m *MockLogger) Infof(format string, args ...interface{})               {}
func (m *MockLogger) Warnf(format string, args ...interface{})               {}
func (m *MockLogger) Errorf(format string, args ...interface{})              {}
func (m *MockLogger) Fatalf(format string, args ...interface{})              {}
func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger { return m }
func (m *MockLogger) WithContext(ctx context.Context) logger.Logger          { return m }
func (m *MockLogger) WithComponent(component string) logger.Logger           { return m }

type MockCommandService struct {
	mock.Mock
}

func (m *MockCommandService) Post(ctx context.Context, cmd model.Command) (model.Ack, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(model.Ack), args.Error(1)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Read(ctx context.Context, q model.Query) ([]model.EntityState, error) {
	args := m.Called(ctx, q)
	entities, _ := args.Get(0).([]model.EntityState)
	return entities, args.Error(1)
}

// fakeSubscriptionService delivers the initial entities on activation and keeps the
// handlers so tests can push further updates.
type fakeSubscriptionService struct {
	mu          sync.Mutex
	initial     []model.EntityChange
	handlers    map[string]repository.UpdateHandler
	cancelled   []string
	activateErr error
	cancelErr   error
}

func newFakeSubscriptionService(initial ...model.EntityChange) *fakeSubscriptionService {
	return &fakeSubscriptionService{initial: initial, handlers: make(map[string]repository.UpdateHandler)}
}

func (f *fakeSubscriptionService) Activate(ctx context.Context, sub model.Subscription, handler repository.UpdateHandler) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.mu.Lock()
	f.handlers[sub.ID.Value] = handler
	f.mu.Unlock()
	return handler(ctx, model.SubscriptionUpdate{SubscriptionID: sub.ID, Changes: f.initial})
}

func (f *fakeSubscriptionService) Cancel(_ context.Context, sub model.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	delete(f.handlers, sub.ID.Value)
	f.cancelled = append(f.cancelled, sub.ID.Value)
	return nil
}

func (f *fakeSubscriptionService) push(ctx context.Context, sub model.Subscription, changes ...model.EntityChange) error {
	f.mu.Lock()
	handler := f.handlers[sub.ID.Value]
	f.mu.Unlock()
	if handler == nil {
		return errors.New("subscription is not active")
	}
	return handler(ctx, model.SubscriptionUpdate{SubscriptionID: sub.ID, Changes: changes})
}

// failingDatabase fails every write after the first failAfter ones and every
// delete once deleteErr is set.
type failingDatabase struct {
	*memory.Client
	failAfter int
	writes    int
	deleteErr error
}

var (
	errDatabaseDown         = errors.New("database unavailable")
	errFrameworkUnavailable = errors.New("framework unavailable")
)

func (f *failingDatabase) Delete(ctx context.Context, path model.DatabasePath) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Client.Delete(ctx, path)
}

func (f *failingDatabase) Push(ctx context.Context, path model.DatabasePath, value string) (string, error) {
	f.writes++
	if f.writes > f.failAfter {
		return "", errDatabaseDown
	}
	return f.Client.Push(ctx, path, value)
}

type countingMetrics struct {
	mu      sync.Mutex
	records map[model.RecordKind]int
	queries int
	active  int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{records: make(map[model.RecordKind]int)}
}

func (m *countingMetrics) RecordsWritten(kind model.RecordKind, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[kind] += n
}

func (m *countingMetrics) QueryMirrored(int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
}

func (m *countingMetrics) SubscriptionsActive(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active += delta
}

type recordingPublisher struct {
	mu      sync.Mutex
	batches []model.RecordBatch
}

func (p *recordingPublisher) Publish(_ context.Context, batch model.RecordBatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, batch)
}
