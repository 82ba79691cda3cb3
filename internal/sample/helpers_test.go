package sample_test

import (
	"context"
	"encoding/json"
	"testing"

	"firebase-web/internal/sample"
	"firebase-web/internal/shared/eventbus"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"

	"github.com/stretchr/testify/require"
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

var acme = model.TenantID{Domain: "acme.org"}

func newApplication(t *testing.T) *sample.Application {
	t.Helper()
	log := &MockLogger{}
	app, err := sample.NewApplication(eventbus.NewEventBus(log), log)
	require.NoError(t, err)
	return app
}

func command(t *testing.T, tenant model.TenantID, messageType string, message interface{}) model.Command {
	t.Helper()
	value, err := json.Marshal(message)
	require.NoError(t, err)
	return model.Command{
		ID:      model.NewMessageID(),
		Message: model.AnyMessage{Type: messageType, Value: value},
		Context: model.ActorContext{TenantID: tenant, Actor: "tester"},
	}
}

func post(t *testing.T, app *sample.Application, tenant model.TenantID, messageType string, message interface{}) model.Ack {
	t.Helper()
	ack, err := app.Commands.Post(context.Background(), command(t, tenant, messageType, message))
	require.NoError(t, err)
	return ack
}

func taskQuery(tenant model.TenantID, target model.Target) model.Query {
	target.Type = sample.TypeTask
	return model.Query{ID: model.NewMessageID(), Target: target, Context: model.ActorContext{TenantID: tenant}}
}
