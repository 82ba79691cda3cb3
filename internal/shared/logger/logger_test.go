package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"firebase-web/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithConfig("info", "json")
	var _ Logger = NewZapLogger("debug", true)
}

func TestLogrusLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogrusLogger(buf, logrus.InfoLevel, &logrus.JSONFormatter{})

	ctx := context.WithValue(context.Background(), contextkeys.TenantIDKey, "domain:spine.io")
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, "req-1")
	log.WithContext(ctx).WithComponent("query-bridge").Info("query mirrored")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "domain:spine.io", entry["tenant_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "query-bridge", entry["component"])
	assert.Equal(t, "query mirrored", entry["msg"])
}

func TestLogrusLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogrusLogger(buf, logrus.WarnLevel, &logrus.TextFormatter{})
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warnf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestZapLogger_WithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.WithFields(map[string]interface{}{"path": "a/b"}).WithComponent("mirror").Debug("written")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "a/b", fields["path"])
	assert.Equal(t, "mirror", fields["component"])
}
