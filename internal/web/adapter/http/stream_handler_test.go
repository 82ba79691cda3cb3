package http_test

import (
	"context"
	"net"
	"testing"
	"time"

	"firebase-web/internal/shared/logger"
	webhttp "firebase-web/internal/web/adapter/http"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startStreamServer(t *testing.T, broadcaster usecase.RecordBroadcaster) string {
	t.Helper()
	log := logger.NewLogger()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	router := &webhttp.Router{
		Stream: webhttp.NewStreamHandler(broadcaster, "", 4, log),
		Tenant: webhttp.TenantMiddleware(nil, log),
	}
	router.RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return ln.Addr().String()
}

func TestStream_DeliversRecordBatches(t *testing.T) {
	broadcaster := usecase.NewRecordBroadcaster(logger.NewLogger())
	addr := startStreamServer(t, broadcaster)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/subscription/stream?path=_/alice/s1", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello webhttp.StreamMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "listening", hello.Type)
	assert.Equal(t, "_/alice/s1", hello.Path)

	broadcaster.Publish(context.Background(), model.RecordBatch{
		Path:    "_/alice/s1",
		Removed: []model.RemovedRecord{{Key: "k1"}},
	})

	var msg webhttp.StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "records", msg.Type)
	require.NotNil(t, msg.Batch)
	assert.Equal(t, []model.RemovedRecord{{Key: "k1"}}, msg.Batch.Removed)
}

func TestStream_RejectsForeignTenantPath(t *testing.T) {
	addr := startStreamServer(t, usecase.NewRecordBroadcaster(logger.NewLogger()))

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/subscription/stream?path=value:acme/alice/s1", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStream_RejectsMalformedPath(t *testing.T) {
	addr := startStreamServer(t, usecase.NewRecordBroadcaster(logger.NewLogger()))

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/subscription/stream?path=a/b.c", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
