package http

import (
	"time"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	streamPathLocal   = "streamPath"
	streamReadTimeout = 60 * time.Second
	defaultStreamBuf  = 10
)

// StreamMessage is one frame sent to a stream listener.
type StreamMessage struct {
	Type  string             `json:"type"`
	Batch *model.RecordBatch `json:"batch,omitempty"`
	Path  string             `json:"path,omitempty"`
}

// StreamHandler streams the record batches written for a subscription path over a websocket.
type StreamHandler struct {
	nonSerializable
	broadcaster usecase.RecordBroadcaster
	route       string
	buffer      int
	log         logger.Logger
}

// NewStreamHandler creates a StreamHandler served at route with a per-connection
// buffer of the given size.
func NewStreamHandler(broadcaster usecase.RecordBroadcaster, route string, buffer int, log logger.Logger) *StreamHandler {
	if route == "" {
		route = "/subscription/stream"
	}
	if buffer <= 0 {
		buffer = defaultStreamBuf
	}
	return &StreamHandler{
		broadcaster: broadcaster,
		route:       route,
		buffer:      buffer,
		log:         log.WithComponent("stream-handler"),
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get(h.route, h.upgrade, websocket.New(h.stream))
}

// upgrade validates the requested path before the connection is upgraded.
func (h *StreamHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	path, err := model.ParseDatabasePath(c.Query("path"))
	if err != nil {
		return respondError(c, h.log, errors.NewValidationError(err.Error()).WithCause(err))
	}
	tenant, _ := model.TenantFromContext(c.UserContext())
	if !path.BelongsTo(tenant) {
		return respondError(c, h.log, errors.NewNotFoundError("subscription").WithCause(errors.ErrSubscriptionNotFound))
	}
	c.Locals(streamPathLocal, path.String())
	return c.Next()
}

func (h *StreamHandler) stream(conn *websocket.Conn) {
	path, _ := conn.Locals(streamPathLocal).(string)
	subscriberID := uuid.NewString()
	log := h.log.WithFields(map[string]interface{}{"listener": subscriberID, "path": path})

	batches := make(chan model.RecordBatch, h.buffer)
	h.broadcaster.Subscribe(subscriberID, path, batches)
	defer h.broadcaster.Unsubscribe(subscriberID, path)
	log.Info("Stream listener connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithFields(map[string]interface{}{"error": err}).Warn("Stream read failed")
				}
				return
			}
		}
	}()

	if err := conn.WriteJSON(StreamMessage{Type: "listening", Path: path}); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			log.Info("Stream listener disconnected")
			return
		case batch := <-batches:
			if err := conn.WriteJSON(StreamMessage{Type: "records", Batch: &batch}); err != nil {
				log.WithFields(map[string]interface{}{"error": err}).Warn("Stream write failed")
				return
			}
		}
	}
}
