package http

import (
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/fiber/v2"
)

// QueryHandler serves POST /query.
type QueryHandler struct {
	nonSerializable
	bridge usecase.QueryBridge
	log    logger.Logger
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(bridge usecase.QueryBridge, log logger.Logger) *QueryHandler {
	return &QueryHandler{bridge: bridge, log: log.WithComponent("query-handler")}
}

// RegisterRoutes registers the query endpoint.
func (h *QueryHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/query", h.Query)
}

// Query mirrors the query result to the database and responds with {path, count}.
func (h *QueryHandler) Query(c *fiber.Ctx) error {
	var q model.Query
	if err := decodeStrict(c.Body(), &q); err != nil {
		return respondError(c, h.log, err)
	}
	result, err := h.bridge.Send(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return writeOnce(c, result)
}
