package http

import (
	"context"
	"time"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/repository"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 3 * time.Second

// HealthHandler serves GET /health by pinging the database.
type HealthHandler struct {
	nonSerializable
	db      repository.DatabaseClient
	backend string
	log     logger.Logger
}

// NewHealthHandler creates a HealthHandler reporting backend as the database name.
func NewHealthHandler(db repository.DatabaseClient, backend string, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, backend: backend, log: log.WithComponent("health-handler")}
}

// RegisterRoutes registers the health endpoint.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.WithFields(map[string]interface{}{"error": err}).Warn("Database ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": h.backend,
			"message":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": h.backend,
	})
}
