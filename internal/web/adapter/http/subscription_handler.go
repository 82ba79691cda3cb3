package http

import (
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/fiber/v2"
)

// SubscriptionHandler serves the subscription lifecycle endpoints.
type SubscriptionHandler struct {
	nonSerializable
	bridge usecase.SubscriptionBridge
	log    logger.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(bridge usecase.SubscriptionBridge, log logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{bridge: bridge, log: log.WithComponent("subscription-handler")}
}

// RegisterRoutes registers create, keep-up and cancel under /subscription.
func (h *SubscriptionHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/subscription")
	group.Post("/create", h.Create)
	group.Post("/keep-up", h.KeepUp)
	group.Post("/cancel", h.Cancel)
}

// Create activates a subscription for the posted topic.
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var topic model.Topic
	if err := decodeStrict(c.Body(), &topic); err != nil {
		return respondError(c, h.log, err)
	}
	sub, err := h.bridge.Subscribe(c.UserContext(), topic)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return writeOnce(c, model.SubscribeResult{Subscription: sub})
}

// KeepUp extends the lifetime of the posted subscription.
func (h *SubscriptionHandler) KeepUp(c *fiber.Ctx) error {
	var sub model.Subscription
	if err := decodeStrict(c.Body(), &sub); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.bridge.KeepUp(c.UserContext(), sub); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(model.NewOKAck(sub.ID.Value))
}

// Cancel cancels the posted subscription and removes its records.
func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	var sub model.Subscription
	if err := decodeStrict(c.Body(), &sub); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.bridge.Cancel(c.UserContext(), sub); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(model.NewOKAck(sub.ID.Value))
}
