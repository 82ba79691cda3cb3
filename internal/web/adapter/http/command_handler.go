package http

import (
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/fiber/v2"
)

// CommandHandler serves POST /command.
type CommandHandler struct {
	nonSerializable
	commands usecase.CommandUsecase
	log      logger.Logger
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(commands usecase.CommandUsecase, log logger.Logger) *CommandHandler {
	return &CommandHandler{commands: commands, log: log.WithComponent("command-handler")}
}

// RegisterRoutes registers the command endpoint.
func (h *CommandHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/command", h.Post)
}

// Post parses a command, posts it and responds with the acknowledgement.
func (h *CommandHandler) Post(c *fiber.Ctx) error {
	var cmd model.Command
	if err := decodeStrict(c.Body(), &cmd); err != nil {
		return respondError(c, h.log, err)
	}
	ack, err := h.commands.Post(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(ack)
}
