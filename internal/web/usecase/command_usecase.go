package usecase

import (
	"context"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/shared/utils"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"
)

// CommandUsecase posts commands received over HTTP to the application.
type CommandUsecase interface {
	Post(ctx context.Context, cmd model.Command) (model.Ack, error)
}

type commandUsecase struct {
	service repository.CommandService
	log     logger.Logger
}

// NewCommandUsecase creates a CommandUsecase dispatching to service.
func NewCommandUsecase(service repository.CommandService, log logger.Logger) CommandUsecase {
	return &commandUsecase{service: service, log: log.WithComponent("command-usecase")}
}

func (uc *commandUsecase) Post(ctx context.Context, cmd model.Command) (model.Ack, error) {
	ctx = utils.WithOperation(ctx, "post_command")
	model.EnsureID(&cmd.ID)
	if err := applyRequestContext(ctx, &cmd.Context); err != nil {
		return model.Ack{}, err
	}
	if err := cmd.Validate(); err != nil {
		return model.Ack{}, validationError(err)
	}

	log := uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"command_id":   cmd.ID,
		"command_type": cmd.Message.Type,
	})
	ack, err := uc.service.Post(ctx, cmd)
	if err != nil {
		log.WithFields(map[string]interface{}{"error": err}).Warn("Command was not accepted")
		return model.Ack{}, errors.WrapError(err, "failed to post command")
	}
	if ack.MessageID == "" {
		ack.MessageID = cmd.ID
	}
	log.Debug("Command posted")
	return ack, nil
}
