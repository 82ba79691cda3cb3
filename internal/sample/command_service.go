package sample

import (
	"context"
	"encoding/json"
	"fmt"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/eventbus"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
)

// commandHandler applies one command. A nil event with a non-nil ack means the
// command was refused.
type commandHandler func(tenant model.TenantID, cmd model.Command) (*EntityStateChanged, *model.Ack, error)

// CommandService handles the Task and Project commands.
type CommandService struct {
	store    *Store
	bus      eventbus.EventBusInterface
	log      logger.Logger
	handlers map[string]commandHandler
}

// NewCommandService creates a CommandService publishing state changes on bus.
func NewCommandService(store *Store, bus eventbus.EventBusInterface, log logger.Logger) *CommandService {
	s := &CommandService{
		store: store,
		bus:   bus,
		log:   log.WithComponent("sample-commands"),
	}
	s.handlers = map[string]commandHandler{
		CommandCreateTask:    s.createTask,
		CommandRenameTask:    s.renameTask,
		CommandCreateProject: s.createProject,
	}
	return s
}

// Post applies cmd and publishes the resulting state change.
func (s *CommandService) Post(ctx context.Context, cmd model.Command) (model.Ack, error) {
	handle, ok := s.handlers[cmd.Message.Type]
	if !ok {
		return model.Ack{}, errors.NewValidationError(fmt.Sprintf("unknown command type %q", cmd.Message.Type)).
			WithCause(errors.ErrInvalidCommand)
	}

	event, refusal, err := handle(cmd.Context.TenantID, cmd)
	if err != nil {
		return model.Ack{}, err
	}
	if refusal != nil {
		return *refusal, nil
	}

	if err := s.bus.Publish(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeEntityStateChanged, *event, "sample")); err != nil {
		s.log.WithContext(ctx).WithFields(map[string]interface{}{
			"event":  event.Event,
			"entity": event.Entity.ID,
			"error":  err,
		}).Warn("Entity state change was not delivered to every subscriber")
	}
	return model.NewOKAck(cmd.ID), nil
}

func (s *CommandService) createTask(tenant model.TenantID, cmd model.Command) (*EntityStateChanged, *model.Ack, error) {
	var msg CreateTask
	if err := decodeMessage(cmd, &msg); err != nil {
		return nil, nil, err
	}
	if msg.ID == "" {
		return nil, nil, missingID(cmd)
	}
	return s.create(tenant, cmd, EventTaskCreated, TypeTask, msg.ID, Task{ID: msg.ID, Name: msg.Name, Description: msg.Description})
}

func (s *CommandService) renameTask(tenant model.TenantID, cmd model.Command) (*EntityStateChanged, *model.Ack, error) {
	var msg RenameTask
	if err := decodeMessage(cmd, &msg); err != nil {
		return nil, nil, err
	}
	if msg.ID == "" {
		return nil, nil, missingID(cmd)
	}
	if msg.Name == "" {
		return nil, nil, errors.NewValidationError("task name is required").WithCause(errors.ErrInvalidCommand)
	}

	entity, found, err := s.store.Update(tenant, TypeTask, msg.ID, func(state json.RawMessage) (json.RawMessage, error) {
		var task Task
		if err := json.Unmarshal(state, &task); err != nil {
			return nil, err
		}
		task.Name = msg.Name
		return json.Marshal(task)
	})
	if err != nil {
		return nil, nil, errors.NewInternalError("failed to rename task").WithCause(err)
	}
	if !found {
		ack := model.NewRejectionAck(cmd.ID, RejectionTaskNotFound, fmt.Sprintf("task %s does not exist", msg.ID))
		return nil, &ack, nil
	}
	return &EntityStateChanged{Tenant: tenant, Event: EventTaskRenamed, Entity: entity}, nil, nil
}

func (s *CommandService) createProject(tenant model.TenantID, cmd model.Command) (*EntityStateChanged, *model.Ack, error) {
	var msg CreateProject
	if err := decodeMessage(cmd, &msg); err != nil {
		return nil, nil, err
	}
	if msg.ID == "" {
		return nil, nil, missingID(cmd)
	}
	return s.create(tenant, cmd, EventProjectCreated, TypeProject, msg.ID, Project{ID: msg.ID})
}

func (s *CommandService) create(tenant model.TenantID, cmd model.Command, event, entityType, id string, state interface{}) (*EntityStateChanged, *model.Ack, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, nil, errors.NewInternalError("failed to encode entity state").WithCause(err)
	}
	entity := model.EntityState{ID: id, Type: entityType, State: data}
	if !s.store.Create(tenant, entity) {
		ack := model.NewErrorAck(cmd.ID, ErrorTypeDuplicateEntity, errorCodeDuplicateEntity,
			fmt.Sprintf("%s %s already exists", entityType, id))
		return nil, &ack, nil
	}
	return &EntityStateChanged{Tenant: tenant, Event: event, Entity: entity}, nil, nil
}

func decodeMessage(cmd model.Command, v interface{}) error {
	if err := json.Unmarshal(cmd.Message.Value, v); err != nil {
		return errors.NewValidationError(fmt.Sprintf("malformed %s message", cmd.Message.Type)).
			WithCause(errors.ErrInvalidCommand)
	}
	return nil
}

func missingID(cmd model.Command) error {
	return errors.NewValidationError(fmt.Sprintf("%s requires an id", cmd.Message.Type)).
		WithCause(errors.ErrInvalidCommand)
}
