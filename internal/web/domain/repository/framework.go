package repository

import (
	"context"

	"firebase-web/internal/web/domain/model"
)

// CommandService posts commands to the application.
// Validation failures are returned as errors satisfying errors.IsValidation.
type CommandService interface {
	Post(ctx context.Context, cmd model.Command) (model.Ack, error)
}

// QueryService reads the current state of the entities a query targets.
type QueryService interface {
	Read(ctx context.Context, q model.Query) ([]model.EntityState, error)
}

// UpdateHandler receives the updates of an activated subscription.
type UpdateHandler func(ctx context.Context, update model.SubscriptionUpdate) error

// SubscriptionService manages live subscriptions of the application.
type SubscriptionService interface {
	// Activate starts delivering updates for sub to handler. The entities matching
	// the topic at activation time are delivered synchronously as the first update.
	Activate(ctx context.Context, sub model.Subscription, handler UpdateHandler) error
	// Cancel stops the updates of sub.
	Cancel(ctx context.Context, sub model.Subscription) error
}
