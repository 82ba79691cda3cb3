package model

import (
	"bytes"
	"encoding/json"
	"time"

	"firebase-web/internal/shared/errors"

	"github.com/google/uuid"
)

// ActorContext describes who sends a message and on behalf of which tenant.
type ActorContext struct {
	TenantID  TenantID   `json:"tenantId"`
	Actor     string     `json:"actor,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AnyMessage is a typed message payload.
type AnyMessage struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Command is a request to change the state of the application.
type Command struct {
	ID      string       `json:"id,omitempty"`
	Message AnyMessage   `json:"message"`
	Context ActorContext `json:"context"`
}

// Validate checks the command shape. Message semantics are validated by the framework.
// Every problem found is reported as a field of the returned errors.ValidationErrors.
func (c *Command) Validate() error {
	ve := errors.NewValidationErrors(errors.ErrInvalidCommand)
	if c.Message.Type == "" {
		ve.Add("message.type", "message type is required", nil)
	}
	if len(bytes.TrimSpace(c.Message.Value)) == 0 {
		ve.Add("message.value", "message value is required", nil)
	}
	validateTenant(ve, c.Context.TenantID)
	return ve.Err()
}

func validateTenant(ve *errors.ValidationErrors, tenant TenantID) {
	if err := tenant.Validate(); err != nil {
		ve.Add("context.tenantId", err.Error(), tenant.String())
	}
}

// Target selects entities of a type by ids and an optional CEL filter over `state`.
type Target struct {
	Type       string   `json:"type"`
	IncludeAll bool     `json:"includeAll,omitempty"`
	IDs        []string `json:"ids,omitempty"`
	Filter     string   `json:"filter,omitempty"`
}

// validate reports a missing type and a target that selects nothing.
func (t Target) validate(ve *errors.ValidationErrors) {
	if t.Type == "" {
		ve.Add("target.type", "target type is required", nil)
	}
	if !t.IncludeAll && len(t.IDs) == 0 && t.Filter == "" {
		ve.Add("target", "target must include all, list ids or set a filter", nil)
	}
}

// Query is a read request.
type Query struct {
	ID      string       `json:"id,omitempty"`
	Target  Target       `json:"target"`
	Context ActorContext `json:"context"`
}

// Validate checks the query shape.
func (q *Query) Validate() error {
	ve := errors.NewValidationErrors(errors.ErrInvalidQuery)
	q.Target.validate(ve)
	validateTenant(ve, q.Context.TenantID)
	return ve.Err()
}

// Topic describes what a subscription listens to.
type Topic struct {
	ID      string       `json:"id,omitempty"`
	Target  Target       `json:"target"`
	Context ActorContext `json:"context"`
}

// Validate checks the topic shape.
func (t *Topic) Validate() error {
	ve := errors.NewValidationErrors(errors.ErrInvalidTopic)
	t.Target.validate(ve)
	validateTenant(ve, t.Context.TenantID)
	return ve.Err()
}

// SubscriptionID wraps the database path a subscription is mirrored to.
type SubscriptionID struct {
	Value string `json:"value"`
}

// Subscription is an activated topic.
type Subscription struct {
	ID    SubscriptionID `json:"id"`
	Topic Topic          `json:"topic"`
}

// EntityState is the current state of one entity as returned by the framework.
type EntityState struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	State json.RawMessage `json:"state"`
}

// EntityChange is one entry of a subscription update. Removed entries carry no state.
type EntityChange struct {
	ID      string          `json:"id"`
	State   json.RawMessage `json:"state,omitempty"`
	Removed bool            `json:"removed,omitempty"`
}

// SubscriptionUpdate is delivered by the framework for an activated subscription.
type SubscriptionUpdate struct {
	SubscriptionID SubscriptionID `json:"subscriptionId"`
	Changes        []EntityChange `json:"changes"`
}

// NewMessageID returns a fresh message identifier.
func NewMessageID() string {
	return uuid.NewString()
}

// EnsureID assigns a generated identifier when id is empty.
func EnsureID(id *string) {
	if *id == "" {
		*id = NewMessageID()
	}
}
