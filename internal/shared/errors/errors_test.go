package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithCode("VAL001").WithDetail("field", "name").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	cause := ErrSubscriptionNotFound
	err := NewNotFoundError("subscription").WithCause(cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestValidationErrors(t *testing.T) {
	ve := NewValidationErrors(ErrInvalidCommand)
	assert.NoError(t, ve.Err())
	assert.Nil(t, ve.ToAppError())

	ve.Add("message.type", "must be set", "").Add("message.value", "must be set", nil)
	assert.True(t, ve.HasErrors())
	assert.ErrorIs(t, ve.Err(), ErrInvalidCommand)
	assert.Equal(t, "invalid command: must be set; must be set", ve.Error())

	appErr := ve.ToAppError()
	assert.Equal(t, ErrorTypeValidation, appErr.Type)
	assert.Equal(t, ve.Errors, appErr.Details["validation_errors"])
	assert.ErrorIs(t, appErr, ErrInvalidCommand)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(appErr))
}

func TestWrapError(t *testing.T) {
	conflict := NewConflictError("duplicate")
	assert.Same(t, conflict, WrapError(fmt.Errorf("post: %w", conflict), "failed"))

	ve := NewValidationErrors(ErrInvalidQuery).Add("target.type", "required", nil)
	wrapped := WrapError(ve, "failed")
	assert.Equal(t, ErrorTypeValidation, wrapped.Type)
	assert.Contains(t, wrapped.Details, "validation_errors")

	assert.Equal(t, ErrorTypeValidation, WrapError(fmt.Errorf("x: %w", ErrInvalidTopic), "failed").Type)

	internal := WrapError(fmt.Errorf("boom"), "failed to post command")
	assert.Equal(t, ErrorTypeInternal, internal.Type)
	assert.Equal(t, "failed to post command", internal.Message)
}

func TestJoin(t *testing.T) {
	err := Join(ErrSubscriptionNotFound, nil, ErrInvalidPath)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.NoError(t, Join(nil, nil))
}

func TestIsChecks(t *testing.T) {
	nf := NewNotFoundError("subscription")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidation(nf))
	assert.False(t, IsAuthentication(nf))
	assert.False(t, IsAuthorization(nf))

	assert.True(t, IsValidation(NewValidationError("bad")))
	assert.True(t, IsAuthentication(NewAuthenticationError("bad")))
	assert.True(t, IsAuthorization(NewAuthorizationError("bad")))
	assert.True(t, IsConflict(NewConflictError("dup")))

	wrapped := fmt.Errorf("parse command: %w", ErrInvalidCommand)
	assert.True(t, IsValidation(wrapped))
	assert.True(t, IsNotFound(fmt.Errorf("keep up: %w", ErrSubscriptionNotFound)))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation app error", NewValidationError("bad"), http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("x: %w", ErrInvalidQuery), http.StatusBadRequest},
		{"not found", ErrSubscriptionNotFound, http.StatusNotFound},
		{"token", ErrInvalidToken, http.StatusUnauthorized},
		{"conflict", ErrConflict, http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"infrastructure", NewInfrastructureError("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
