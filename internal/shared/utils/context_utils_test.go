package utils

import (
	"context"
	"testing"

	"firebase-web/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithTenantID(ctx, "value:tenant1")
	ctx = WithActor(ctx, "user1")
	ctx = WithRequestID(ctx, "req1")
	ctx = WithOperation(ctx, "opX")

	tenantID, err := GetTenantIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "value:tenant1", tenantID)

	actor, err := GetActorFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "user1", actor)

	reqID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req1", reqID)

	assert.Equal(t, "opX", ctx.Value(contextkeys.OperationKey))
}

func TestGetContextValues_Missing(t *testing.T) {
	ctx := context.Background()

	_, err := GetTenantIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrTenantIDNotFound)
	_, err = GetActorFromContext(ctx)
	assert.ErrorIs(t, err, ErrActorNotFound)
	_, err = GetRequestIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}

func TestGetContextValues_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.TenantIDKey, 42)
	_, err := GetTenantIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrTenantIDNotString)
}
