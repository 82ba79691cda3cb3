package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "firebase-web context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, TenantIDKey, "domain:spine.io")
	ctx = context.WithValue(ctx, ActorKey, "user-1")
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, OperationKey, "operation-read")

	assert.Equal(t, "domain:spine.io", ctx.Value(TenantIDKey))
	assert.Equal(t, "user-1", ctx.Value(ActorKey))
	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "operation-read", ctx.Value(OperationKey))
	assert.Nil(t, ctx.Value(TenantKey))
}
