package utils

import (
	"context"
	"errors"

	"firebase-web/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrTenantIDNotFound   = errors.New("tenantID not found in context")
	ErrTenantIDNotString  = errors.New("tenantID in context is not a string")
	ErrActorNotFound      = errors.New("actor not found in context")
	ErrActorNotString     = errors.New("actor in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetTenantIDFromContext retrieves the canonical tenant string from the context.
func GetTenantIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.TenantIDKey, ErrTenantIDNotFound, ErrTenantIDNotString)
}

// GetActorFromContext retrieves the acting user from the context.
func GetActorFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.ActorKey, ErrActorNotFound, ErrActorNotString)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

func stringValue(ctx context.Context, key interface{}, notFound, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", notFound
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// Context builder functions

// WithTenantID adds the canonical tenant string to context
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextkeys.TenantIDKey, tenantID)
}

// WithActor adds the acting user to context
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}
