package repository

import (
	"context"

	"firebase-web/internal/web/domain/model"
)

// DatabaseClient is the tree shaped store query results and subscription
// records are mirrored to. Values are JSON strings.
type DatabaseClient interface {
	// Set replaces the value at path.
	Set(ctx context.Context, path model.DatabasePath, value string) error
	// Push stores value under a new time ordered child of path and returns the child key.
	Push(ctx context.Context, path model.DatabasePath, value string) (string, error)
	// Delete removes path and everything under it.
	Delete(ctx context.Context, path model.DatabasePath) error
	// Get reads the value at path. The bool is false when nothing is stored there.
	Get(ctx context.Context, path model.DatabasePath) (string, bool, error)
	// Children reads the direct children of path keyed by their escaped key.
	Children(ctx context.Context, path model.DatabasePath) (map[string]string, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
