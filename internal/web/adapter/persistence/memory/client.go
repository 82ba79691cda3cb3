package memory

import (
	"context"
	"strings"
	"sync"

	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"

	"github.com/google/uuid"
)

var _ repository.DatabaseClient = (*Client)(nil)

// Client keeps the mirrored tree in process memory. Leaves are keyed by their full path.
type Client struct {
	mu     sync.RWMutex
	leaves map[string]string
}

// NewClient creates an empty in-memory database.
func NewClient() *Client {
	return &Client{leaves: make(map[string]string)}
}

func (c *Client) Set(_ context.Context, path model.DatabasePath, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(path.String())
	c.leaves[path.String()] = value
	return nil
}

func (c *Client) Push(ctx context.Context, path model.DatabasePath, value string) (string, error) {
	key, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	if err := c.Set(ctx, path.Child(key.String()), value); err != nil {
		return "", err
	}
	return key.String(), nil
}

func (c *Client) Delete(_ context.Context, path model.DatabasePath) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(path.String())
	return nil
}

func (c *Client) deleteLocked(path string) {
	prefix := path + "/"
	for key := range c.leaves {
		if key == path || strings.HasPrefix(key, prefix) {
			delete(c.leaves, key)
		}
	}
}

func (c *Client) Get(_ context.Context, path model.DatabasePath) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.leaves[path.String()]
	return value, ok, nil
}

func (c *Client) Children(_ context.Context, path model.DatabasePath) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	prefix := path.String() + "/"
	children := make(map[string]string)
	for key, value := range c.leaves {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		children[rest] = value
	}
	return children, nil
}

func (c *Client) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored leaves.
func (c *Client) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.leaves)
}
