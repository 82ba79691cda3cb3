package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ repository.DatabaseClient = (*Client)(nil)

const (
	defaultPrefix   = "fbw"
	changeStreamLen = 10000
	scanBatch       = 100
	opSet           = "set"
	opPush          = "push"
	opDelete        = "delete"
)

// Client stores the mirrored tree in Redis. The children of every node live in one
// hash, and every write is appended to the capped stream <prefix>:changes with the
// fields op, path, value and timestamp.
type Client struct {
	rdb    *redis.Client
	prefix string
	log    logger.Logger
}

// NewClient creates a Redis backed database. An empty prefix uses "fbw".
func NewClient(rdb *redis.Client, prefix string, log logger.Logger) *Client {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Client{rdb: rdb, prefix: prefix, log: log.WithComponent("redis-database")}
}

func (c *Client) treeKey(path string) string {
	return c.prefix + ":tree:" + path
}

func (c *Client) streamKey() string {
	return c.prefix + ":changes"
}

func (c *Client) Set(ctx context.Context, path model.DatabasePath, value string) error {
	if err := c.deleteSubtree(ctx, path); err != nil {
		return err
	}
	parent, key := splitLast(path)
	if err := c.rdb.HSet(ctx, c.treeKey(parent), key, value).Err(); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return c.recordChange(ctx, opSet, path.String(), value)
}

func (c *Client) Push(ctx context.Context, path model.DatabasePath, value string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	key := id.String()
	if err := c.rdb.HSet(ctx, c.treeKey(path.String()), key, value).Err(); err != nil {
		return "", fmt.Errorf("push under %s: %w", path, err)
	}
	if err := c.recordChange(ctx, opPush, path.Child(key).String(), value); err != nil {
		return "", err
	}
	return key, nil
}

func (c *Client) Delete(ctx context.Context, path model.DatabasePath) error {
	if err := c.deleteSubtree(ctx, path); err != nil {
		return err
	}
	return c.recordChange(ctx, opDelete, path.String(), "")
}

// deleteSubtree removes the leaf at path and every hash below it.
func (c *Client) deleteSubtree(ctx context.Context, path model.DatabasePath) error {
	parent, key := splitLast(path)
	if err := c.rdb.HDel(ctx, c.treeKey(parent), key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	keys := []string{c.treeKey(path.String())}
	pattern := escapeGlob(c.treeKey(path.String())+"/") + "*"
	iter := c.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path model.DatabasePath) (string, bool, error) {
	parent, key := splitLast(path)
	value, err := c.rdb.HGet(ctx, c.treeKey(parent), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", path, err)
	}
	return value, true, nil
}

func (c *Client) Children(ctx context.Context, path model.DatabasePath) (map[string]string, error) {
	children, err := c.rdb.HGetAll(ctx, c.treeKey(path.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", path, err)
	}
	return children, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) recordChange(ctx context.Context, op, path, value string) error {
	_, err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: c.streamKey(),
		MaxLen: changeStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"op":        op,
			"path":      path,
			"value":     value,
			"timestamp": time.Now().UnixNano(),
		},
	}).Result()
	if err != nil {
		c.log.WithFields(map[string]interface{}{"op": op, "path": path, "error": err}).
			Error("Failed to append change to stream")
		return fmt.Errorf("record %s of %s: %w", op, path, err)
	}
	return nil
}

// splitLast returns the parent path and the last key of path.
func splitLast(path model.DatabasePath) (string, string) {
	segments := path.Segments()
	if len(segments) == 0 {
		return "", ""
	}
	return path.Parent().String(), segments[len(segments)-1]
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
