package redis

import (
	"context"
	"testing"
	"time"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:         "localhost:6379",
		DB:           15,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available for testing:", err)
	}
	prefix := "fbw-test-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() {
		cleanup := context.Background()
		iter := rdb.Scan(cleanup, 0, escapeGlob(prefix)+"*", 100).Iterator()
		for iter.Next(cleanup) {
			rdb.Del(cleanup, iter.Val())
		}
		rdb.Close()
	})
	return NewClient(rdb, prefix, logger.NewLogger())
}

func TestClient_PushSetDelete(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()
	root, err := model.ParseDatabasePath("email:ops@acme%2Ecom/alice/t1")
	require.NoError(t, err)

	key, err := client.Push(ctx, root, `{"id":"1"}`)
	require.NoError(t, err)

	children, err := client.Children(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{key: `{"id":"1"}`}, children)

	require.NoError(t, client.Set(ctx, root.Child(key), `{"id":"1","v":2}`))
	value, ok, err := client.Get(ctx, root.Child(key))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1","v":2}`, value)

	require.NoError(t, client.Delete(ctx, root))
	children, err = client.Children(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, children)

	msgs, err := client.rdb.XRange(ctx, client.streamKey(), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	var ops []interface{}
	for _, msg := range msgs {
		ops = append(ops, msg.Values["op"])
	}
	assert.Equal(t, []interface{}{opPush, opSet, opDelete}, ops)
	assert.Equal(t, root.Child(key).String(), msgs[0].Values["path"])
	assert.Equal(t, `{"id":"1"}`, msgs[0].Values["value"])
	assert.Equal(t, root.String(), msgs[2].Values["path"])
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
}
