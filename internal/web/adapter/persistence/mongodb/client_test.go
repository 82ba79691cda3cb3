package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conn, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://localhost:27017").
		SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skip("MongoDB not available for testing:", err)
	}
	if err := conn.Ping(ctx, nil); err != nil {
		t.Skip("MongoDB not available for testing:", err)
	}

	db := conn.Database(fmt.Sprintf("test_firebase_web_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = conn.Disconnect(context.Background())
	})

	client := NewClient(db.Collection("nodes"), logger.NewLogger())
	require.NoError(t, client.EnsureIndexes(context.Background()))
	return client
}

func TestClient_PushChildrenDelete(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()
	root, err := model.ParseDatabasePath("domain:acme%2Ecom/alice/q1")
	require.NoError(t, err)

	k1, err := client.Push(ctx, root, `{"id":"1"}`)
	require.NoError(t, err)
	_, err = client.Push(ctx, root, `{"id":"2"}`)
	require.NoError(t, err)

	children, err := client.Children(ctx, root)
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.Equal(t, `{"id":"1"}`, children[k1])

	require.NoError(t, client.Set(ctx, root.Child(k1), `{"id":"1","name":"x"}`))
	value, ok, err := client.Get(ctx, root.Child(k1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1","name":"x"}`, value)

	require.NoError(t, client.Delete(ctx, root))
	children, err = client.Children(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestClient_Ping(t *testing.T) {
	client := setupClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}
