package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ repository.DatabaseClient = (*Client)(nil)

// node is one leaf of the mirrored tree. The full path is the document id.
type node struct {
	Path      string    `bson:"_id"`
	Parent    string    `bson:"parent"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Client stores the mirrored tree in a MongoDB collection, one document per leaf.
type Client struct {
	collection *mongo.Collection
	log        logger.Logger
}

// NewClient wraps collection. Use EnsureIndexes once at startup.
func NewClient(collection *mongo.Collection, log logger.Logger) *Client {
	return &Client{collection: collection, log: log.WithComponent("mongodb-database")}
}

// Connect opens a MongoDB connection and returns the client for database.collection.
func Connect(ctx context.Context, uri, database, collection string, log logger.Logger) (*Client, *mongo.Client, error) {
	conn, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	return NewClient(conn.Database(database).Collection(collection), log), conn, nil
}

// EnsureIndexes creates the index used to list children.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "parent", Value: 1}},
		Options: options.Index().SetName("parent_1"),
	})
	return err
}

func (c *Client) Set(ctx context.Context, path model.DatabasePath, value string) error {
	key := path.String()
	if _, err := c.collection.DeleteMany(ctx, descendantsFilter(key)); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	doc := node{Path: key, Parent: path.Parent().String(), Value: value, UpdatedAt: time.Now().UTC()}
	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		c.log.WithFields(map[string]interface{}{"path": key, "error": err}).Error("Failed to set value")
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, path model.DatabasePath, value string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	child := path.Child(id.String())
	doc := node{Path: child.String(), Parent: path.String(), Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := c.collection.InsertOne(ctx, doc); err != nil {
		c.log.WithFields(map[string]interface{}{"path": child.String(), "error": err}).Error("Failed to push value")
		return "", fmt.Errorf("push under %s: %w", path, err)
	}
	return id.String(), nil
}

func (c *Client) Delete(ctx context.Context, path model.DatabasePath) error {
	key := path.String()
	filter := bson.M{"$or": bson.A{bson.M{"_id": key}, descendantsFilter(key)}}
	res, err := c.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	c.log.WithFields(map[string]interface{}{"path": key, "deleted": res.DeletedCount}).Debug("Deleted subtree")
	return nil
}

func (c *Client) Get(ctx context.Context, path model.DatabasePath) (string, bool, error) {
	var doc node
	err := c.collection.FindOne(ctx, bson.M{"_id": path.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", path, err)
	}
	return doc.Value, true, nil
}

func (c *Client) Children(ctx context.Context, path model.DatabasePath) (map[string]string, error) {
	cursor, err := c.collection.Find(ctx, bson.M{"parent": path.String()})
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", path, err)
	}
	defer cursor.Close(ctx)

	prefix := path.String() + "/"
	children := make(map[string]string)
	for cursor.Next(ctx) {
		var doc node
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		children[doc.Path[len(prefix):]] = doc.Value
	}
	return children, cursor.Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func descendantsFilter(path string) bson.M {
	return bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(path+"/")}}
}
