package firebase

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

var _ repository.DatabaseClient = (*Client)(nil)

// Client mirrors the tree to a Firebase Realtime Database.
type Client struct {
	db  *db.Client
	log logger.Logger
}

// Config selects the database and the service account used to reach it.
// An empty ProjectID is taken from the credentials.
type Config struct {
	DatabaseURL     string
	CredentialsFile string
	ProjectID       string
}

// NewClient initializes the Firebase app and its Realtime Database client.
// Without a credentials file the application default credentials are used.
// extra is passed on to the Firebase app after the credentials option.
func NewClient(ctx context.Context, cfg Config, log logger.Logger, extra ...option.ClientOption) (*Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("firebase database url is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, extra...)
	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL, ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase database: %w", err)
	}
	return &Client{db: client, log: log.WithComponent("firebase-database")}, nil
}

func (c *Client) ref(path model.DatabasePath) *db.Ref {
	return c.db.NewRef(path.String())
}

func (c *Client) Set(ctx context.Context, path model.DatabasePath, value string) error {
	if err := c.ref(path).Set(ctx, value); err != nil {
		c.log.WithFields(map[string]interface{}{"path": path.String(), "error": err}).Error("Failed to set value")
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, path model.DatabasePath, value string) (string, error) {
	child, err := c.ref(path).Push(ctx, value)
	if err != nil {
		c.log.WithFields(map[string]interface{}{"path": path.String(), "error": err}).Error("Failed to push value")
		return "", fmt.Errorf("push under %s: %w", path, err)
	}
	return child.Key, nil
}

func (c *Client) Delete(ctx context.Context, path model.DatabasePath) error {
	if err := c.ref(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path model.DatabasePath) (string, bool, error) {
	var value *string
	if err := c.ref(path).Get(ctx, &value); err != nil {
		return "", false, fmt.Errorf("get %s: %w", path, err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (c *Client) Children(ctx context.Context, path model.DatabasePath) (map[string]string, error) {
	children := make(map[string]string)
	if err := c.ref(path).Get(ctx, &children); err != nil {
		return nil, fmt.Errorf("list children of %s: %w", path, err)
	}
	return children, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var keys map[string]interface{}
	return c.db.NewRef("/").GetShallow(ctx, &keys)
}
