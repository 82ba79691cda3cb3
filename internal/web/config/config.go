package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Supported values of DATABASE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFirebase = "firebase"
	BackendMongoDB  = "mongodb"
	BackendRedis    = "redis"
)

// FirebaseConfig points at a Firebase Realtime Database.
type FirebaseConfig struct {
	DatabaseURL     string `env:"FIREBASE_DATABASE_URL" json:"database_url"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE" json:"credentials_file"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID" json:"project_id"`
}

// MongoDBConfig selects the collection the mirrored tree is stored in.
type MongoDBConfig struct {
	URI        string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017" json:"uri"`
	Database   string `env:"MONGODB_DATABASE" envDefault:"firebase_web" json:"database"`
	Collection string `env:"MONGODB_COLLECTION" envDefault:"records" json:"collection"`
}

// RealtimeConfig holds configuration of the record stream websocket.
type RealtimeConfig struct {
	// WebSocketPath is the endpoint path for record stream connections.
	WebSocketPath string `env:"WEBSOCKET_PATH" envDefault:"/subscription/stream" json:"websocket_path"`

	// ClientSendChannelBuffer is the buffer of record batches per websocket client.
	// Batches are dropped for a client whose buffer is full.
	ClientSendChannelBuffer int `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"10" json:"client_send_channel_buffer"`
}

// SubscriptionConfig controls subscription expiry.
type SubscriptionConfig struct {
	TTL           time.Duration `env:"SUBSCRIPTION_TTL" envDefault:"10m" json:"ttl"`
	SweepInterval time.Duration `env:"SUBSCRIPTION_SWEEP_INTERVAL" envDefault:"1m" json:"sweep_interval"`
}

// TokenConfig configures tenant tokens. An empty secret disables bearer tokens.
type TokenConfig struct {
	SecretKey string        `env:"JWT_SECRET_KEY" json:"-"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"firebase-web" json:"issuer"`
	TTL       time.Duration `env:"JWT_TOKEN_TTL" envDefault:"1h" json:"ttl"`
}

// Config holds all configuration for the web module.
type Config struct {
	Backend      string             `env:"DATABASE_BACKEND" envDefault:"memory" json:"backend"`
	Firebase     FirebaseConfig     `json:"firebase"`
	MongoDB      MongoDBConfig      `json:"mongodb"`
	Redis        RedisConfig        `json:"redis"`
	Realtime     RealtimeConfig     `json:"realtime"`
	Subscription SubscriptionConfig `json:"subscription"`
	Token        TokenConfig        `json:"token"`
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load web configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the selected backend and the values it depends on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendMongoDB, BackendRedis:
	case BackendFirebase:
		if c.Firebase.DatabaseURL == "" {
			return errors.New("FIREBASE_DATABASE_URL is required for the firebase backend")
		}
	default:
		return fmt.Errorf("unknown DATABASE_BACKEND %q", c.Backend)
	}
	if c.Subscription.TTL <= 0 {
		return errors.New("SUBSCRIPTION_TTL must be positive")
	}
	if c.Subscription.SweepInterval <= 0 {
		return errors.New("SUBSCRIPTION_SWEEP_INTERVAL must be positive")
	}
	if c.Realtime.WebSocketPath == "" {
		c.Realtime.WebSocketPath = "/subscription/stream"
	}
	if c.Realtime.ClientSendChannelBuffer <= 0 {
		c.Realtime.ClientSendChannelBuffer = 10
	}
	return nil
}

// DefaultConfig returns a Config for local development on the in-memory backend.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendMemory,
		MongoDB: MongoDBConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "firebase_web",
			Collection: "records",
		},
		Redis: DefaultRedisConfig(),
		Realtime: RealtimeConfig{
			WebSocketPath:           "/subscription/stream",
			ClientSendChannelBuffer: 10,
		},
		Subscription: SubscriptionConfig{
			TTL:           10 * time.Minute,
			SweepInterval: time.Minute,
		},
		Token: TokenConfig{
			Issuer: "firebase-web",
			TTL:    time.Hour,
		},
	}
}
