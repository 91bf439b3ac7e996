package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. There is no default: a missing secret
	// is a fatal startup error, never a client-facing one.
	JWTSecret     string `env:"JWT_SECRET"`
	JWTExpiration string `env:"JWT_EXPIRATION, default=1h"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate checks the startup-fatal invariants.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if _, err := time.ParseDuration(c.JWTExpiration); err != nil {
		return fmt.Errorf("JWT_EXPIRATION is not a valid duration: %w", err)
	}
	return nil
}

// TokenTTL returns the configured session token lifetime. Validate must have
// passed first; an unparseable value falls back to one hour.
func (c *Config) TokenTTL() time.Duration {
	ttl, err := time.ParseDuration(c.JWTExpiration)
	if err != nil {
		return time.Hour
	}
	return ttl
}
