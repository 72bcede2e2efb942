package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by SESSION_STORE.
const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the front-end server configuration.
type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// BackendConfig locates the clinic REST API. Every gateway path is appended
// to URL.
type BackendConfig struct {
	URL string `env:"BACKEND_URL, default=http://localhost:8080/api"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE,         default=redis"`
	CookieName   string        `env:"SESSION_COOKIE,        default=vet_sid"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	// TTL bounds a stored session whose token carries no readable expiry.
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
	// Secret enables at-rest sealing of stored tokens when non-empty.
	Secret string `env:"SESSION_SECRET"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vet_admin"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Pretty reports whether logs should use the console writer.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("config: BACKEND_URL is required")
	}
	return nil
}

// CLIConfig configures vetctl.
type CLIConfig struct {
	// Home overrides the directory holding the credentials file.
	Home     string `env:"VETCTL_HOME"`
	LogLevel string `env:"LOG_LEVEL, default=warn"`
	Secret   string `env:"SESSION_SECRET"`

	Backend BackendConfig
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// LoadCLI is Load for vetctl. Errors are returned so cobra can print them.
func LoadCLI(ctx context.Context) (*CLIConfig, error) {
	_ = godotenv.Load()

	var cfg CLIConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom resolves cfg from an explicit lookuper instead of the process
// environment.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
