package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset. It is
// refused in production.
const DevJWTSecret = "gildr-development-secret-do-not-deploy"

// MaxMemcacheTTL is the longest expiry memcache reads as relative. Longer
// values are taken as absolute unix times.
const MaxMemcacheTTL = 30 * 24 * time.Hour

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Features  FeatureConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	Env            string        `env:"SERVER_ENV" envDefault:"development"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	StaticDir      string        `env:"STATIC_DIR"`
}

// DataConfig holds record storage settings
type DataConfig struct {
	Dir string `env:"DATA_DIR" envDefault:"./data"`
}

// CacheConfig holds cache tier settings
type CacheConfig struct {
	Dir           string        `env:"CACHE_DIR"`
	HeapEntries   int           `env:"CACHE_HEAP_ENTRIES" envDefault:"1000"`
	DiskEntries   int           `env:"CACHE_DISK_ENTRIES" envDefault:"10000"`
	TTL           time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	Persist       bool          `env:"CACHE_PERSIST" envDefault:"true"`
	FlushInterval time.Duration `env:"CACHE_FLUSH_INTERVAL" envDefault:"5m"` // 0 flushes only at shutdown
	Remote        string        `env:"CACHE_REMOTE"`
	MemcachedAddr string        `env:"MEMCACHED_ADDR" envDefault:"localhost:11211"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

// JWTConfig holds bearer token settings
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET" envDefault:"gildr-development-secret-do-not-deploy"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"gildr"`
	ExpirationMins int    `env:"JWT_EXPIRATION_MINS" envDefault:"0"`
}

// AuthConfig holds password and login settings
type AuthConfig struct {
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"12"`
	LoginRate   int           `env:"LOGIN_RATE" envDefault:"10"`
	LoginWindow time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
}

// FeatureConfig toggles optional route groups
type FeatureConfig struct {
	InvitesEnabled bool `env:"INVITES_ENABLED" envDefault:"false"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_ENDPOINT" envDefault:"http://localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"gildr"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// CacheDir returns the disk tier snapshot directory
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(c.Data.Dir, "cache")
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if c.Data.Dir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}

	if c.Cache.HeapEntries <= 0 {
		errs = append(errs, errors.New("CACHE_HEAP_ENTRIES must be positive"))
	}
	if c.Cache.Persist && c.Cache.DiskEntries <= 0 {
		errs = append(errs, errors.New("CACHE_DISK_ENTRIES must be positive when CACHE_PERSIST is set"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	if c.Cache.FlushInterval < 0 {
		errs = append(errs, errors.New("CACHE_FLUSH_INTERVAL must not be negative"))
	}
	switch c.Cache.Remote {
	case "", "memcache", "redis":
	default:
		errs = append(errs, fmt.Errorf("CACHE_REMOTE must be empty, 'memcache', or 'redis', got '%s'", c.Cache.Remote))
	}
	if c.Cache.Remote == "memcache" && c.Cache.MemcachedAddr == "" {
		errs = append(errs, errors.New("MEMCACHED_ADDR is required when CACHE_REMOTE is memcache"))
	}
	if c.Cache.Remote == "memcache" && c.Cache.TTL > MaxMemcacheTTL {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be at most %v when CACHE_REMOTE is memcache", MaxMemcacheTTL))
	}
	if c.Cache.Remote == "redis" && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when CACHE_REMOTE is redis"))
	}

	if len(c.JWT.Secret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if c.IsProduction() && c.JWT.Secret == DevJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.JWT.Issuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if c.JWT.ExpirationMins < 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must not be negative"))
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.LoginRate <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE must be positive"))
	}
	if c.Auth.LoginWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_WINDOW must be positive"))
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("OTEL_ENDPOINT is required when OTEL_ENABLED is true"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
