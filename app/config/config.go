package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Storage drivers
const (
	DriverBadger  = "badger"
	DriverMongoDB = "mongodb"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Env            string        `mapstructure:"APP_ENV"`
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	Database DBConfig       `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
	Users    UsersConfig    `mapstructure:",squash"`
}

type DBConfig struct {
	Driver         string `mapstructure:"DB_DRIVER"`
	BadgerPath     string `mapstructure:"BADGER_PATH"`
	BadgerInMemory bool   `mapstructure:"BADGER_IN_MEMORY"`
	BackupDir      string `mapstructure:"BACKUP_DIR"`
	MongoURI       string `mapstructure:"MONGO_URI"`
	MongoDatabase  string `mapstructure:"MONGO_DATABASE"`
	LikeRetries    int    `mapstructure:"LIKE_RETRY_BUDGET"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"CACHE_BACKEND"`
	TTL       time.Duration `mapstructure:"CACHE_TTL"`
	RedisAddr string        `mapstructure:"REDIS_ADDR"`
}

type SecurityConfig struct {
	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	RateLimitRPM       int      `mapstructure:"RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type UsersConfig struct {
	DefaultAvatar string `mapstructure:"DEFAULT_AVATAR_URL"`
	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

func loadDotEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // variables already set take precedence
		}
	}
}

// Load reads configuration from .env files and the environment.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDatabase reads only what the storage maintenance commands need, so
// they run without the HTTP secrets being set.
func LoadDatabase() (*DBConfig, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Database.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg.Database, nil
}

func read() (*Config, error) {
	loadDotEnvFiles()

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("DB_DRIVER", DriverBadger)
	v.SetDefault("BADGER_PATH", "data/badger")
	v.SetDefault("BADGER_IN_MEMORY", false)
	v.SetDefault("BACKUP_DIR", "data/backups")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "inkwell")
	v.SetDefault("LIKE_RETRY_BUDGET", 10)
	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT_RPM", 600)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("DEFAULT_AVATAR_URL", "")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")

	// Handle array parsing for comma-separated values
	if origins := v.GetString("CORS_ALLOWED_ORIGINS"); origins != "" {
		v.Set("CORS_ALLOWED_ORIGINS", splitList(origins))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *DBConfig) validate() error {
	switch c.Driver {
	case DriverBadger:
		if c.BadgerPath == "" && !c.BadgerInMemory {
			return fmt.Errorf("BADGER_PATH is required")
		}
	case DriverMongoDB:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Driver)
	}
	if c.LikeRetries < 1 {
		return fmt.Errorf("LIKE_RETRY_BUDGET must be positive")
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
