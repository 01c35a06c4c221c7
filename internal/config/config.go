package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envProduction    = "production"
	defaultJWTSecret = "dev-secret"
)

// ErrDefaultSecretInProduction is returned when production runs with the development secret.
var ErrDefaultSecretInProduction = errors.New("AUTH_JWT_SECRET must be set in production")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// HTTPConfig controls the request pipeline.
type HTTPConfig struct {
	Prefix                string
	RequestTimeoutSeconds int
	EchoDatabaseErrors    bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	PoolSize        int
	DialTimeoutSec  int
	ReadTimeoutSec  int
	WriteTimeoutSec int
}

// CacheConfig tunes the task cache.
type CacheConfig struct {
	TaskTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret     string
	JWTTTLSeconds int
	BcryptCost    int
}

// Load reads configuration from environment variables, applying defaults where possible.
// ENV_FILE names an alternative dotenv file; a missing .env is not an error.
func Load() (*Config, error) {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := strings.ToLower(getEnv("APP_ENV", "development"))

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "task-service"),
			Env:     env,
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "3000"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		HTTP: HTTPConfig{
			Prefix:                getEnv("API_PREFIX", "/api"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			EchoDatabaseErrors:    getEnvAsBool("HTTP_ECHO_DATABASE_ERRORS", false),
		},
		Postgres: PostgresConfig{
			DSN:            getEnv("POSTGRES_DSN", os.Getenv("DATABASE_URL")),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeoutSec:  getEnvAsInt("REDIS_DIAL_TIMEOUT_SECONDS", 5),
			ReadTimeoutSec:  getEnvAsInt("REDIS_READ_TIMEOUT_SECONDS", 3),
			WriteTimeoutSec: getEnvAsInt("REDIS_WRITE_TIMEOUT_SECONDS", 3),
		},
		Cache: CacheConfig{
			TaskTTLSeconds: getEnvAsInt("CACHE_TASK_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: env != envProduction,
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("AUTH_JWT_SECRET", getEnv("JWT_SECRET", defaultJWTSecret)),
			JWTTTLSeconds: getEnvAsInt("AUTH_JWT_TTL_SECONDS", getEnvAsInt("JWT_EXPIRATION", 3600)),
			BcryptCost:    getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that are unsafe for the configured environment.
func (c *Config) Validate() error {
	if c.App.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return ErrDefaultSecretInProduction
	}
	if c.Auth.JWTTTLSeconds <= 0 {
		return fmt.Errorf("invalid AUTH_JWT_TTL_SECONDS: %d", c.Auth.JWTTTLSeconds)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Env == envProduction
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

// EchoDatabase reports whether database error detail may reach clients.
// Production always answers with a generic message.
func (c *Config) EchoDatabase() bool {
	return c.HTTP.EchoDatabaseErrors && !c.App.IsProduction()
}

// TokenTTL returns the access token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.JWTTTLSeconds) * time.Second
}

// DialTimeout returns the connect timeout; zero keeps the client default.
func (r RedisConfig) DialTimeout() time.Duration {
	return seconds(r.DialTimeoutSec)
}

// ReadTimeout returns the socket read timeout; zero keeps the client default.
func (r RedisConfig) ReadTimeout() time.Duration {
	return seconds(r.ReadTimeoutSec)
}

// WriteTimeout returns the socket write timeout; zero keeps the client default.
func (r RedisConfig) WriteTimeout() time.Duration {
	return seconds(r.WriteTimeoutSec)
}

// TaskTTL returns the task cache entry lifetime.
func (c CacheConfig) TaskTTL() time.Duration {
	if c.TaskTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TaskTTLSeconds) * time.Second
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
