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

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Seed     SeedConfig
	Events   EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name           string
	Env            string
	Host           string
	Port           string
	Version        string
	RequestTimeout time.Duration
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory record store.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
}

// Enabled reports whether the postgres record store was requested.
func (p PostgresConfig) Enabled() bool {
	return p.DSN != ""
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SeedConfig controls loading of the bundled sample organization.
type SeedConfig struct {
	SampleData bool
}

// EventsConfig names the channel directory changes are published on.
type EventsConfig struct {
	Channel string
}

// Load reads configuration from environment variables, applying defaults
// where possible, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "employee-directory"),
			Env:            strings.ToLower(getEnv("APP_ENV", "development")),
			Host:           getEnv("APP_HOST", "0.0.0.0"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "dev"),
			RequestTimeout: getEnvAsSeconds("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MaxConnIdleTime: getEnvAsSeconds("POSTGRES_CONN_MAX_IDLE_SECONDS", 30),
			MaxConnLifetime: getEnvAsSeconds("POSTGRES_CONN_MAX_LIFE_SECONDS", 300),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Seed: SeedConfig{
			SampleData: getEnvAsBool("SEED_SAMPLE_DATA", true),
		},
		Events: EventsConfig{
			Channel: getEnv("EVENTS_REDIS_CHANNEL", "employee-directory.changes"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.App.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid APP_PORT %q", c.App.Port))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("invalid REDIS_DB %d", c.Redis.DB))
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, fmt.Errorf("POSTGRES_MIN_CONNS %d exceeds POSTGRES_MAX_CONNS %d", c.Postgres.MinConns, c.Postgres.MaxConns))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDevelopment reports whether the service runs in the development environment.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
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

// getEnvAsSeconds reads a whole number of seconds. Zero or negative values
// disable the setting.
func getEnvAsSeconds(key string, fallback int) time.Duration {
	secs := getEnvAsInt(key, fallback)
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
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
