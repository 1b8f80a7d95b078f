package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Shift    ShiftConfig
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"shift_attendance"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `env:"JWT_SECRET_KEY"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port          int      `env:"APP_PORT" envDefault:"8080"`
	Env           string   `env:"APP_ENV" envDefault:"development"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURLs  []string `env:"APP_FRONTEND_URL" envDefault:"http://localhost:3000" envSeparator:","`
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// MemoryEmployees seeds the memory driver's directory, "id=Full Name" pairs
	MemoryEmployees []string `env:"MEMORY_EMPLOYEES" envSeparator:","`
}

// ShiftConfig holds the business calendar and the stale-day job settings
type ShiftConfig struct {
	Timezone          string        `env:"BUSINESS_TIMEZONE" envDefault:"Asia/Jakarta"`
	ExpectedStart     string        `env:"SHIFT_EXPECTED_START" envDefault:"18:00"`
	GraceMinutes      int           `env:"SHIFT_GRACE_MINUTES" envDefault:"20"`
	AutoClose         bool          `env:"SHIFT_AUTO_CLOSE" envDefault:"true"`
	AutoCloseInterval time.Duration `env:"SHIFT_AUTO_CLOSE_INTERVAL" envDefault:"1h"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.StorageDriver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.App.StorageDriver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Shift.AutoClose && c.Shift.AutoCloseInterval <= 0 {
		return fmt.Errorf("SHIFT_AUTO_CLOSE_INTERVAL must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Policy builds the business calendar from the shift settings.
func (c *Config) Policy() (workday.Policy, error) {
	return workday.NewPolicy(c.Shift.Timezone, c.Shift.ExpectedStart, c.Shift.GraceMinutes)
}

// SlogLevel parses LOG_LEVEL.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.App.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.App.LogLevel, err)
	}
	return level, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
