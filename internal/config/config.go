package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	CORS     CORSConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"payroll"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int    `envconfig:"APP_PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// PayrollConfig tunes the calculation engine.
type PayrollConfig struct {
	HoursPerMonth        int    `envconfig:"PAYROLL_HOURS_PER_MONTH" default:"160"`
	BatchConcurrency     int    `envconfig:"PAYROLL_BATCH_CONCURRENCY" default:"8"`
	CalculationNamespace string `envconfig:"PAYROLL_CALCULATION_NAMESPACE" default:"6f1c3a52-9a0e-4d7b-8a43-2d5e7c1b9f60"`
	// RateAuditInterval of zero disables the exchange rate audit job.
	RateAuditInterval time.Duration `envconfig:"RATE_AUDIT_INTERVAL" default:"24h"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Password == "" {
		problems = append(problems, "DB_PASSWORD is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		problems = append(problems, "DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		problems = append(problems, "APP_PORT must be between 1 and 65535")
	}
	if _, err := parseLevel(c.App.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Payroll.HoursPerMonth <= 0 {
		problems = append(problems, "PAYROLL_HOURS_PER_MONTH must be positive")
	}
	if c.Payroll.BatchConcurrency <= 0 || c.Payroll.BatchConcurrency > 64 {
		problems = append(problems, "PAYROLL_BATCH_CONCURRENCY must be between 1 and 64")
	}
	if _, err := uuid.Parse(c.Payroll.CalculationNamespace); err != nil {
		problems = append(problems, "PAYROLL_CALCULATION_NAMESPACE must be a UUID")
	}
	if c.Payroll.RateAuditInterval < 0 {
		problems = append(problems, "RATE_AUDIT_INTERVAL must not be negative")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
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

// SlogLevel returns LOG_LEVEL as a slog level. Call after Validate.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.App.LogLevel)
	return level
}

// Namespace returns the parsed calculation namespace. Call after Validate.
func (c *Config) Namespace() uuid.UUID {
	return uuid.MustParse(c.Payroll.CalculationNamespace)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not a valid level", s)
	}
	return level, nil
}
