package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// MLB Stats API
	MLBAPIBaseURL string        `envconfig:"MLB_API_BASE_URL" default:"https://statsapi.mlb.com/api/v1"`
	MLBAPITimeout time.Duration `envconfig:"MLB_API_TIMEOUT" default:"30s"`

	// Followed team. The schedule endpoint is per-team; the abbreviation
	// identifies home games so promotions are only attached to them.
	TeamID           int    `envconfig:"TEAM_ID" default:"119"`
	TeamAbbreviation string `envconfig:"TEAM_ABBREVIATION" default:"LAD"`
	TeamFullName     string `envconfig:"TEAM_FULL_NAME" default:"Los Angeles Dodgers"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"mlb_schedule"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"mlb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Display API
	APIPort int `envconfig:"API_PORT" default:"8080"`

	// Scheduler
	EnableScheduler       bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSeedEnabled    bool   `envconfig:"INITIAL_SEED_ENABLED" default:"false"`
	ScheduleRefreshCron   string `envconfig:"SCHEDULE_REFRESH_CRON" default:"30 3 * * *"`
	StandingsRefreshCron  string `envconfig:"STANDINGS_REFRESH_CRON" default:"30 3 * * 1"`
	PromotionsRefreshCron string `envconfig:"PROMOTIONS_REFRESH_CRON" default:"35 3 * * 1"`

	// Caching TTL (in seconds)
	CacheTTLSchedule int `envconfig:"CACHE_TTL_SCHEDULE" default:"3600"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	if c.TeamID <= 0 {
		return fmt.Errorf("TEAM_ID must be a positive MLB team id")
	}
	if c.TeamAbbreviation == "" {
		return fmt.Errorf("TEAM_ABBREVIATION is required")
	}
	if c.TeamFullName == "" {
		return fmt.Errorf("TEAM_FULL_NAME is required")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
