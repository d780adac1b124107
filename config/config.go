package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Admin credential providers
const (
	AuthProviderMemory = "memory"
	AuthProviderTable  = "table"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string `envconfig:"LANDING_DATABASE_URL"`
	Port        string `envconfig:"PORT" default:"5000"`
	GoEnv       string `envconfig:"GO_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Map provider. The default client id is a placeholder and must be replaced in a real
	// deployment.
	NaverClientID      string `envconfig:"NAVER_CLIENT_ID" default:"454vo4765n"`
	NaverClientSecret  string `envconfig:"NAVER_CLIENT_SECRET"`
	NaverAPIBaseURL    string `envconfig:"NAVER_API_BASE_URL" default:"https://naveropenapi.apigw.ntruss.com"`
	NaverMapsScriptURL string `envconfig:"NAVER_MAPS_SCRIPT_URL" default:"https://oapi.map.naver.com/openapi/v3/maps.js"`

	AdminUsername     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD" default:"1234"`
	AdminAuthProvider string `envconfig:"ADMIN_AUTH_PROVIDER" default:"memory"`

	Timezone           string   `envconfig:"APP_TIMEZONE" default:"Local"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	ProxyRateLimitRPS   float64 `envconfig:"PROXY_RATE_LIMIT_RPS" default:"5"`
	ProxyRateLimitBurst int     `envconfig:"PROXY_RATE_LIMIT_BURST" default:"10"`

	AutoMigrate      bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	SeedServiceTypes bool   `envconfig:"SEED_SERVICE_TYPES" default:"false"`
	StaticDir        string `envconfig:"STATIC_DIR"`
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			slog.Info("no .env file found, using system environment variables")
		}
	} else {
		slog.Info("loaded configuration", "file", envFile)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	switch c.AdminAuthProvider {
	case AuthProviderMemory:
	case AuthProviderTable:
		if c.DatabaseURL == "" {
			return fmt.Errorf("ADMIN_AUTH_PROVIDER=%s requires LANDING_DATABASE_URL", AuthProviderTable)
		}
	default:
		return fmt.Errorf("unknown ADMIN_AUTH_PROVIDER %q", c.AdminAuthProvider)
	}

	if c.ProxyRateLimitRPS <= 0 || c.ProxyRateLimitBurst <= 0 {
		return fmt.Errorf("proxy rate limit must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// HasDatabase reports whether a durable store is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// Location returns the time zone that defines a calendar day
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}
