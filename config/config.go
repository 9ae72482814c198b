package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server needs at startup. Values are read from
// the environment with the WPS_ prefix (e.g. WPS_DB_HOST).
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	DBUser     string `envconfig:"DB_USER" default:"root"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"wps_office"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"require"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-pro"`

	GoogleClientID     string `envconfig:"GOOGLE_OAUTH_CLIENT_ID" default:""`
	GoogleClientSecret string `envconfig:"GOOGLE_OAUTH_CLIENT_SECRET" default:""`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URI" default:"http://localhost:8080/api/auth/google/callback"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("wps", &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
