package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string `env:"GO_ENV,default=development"`
	Port        string `env:"PORT,default=8080"`
	Debug       bool   `env:"DEBUG,default=false"`

	// DatabaseURL is required; startup fails without it.
	DatabaseURL string `env:"DATABASE_URL"`

	// SessionSecret signs the session cookie.
	SessionSecret string        `env:"SESSION_SECRET,default=a secret key"`
	SessionExpiry time.Duration `env:"SESSION_EXPIRY,default=24h"`

	// UploadDir is where contact photos are stored, served under /uploads/.
	UploadDir string `env:"UPLOAD_DIR,default=static/uploads"`

	// Seeded admin account, created at bootstrap when absent.
	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@mapbahamas.com"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=adminpass123"`

	Mail MailConfig `env:",prefix=MAIL_"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
}

// MailConfig holds outbound email configuration.
type MailConfig struct {
	Provider           string `env:"PROVIDER,default=noop"`
	FromAddress        string `env:"FROM_ADDRESS,default=info@mapbahamas.com"`
	FromName           string `env:"FROM_NAME,default=MAP Bahamas"`
	SESRegion          string `env:"SES_REGION,default=us-east-1"`
	SESAccessKeyID     string `env:"SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `env:"SES_SECRET_ACCESS_KEY"`
	InsecureSkipVerify bool   `env:"SES_INSECURE_SKIP_VERIFY,default=false"`
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file first when not in production.
func Load(ctx context.Context) (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production we rely on system environment variables only.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &cfg, nil
}

// IsProduction returns true if running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
