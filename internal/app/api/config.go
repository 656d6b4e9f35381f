package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.temporal.io/sdk/client"
)

const (
	MailProviderMemory   = "memory"
	MailProviderSendGrid = "sendgrid"
	MailProviderResend   = "resend"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	DBURI         string `env:"DB_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"spottythings"`
	Secret        string `env:"SUPER_SECRET"`
	Port          string `env:"PORT" env-default:"8080"`
	Start         string `env:"START"`
	TokenTTL      int    `env:"TOKEN_TTL_SECONDS" env-default:"23200"`
	RedisURL      string `env:"REDIS_URL"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	Environment   string `env:"ENVIRONMENT" env-default:"local"`

	Mail      MailConfig
	Minio     MinioConfig
	RateLimit RateLimitConfig
	Temporal  TemporalConfig

	SessionPurgeIntervalMinutes int `env:"SESSION_PURGE_INTERVAL_MINUTES" env-default:"0"`
}

type MailConfig struct {
	Provider       string `env:"MAIL_PROVIDER" env-default:"memory"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SendGridHost   string `env:"SENDGRID_HOST"`
	ResendAPIKey   string `env:"RESEND_API_KEY"`
	From           string `env:"MAIL_FROM" env-default:"noreply@spottythings.local"`
	FromName       string `env:"MAIL_FROM_NAME" env-default:"SpottyThings"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"sent-mail"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}

type TemporalConfig struct {
	Address   string `env:"TEMPORAL_ADDRESS"`
	Namespace string `env:"TEMPORAL_NAMESPACE"`
	Disabled  bool   `env:"TEMPORAL_DISABLED" env-default:"false"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.DBURI = strings.TrimSpace(c.DBURI)
	c.Port = strings.TrimSpace(c.Port)
	c.Mail.Provider = strings.ToLower(strings.TrimSpace(c.Mail.Provider))
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("SUPER_SECRET is required")
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Start = strings.TrimRight(strings.TrimSpace(c.Start), "/"); c.Start == "" {
		c.Start = "http://localhost:" + c.Port
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL_SECONDS must be a positive integer")
	}
	if c.SessionPurgeIntervalMinutes < 0 {
		return errors.New("SESSION_PURGE_INTERVAL_MINUTES must not be negative")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	switch c.Mail.Provider {
	case "", MailProviderMemory:
		c.Mail.Provider = MailProviderMemory
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required when MAIL_PROVIDER=sendgrid")
		}
	case MailProviderResend:
		if c.Mail.ResendAPIKey == "" {
			return errors.New("RESEND_API_KEY is required when MAIL_PROVIDER=resend")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if c.Temporal.Address == "" {
		c.Temporal.Address = client.DefaultHostPort
	}
	if c.Temporal.Namespace == "" {
		c.Temporal.Namespace = client.DefaultNamespace
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

func (c Config) SessionPurgeInterval() time.Duration {
	return time.Duration(c.SessionPurgeIntervalMinutes) * time.Minute
}
