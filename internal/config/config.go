// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionSecret signs session tokens (HS256). Required when the server handles logins.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionIssuer is the iss claim on session tokens (e.g. "school-backend").
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionTokenTTL is the session token lifetime (e.g. "30m").
	SessionTokenTTL string `mapstructure:"SESSION_TOKEN_TTL"`
	// ResetCodeTTL is the password reset code lifetime (e.g. "15m").
	ResetCodeTTL string `mapstructure:"RESET_CODE_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// MailAPIKey is the API key for the transactional mail provider. Reset emails are skipped when empty.
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	// MailAPIBaseURL is the mail provider API base URL.
	MailAPIBaseURL string `mapstructure:"MAIL_API_BASE_URL"`
	// MailSender is the From address on outgoing reset emails.
	MailSender string `mapstructure:"MAIL_SENDER"`
	// ResetCodeReturnToClient when true enables dev reset mode: no email, code stored for
	// GET /dev/reset-code. Must not be true when Env is production.
	ResetCodeReturnToClient bool `mapstructure:"RESET_CODE_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317). Telemetry export
	// is disabled when empty.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_ISSUER", "school-backend")
	v.SetDefault("SESSION_TOKEN_TTL", "30m")
	v.SetDefault("RESET_CODE_TTL", "15m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_API_BASE_URL", "")
	v.SetDefault("MAIL_SENDER", "")
	v.SetDefault("RESET_CODE_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTLP_ENDPOINT", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.ResetCodeReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: RESET_CODE_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// SessionTTL parses SessionTokenTTL as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTokenTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// ResetTTL parses ResetCodeTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) ResetTTL() time.Duration {
	d, err := time.ParseDuration(c.ResetCodeTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}
