package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port            string        `koanf:"port" validate:"required"`
	AppEnv          string        `koanf:"app_env" validate:"required"`
	LogLevel        string        `koanf:"log_level"`
	BaseURL         string        `koanf:"base_url" validate:"omitempty,url"`
	DatabaseURL     string        `koanf:"database_url" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	AdminEmail        string `koanf:"admin_email" validate:"required,email"`
	AdminPassword     string `koanf:"admin_password" validate:"required_without=AdminPasswordHash"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	SessionSecret     string `koanf:"session_secret" validate:"required"`
	SessionCookieName string `koanf:"session_cookie_name" validate:"required"`

	RedisURL string        `koanf:"redis_url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`

	GoogleClientID     string `koanf:"google_client_id"`
	GoogleClientSecret string `koanf:"google_client_secret" validate:"required_with=GoogleClientID"`
	GoogleRedirectURL  string `koanf:"google_redirect_url"`
	AllowedEmails      string `koanf:"allowed_emails"`

	// JWTSecret is read only as a fallback for SessionSecret.
	JWTSecret string `koanf:"jwt_secret"`
}

// SessionMaxAge is the fixed lifetime of an admin session.
const SessionMaxAge = 30 * 24 * time.Hour

// Defaults returns a Config holding every optional value's default.
func Defaults() *Config {
	return &Config{
		Port:              "8080",
		AppEnv:            "local",
		LogLevel:          "info",
		DatabaseURL:       "file:db.sqlite",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		SessionCookieName: "link_session",
		CacheTTL:          10 * time.Minute,
		GoogleRedirectURL: "http://localhost:8080/auth/google/callback",
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Secure reports whether cookies must carry the Secure flag.
func (c *Config) Secure() bool {
	return c.AppEnv == "production"
}

// AllowedEmailList returns the comma separated ALLOWED_EMAILS entries.
func (c *Config) AllowedEmailList() []string {
	var out []string
	for _, e := range strings.Split(c.AllowedEmails, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, strings.ToLower(e))
		}
	}
	return out
}
