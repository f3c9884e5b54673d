package config

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devSecret is the fallback signing key for local development. Load
// refuses to start a production process that still uses it.
const devSecret = "dev-secret-change-me"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// SessionConfig is the policy surface the session manager honors.
type SessionConfig struct {
	// Secret signs session tokens.
	Secret string `env:"SESSION_SECRET, default=dev-secret-change-me"`
	// ShortTTL bounds the server-side record of a browser-session
	// login; the cookie itself carries no Max-Age in that mode.
	ShortTTL time.Duration `env:"SESSION_SHORT_TTL,    default=12h"`
	// RememberTTL is the "remember me" lifetime (31 days).
	RememberTTL time.Duration `env:"SESSION_REMEMBER_TTL, default=744h"`

	CookieName     string `env:"SESSION_COOKIE_NAME, default=sm_session"`
	CookieSecure   bool   `env:"COOKIE_SECURE,       default=false"`
	CookieSameSite string `env:"COOKIE_SAMESITE,     default=lax"`
}

// SameSite maps the configured policy string onto http.SameSite.
func (s SessionConfig) SameSite() http.SameSite {
	switch strings.ToLower(s.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=skills_matrix"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the process runs with production policy.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using
// go-envconfig and enforces the production invariants.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.IsProduction() && cfg.Session.Secret == devSecret {
		return nil, fmt.Errorf("config: SESSION_SECRET must be set in production")
	}

	return &cfg, nil
}
