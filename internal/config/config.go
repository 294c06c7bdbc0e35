// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AuthSecret is the HMAC secret for signing tokens (HS256). When empty, a
	// random per-process secret is generated and tokens do not survive restarts.
	AuthSecret string `mapstructure:"AUTH_SECRET"`
	// Domain is the iss claim on issued tokens (e.g. "example.com").
	Domain string `mapstructure:"DOMAIN"`
	// AuthAccessTTL is the access token lifetime (e.g. "24h").
	AuthAccessTTL string `mapstructure:"AUTH_ACCESS_TTL"`
	// AuthRefreshTTL is the refresh token lifetime (e.g. "168h").
	AuthRefreshTTL string `mapstructure:"AUTH_REFRESH_TTL"`
	// AuthVerifyTTL is the email-verification token lifetime (e.g. "15m").
	AuthVerifyTTL string `mapstructure:"AUTH_VERIFY_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// CookieSecure sets the Secure attribute on auth cookies. Required behind HTTPS in production.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
	// PublicBaseURL is the externally reachable base URL used in verification links.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// ResendAPIKey is the Resend API key for verification emails. Empty disables sending.
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	// ResendBaseURL is the Resend API base URL (default https://api.resend.com).
	ResendBaseURL string `mapstructure:"RESEND_BASE_URL"`
	// MailFrom is the From address on outgoing mail.
	MailFrom string `mapstructure:"MAIL_FROM"`

	// Telemetry (optional). When Kafka brokers are set, the server emits request
	// and audit events to Kafka.
	// TelemetryKafkaBrokers is a comma-separated list of broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for telemetry events (default blog-telemetry).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// OTLPEndpoint enables OpenTelemetry export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTH_SECRET", "")
	v.SetDefault("DOMAIN", "localhost")
	v.SetDefault("AUTH_ACCESS_TTL", "24h")
	v.SetDefault("AUTH_REFRESH_TTL", "168h") // 7d
	v.SetDefault("AUTH_VERIFY_TTL", "15m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("RESEND_BASE_URL", "https://api.resend.com")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "blog-telemetry")
	v.SetDefault("KAFKA_GROUP_ID", "blog-telemetry-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.Domain == "" {
		return nil, errors.New("config: DOMAIN must be set")
	}

	if cfg.Env == "production" {
		if cfg.AuthSecret == "" {
			return nil, errors.New("config: AUTH_SECRET must be set when APP_ENV=production")
		}
		if !cfg.CookieSecure {
			return nil, errors.New("config: COOKIE_SECURE must be true when APP_ENV=production")
		}
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses AuthAccessTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AuthAccessTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// RefreshTTL parses AuthRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.AuthRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// VerifyTTL parses AuthVerifyTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) VerifyTTL() time.Duration {
	d, err := time.ParseDuration(c.AuthVerifyTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
