package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/events"
	"github.com/dukerupert/vitrine/internal/merchandise"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `validate:"oneof=dev prod"`
	LogLevel string `validate:"oneof=debug info warn error"`
	Port     uint16 `validate:"required"`

	HTTP          HTTPConfig
	Commerce      CommerceConfig
	Content       ContentConfig
	Cache         CacheConfig
	Events        EventsConfig
	Merchandising MerchandisingConfig
	Sentry        SentryConfig
}

// HTTPConfig controls the storefront's HTTP surface.
type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64       `validate:"gt=0"`
	RateLimitBurst int           `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`
	// RenderHTML serves server-rendered pages to browsers; JSON is always available.
	RenderHTML bool
}

// CommerceConfig points at the commerce backend's storefront GraphQL API.
type CommerceConfig struct {
	StoreDomain       string        `validate:"required,hostname_port|hostname"`
	StorefrontToken   string        `validate:"required"`
	APIVersion        string        `validate:"required"`
	Timeout           time.Duration `validate:"gt=0"`
	MaxRetries        int           `validate:"gte=0"`
	RequestsPerSecond int           `validate:"gt=0"`
}

// ContentConfig selects where supplemental variant content comes from.
//   - http: hosted content backend query API (ProjectID/Dataset)
//   - postgres: product_content/variant_content tables (DatabaseUrl)
//   - none: every content lookup misses
type ContentConfig struct {
	Provider    string `validate:"oneof=http postgres none"`
	ProjectID   string `validate:"required_if=Provider http"`
	Dataset     string `validate:"required_if=Provider http"`
	APIVersion  string
	Token       string
	UseCDN      bool
	DatabaseUrl string `validate:"required_if=Provider postgres"`
}

// CacheConfig controls caching of commerce payloads.
type CacheConfig struct {
	Provider      string `validate:"oneof=memory redis none"`
	TTL           time.Duration
	RedisAddr     string `validate:"required_if=Provider redis"`
	RedisPassword string
	RedisDB       int
}

// EventsConfig enables NATS notifications: product changes evict cached
// payloads and, with the postgres content provider, content documents are
// synced into the content tables. An empty NatsURL disables both.
type EventsConfig struct {
	NatsURL        string `validate:"omitempty,url"`
	Subject        string
	ContentSubject string
}

// MerchandisingConfig holds storefront copy that is a product decision,
// not something derived from variant data.
type MerchandisingConfig struct {
	BackorderMessage string
	ListSize         int `validate:"gte=1,lte=250"`
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvUint16("PORT", 3000),
		HTTP: HTTPConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
			RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			RenderHTML:     getEnvBool("RENDER_HTML", true),
		},
		Commerce: CommerceConfig{
			StoreDomain:       getEnv("COMMERCE_STORE_DOMAIN", ""),
			StorefrontToken:   getEnv("COMMERCE_STOREFRONT_TOKEN", ""),
			APIVersion:        getEnv("COMMERCE_API_VERSION", "2024-10"),
			Timeout:           getEnvDuration("COMMERCE_TIMEOUT", 10*time.Second),
			MaxRetries:        getEnvInt("COMMERCE_MAX_RETRIES", 2),
			RequestsPerSecond: getEnvInt("COMMERCE_REQUESTS_PER_SECOND", 20),
		},
		Content: ContentConfig{
			Provider:    getEnv("CONTENT_PROVIDER", "none"),
			ProjectID:   getEnv("CONTENT_PROJECT_ID", ""),
			Dataset:     getEnv("CONTENT_DATASET", "production"),
			APIVersion:  getEnv("CONTENT_API_VERSION", "v2021-10-21"),
			Token:       getEnv("CONTENT_TOKEN", ""),
			UseCDN:      getEnvBool("CONTENT_USE_CDN", true),
			DatabaseUrl: getEnv("DATABASE_URL", ""),
		},
		Cache: CacheConfig{
			Provider:      getEnv("CACHE_PROVIDER", "memory"),
			TTL:           getEnvDuration("CACHE_TTL", time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Events: EventsConfig{
			NatsURL:        getEnv("NATS_URL", ""),
			Subject:        getEnv("NATS_PRODUCT_SUBJECT", events.DefaultSubject),
			ContentSubject: getEnv("NATS_CONTENT_SUBJECT", events.DefaultContentSubject),
		},
		Merchandising: MerchandisingConfig{
			BackorderMessage: getEnv("BACKORDER_MESSAGE", merchandise.DefaultBackorderMessage),
			ListSize:         getEnvInt("PRODUCT_LIST_SIZE", 24),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	if cfg.Env != "dev" && cfg.Env != "prod" {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and reports every offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	out := &domain.ValidationError{Op: "config.validate", Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		out.Fields[field] = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint16(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
