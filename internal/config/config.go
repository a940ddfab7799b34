package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv      string        `env:"APP_ENV" envDefault:"dev"`
	Port        string        `env:"PORT" envDefault:"8080"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"clinic.db"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// CORS_ALLOWED_ORIGINS=https://clinic.example,https://admin.clinic.example
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Clinic wall clock used for booking dates submitted by the public form.
	ClinicTimezone string `env:"CLINIC_TIMEZONE" envDefault:"UTC"`

	Notifications NotificationsConfig `envPrefix:"NOTIFY_"`
	RateLimit     RateLimitConfig     `envPrefix:"RATE_LIMIT_"`
	Redis         RedisConfig         `envPrefix:"REDIS_"`
	SMS           SMSConfig           `envPrefix:"SMS_"`
}

type NotificationsConfig struct {
	RetentionDays   int           `env:"RETENTION_DAYS" envDefault:"90"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"24h"`
	CleanupEnabled  bool          `env:"CLEANUP_ENABLED" envDefault:"true"`
}

type RateLimitConfig struct {
	RPS    float64       `env:"RPS" envDefault:"1"`
	Burst  int           `env:"BURST" envDefault:"5"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
	Limit  int           `env:"LIMIT" envDefault:"20"`
}

// RedisConfig is optional; an empty Addr keeps rate limiting in memory.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type SMSConfig struct {
	Enabled    bool   `env:"ENABLED" envDefault:"false"`
	Region     string `env:"REGION" envDefault:"us-east-1"`
	AlertPhone string `env:"ALERT_PHONE"`
}

// WatchConfig configures the notifywatch terminal client.
type WatchConfig struct {
	APIBaseURL       string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	APIToken         string        `env:"API_TOKEN"`
	PollInterval     time.Duration `env:"POLL_INTERVAL" envDefault:"60s"`
	PollInitialDelay time.Duration `env:"POLL_INITIAL_DELAY" envDefault:"5s"`
	PollLimit        int           `env:"POLL_LIMIT" envDefault:"20"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadWatch() (*WatchConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[WatchConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be > 0")
	}
	if cfg.PollInitialDelay < 0 {
		return nil, fmt.Errorf("POLL_INITIAL_DELAY must be >= 0")
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		return nil, fmt.Errorf("READ_TIMEOUT and WRITE_TIMEOUT must be > 0")
	}
	return &cfg, nil
}

// Location resolves ClinicTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validateConfig(cfg *Config) error {
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Notifications.RetentionDays <= 0 {
		return fmt.Errorf("NOTIFY_RETENTION_DAYS must be > 0")
	}
	if cfg.Notifications.CleanupInterval <= 0 {
		return fmt.Errorf("NOTIFY_CLEANUP_INTERVAL must be > 0")
	}
	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}
	if cfg.SMS.Enabled && strings.TrimSpace(cfg.SMS.AlertPhone) == "" {
		return fmt.Errorf("SMS_ALERT_PHONE is required when SMS_ENABLED=true")
	}
	if _, err := time.LoadLocation(cfg.ClinicTimezone); err != nil {
		return fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", cfg.ClinicTimezone, err)
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
