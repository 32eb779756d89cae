package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr               string
	Environment        string
	APIBaseURL         string
	SessionSecret      string
	SessionTTL         time.Duration
	IdentityRefresh    time.Duration
	SnapshotTTL        time.Duration
	RedisAddr          string
	DatabaseURL        string
	FrontendDir        string
	NavManifest        string
	LoginPath          string
	ForbiddenPath      string
	RateLimitPerMinute int
	LoginRatePerMinute int
	MaxBodyBytes       int64
	MetricsEnabled     bool
	SessionPurgeEvery  time.Duration
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		APIBaseURL:         getEnv("API_BASE_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
		IdentityRefresh:    getEnvDuration("IDENTITY_REFRESH_INTERVAL", time.Minute),
		SnapshotTTL:        getEnvDuration("SNAPSHOT_TTL", 15*time.Minute),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		FrontendDir:        getEnv("FRONTEND_DIR", "frontend/dist"),
		NavManifest:        getEnv("NAV_MANIFEST", "configs/nav.yaml"),
		LoginPath:          getEnv("LOGIN_PATH", "/login"),
		ForbiddenPath:      getEnv("FORBIDDEN_PATH", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		SessionPurgeEvery:  getEnvDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if parsed, err := url.Parse(c.APIBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.SessionSecret) == "" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong value in production")
		}
		if !strings.HasPrefix(c.APIBaseURL, "https://") {
			return fmt.Errorf("API_BASE_URL must use https in production")
		}
	}
	if c.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if c.IdentityRefresh <= 0 {
		return fmt.Errorf("IDENTITY_REFRESH_INTERVAL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 || c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}
