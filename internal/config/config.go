package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	// DBURL selects the store: empty is the in-memory store, "sqlite:<path>" is SQLite,
	// anything else is a PostgreSQL connection string.
	DBURL      string
	DBMaxConns int

	LogLevel  string
	LogFormat string

	ServiceName  string
	OTLPEndpoint string

	CORSAllowedOrigins []string
	StaticDir          string
	MaxBodyBytes       int64

	// RateLimitPerMinute caps /api requests per client IP; 0 disables the limiter.
	RateLimitPerMinute int

	// DemoResetInterval recreates and reseeds the tables periodically; 0 disables it.
	DemoResetInterval time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		DBURL:        os.Getenv("DATABASE_URL"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ServiceName:  getEnv("SERVICE_NAME", "userhub"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		StaticDir:    os.Getenv("STATIC_ASSET_DIR"),
	}

	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error

	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return Config{}, err
	}

	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 5); err != nil {
		return Config{}, err
	}

	maxBody, err := getEnvInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return Config{}, err
	}

	if cfg.DemoResetInterval, err = getEnvDuration("DEMO_RESET_INTERVAL", 0); err != nil {
		return Config{}, err
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > math.MaxInt32 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS out of range: %d", cfg.DBMaxConns)
	}

	if cfg.RateLimitPerMinute < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative: %d", cfg.RateLimitPerMinute)
	}

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}

	return num, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative: %s", key, v)
	}

	return d, nil
}

func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
