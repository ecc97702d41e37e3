package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	AccessSecret      string
	RefreshSecret     string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	ServerHost        string
	ServerPort        string
	Environment       string
	RedisURL          string
	RateLimitEnabled  bool
	RateLimitAttempts int
	RateLimitWindow   time.Duration
	RateLimitBlock    time.Duration
	LogLevel          string
	LogFormat         string
	SSEBufferSize     int
	SSEHeartbeat      time.Duration
}

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required")
	ErrMissingAccessSecret  = errors.New("JWT_ACCESS_SECRET is required")
	ErrMissingRefreshSecret = errors.New("JWT_REFRESH_SECRET is required")
	ErrInvalidTokenTTL      = errors.New("invalid token TTL format")
)

// Load reads configuration from the environment, loading an optional .env
// file first. Token TTLs are specified in seconds.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AccessSecret:      os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret:     os.Getenv("JWT_REFRESH_SECRET"),
		ServerHost:        getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:        getEnvOrDefault("SERVER_PORT", "8080"),
		Environment:       getEnvOrDefault("ENV", "development"),
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitAttempts: getEnvOrDefaultInt("RATE_LIMIT_ATTEMPTS", 5),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "json"),
		SSEBufferSize:     getEnvOrDefaultInt("SSE_MESSAGE_BUFFER_SIZE", 256),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.AccessSecret == "" {
		return nil, ErrMissingAccessSecret
	}
	if cfg.RefreshSecret == "" {
		return nil, ErrMissingRefreshSecret
	}

	accessTTL, err := parseSeconds(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTTL

	refreshTTL, err := parseSeconds(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "604800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RefreshTokenTTL = refreshTTL

	window, err := parseSeconds(getEnvOrDefault("RATE_LIMIT_WINDOW", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitWindow = window

	block, err := parseSeconds(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitBlock = block

	heartbeat, err := parseSeconds(getEnvOrDefault("SSE_HEARTBEAT_INTERVAL", "15"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.SSEHeartbeat = heartbeat

	return cfg, nil
}

func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0, ErrInvalidTokenTTL
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvOrDefaultInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvOrDefaultBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
