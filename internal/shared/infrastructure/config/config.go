package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Database       database.PostgresConfig
	Redis          database.RedisConfig
	Telegram       TelegramConfig
	Verification   VerificationConfig
	Log            LogConfig
	MigrationsPath string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
	// PublicBaseURL is where the short-link service reaches GET /verify.
	PublicBaseURL string
}

// TelegramConfig holds bot configuration
type TelegramConfig struct {
	BotToken    string
	BotUsername string
	AdminIDs    []int64
	PollTimeout int
	Workers     int
}

// VerificationConfig holds store and grant housekeeping settings
type VerificationConfig struct {
	StoreTimeout     time.Duration
	CleanupInterval  time.Duration
	PendingUploadTTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Env string
}

// Load reads configuration from environment variables
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		},
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "filestore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Telegram: TelegramConfig{
			BotToken:    getEnv("BOT_TOKEN", ""),
			BotUsername: strings.TrimPrefix(getEnv("BOT_USERNAME", ""), "@"),
			AdminIDs:    parseIDs(getEnv("ADMIN_IDS", "")),
			PollTimeout: parseInt(getEnv("BOT_POLL_TIMEOUT", "60"), 60),
			Workers:     parseInt(getEnv("BOT_WORKERS", "8"), 8),
		},
		Verification: VerificationConfig{
			StoreTimeout:     parseDuration(getEnv("STORE_TIMEOUT", "5s"), 5*time.Second),
			CleanupInterval:  parseDuration(getEnv("GRANT_CLEANUP_INTERVAL", "1h"), time.Hour),
			PendingUploadTTL: parseDuration(getEnv("PENDING_UPLOAD_TTL", "24h"), 24*time.Hour),
		},
		Log: LogConfig{
			Env: getEnv("APP_ENV", "production"),
		},
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}
}

// Validate reports settings the process cannot start without
func (c Config) Validate() error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.Server.PublicBaseURL == "" {
		errs = append(errs, errors.New("PUBLIC_BASE_URL is required"))
	}
	if c.Telegram.Workers < 1 {
		errs = append(errs, errors.New("BOT_WORKERS must be at least 1"))
	}
	return errors.Join(errs...)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil && n >= 0 {
		return n
	}
	return defaultValue
}

// parseIDs reads a comma separated list of Telegram user IDs, skipping junk
func parseIDs(value string) []int64 {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
