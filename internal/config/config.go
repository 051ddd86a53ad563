// Package config centralises configuration parsing for the sync service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration values shared by both delivery modes.
type Config struct {
	HTTPAddress string

	GarminEmail    string
	GarminPassword string
	GarminBaseURL  string
	GarminTimeout  time.Duration

	// ActivityDetailLimit caps detail fetches per report build to stay under
	// Garmin's undocumented throttling threshold.
	ActivityDetailLimit int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret string
	JWTIssuer string

	ReportTime   string // HH:MM local time for the scheduled run
	ReportDir    string
	RunOnStartup bool
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	return Config{
		HTTPAddress:         getEnv("HTTP_ADDRESS", ":8000"),
		GarminEmail:         getEnv("GARMIN_EMAIL", ""),
		GarminPassword:      getEnv("GARMIN_PASSWORD", ""),
		GarminBaseURL:       getEnv("GARMIN_BASE_URL", "https://connectapi.garmin.com"),
		GarminTimeout:       getDurationEnv("GARMIN_TIMEOUT", 30*time.Second),
		ActivityDetailLimit: getIntEnv("ACTIVITY_DETAIL_LIMIT", 5),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getIntEnv("REDIS_DB", 0),
		CacheTTL:            getDurationEnv("CACHE_TTL", 15*time.Minute),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", "garmin-sync"),
		ReportTime:          getEnv("REPORT_TIME", "07:00"),
		ReportDir:           getEnv("REPORT_DIR", "data"),
		RunOnStartup:        getBoolEnv("RUN_ON_STARTUP", true),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
