package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	SnapshotTTL          time.Duration
	SessionIdleTimeout   time.Duration
	CleanupInterval      time.Duration
	JWTSecret            string
	TokenTTL             time.Duration
	LogLevel             string
	LogPretty            bool
}

// LoadEnvFiles reads .env from the working directory or its parent, if present.
func LoadEnvFiles() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("no .env file found")
		}
	}
}

func LoadConfig() *Config {
	allowedOrigins := []string{"http://localhost:5173"}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	return &Config{
		Port:                 GetEnv("PORT", "8080"),
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", "")),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		SnapshotTTL:          GetEnvAsDuration("SNAPSHOT_TTL_MINUTES", 24*60, time.Minute),
		SessionIdleTimeout:   GetEnvAsDuration("SESSION_IDLE_TIMEOUT_MINUTES", 60, time.Minute),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10, time.Minute),
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		TokenTTL:             GetEnvAsDuration("TOKEN_TTL_HOURS", 24, time.Hour),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogPretty:            GetEnvAsBool("LOG_PRETTY", true),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean value, using default")
		return defaultValue
	}
	return value
}
