// Package config loads application configuration from the environment.
// A local .env file is picked up when present so develop setups need no
// exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string

	DatabaseURL     string
	DBMaxConns      int32
	DBMinConns      int32
	DBConnLifetime  time.Duration
	DBHealthCheck   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SearchTTL     time.Duration

	JWTSecret     string
	TokenTTL      time.Duration

	LogLevel       string
	LogDevelopment bool
}

// Load reads configuration from the environment, applying defaults.
// Missing required values are reported together so operators fix them
// in one pass.
func Load() (Config, error) {
	// best effort, absence of .env is normal in production
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:5173"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getEnvInt("DB_MIN_CONNS", 2)),
		DBConnLifetime: getEnvDuration("DB_CONN_LIFETIME", time.Hour),
		DBHealthCheck:  getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SearchTTL:     getEnvDuration("SEARCH_CACHE_TTL", 30*time.Second),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 8*time.Hour),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", false),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// RedisEnabled reports whether a redis cache was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, err := time.ParseDuration(os.Getenv(key))
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}
