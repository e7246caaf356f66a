package config

import (
	"os"
	"strconv"
	"time"

	"task_tracker/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	DBMaxConns  int32
	JWTSecret   string

	LogLevel string
	LogJSON  bool

	// Redis backs the rate limiters; empty RedisAddr disables them.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit       int
	APIRateWindow      time.Duration
	MutationRateLimit  int
	MutationRateWindow time.Duration
}

// Load reads configuration from the environment, after an optional .env file
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:            port,
		DatabaseURL:        dbURL,
		DBMaxConns:         int32(envInt("DB_MAX_CONNS", 10)),
		JWTSecret:          jwtSecret,
		LogLevel:           logLevel,
		LogJSON:            os.Getenv("LOG_JSON") == "true",
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		APIRateLimit:       envInt("API_RATE_LIMIT", 120),
		APIRateWindow:      envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		MutationRateLimit:  envInt("MUTATION_RATE_LIMIT", 60),
		MutationRateWindow: envSeconds("MUTATION_RATE_WINDOW_SECONDS", time.Minute),
	}
}

// envInt returns the non-negative integer in key, or def
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		logger.Warn("ignoring invalid integer setting", "key", key, "value", v)
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if n := envInt(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
