package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	StoreBackend   string
	MySQLDSN       string
	ResetDB        bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	SwaggerHost    string
	SnowflakeNode  int64
	LogLevel       slog.Level
	SuggestURL     string
	SuggestAPIKey  string
	SuggestTimeout time.Duration
}

// Load builds Config from environment with sensible defaults. Values from a
// .env file in the working directory are loaded first but never override
// variables already set in the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreMySQL)),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/skillhub?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:        os.Getenv("RESET_DB") == "true",
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
		SnowflakeNode:  int64(getEnvInt("SNOWFLAKE_NODE", 1)),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
		SuggestURL:     os.Getenv("SUGGEST_URL"),
		SuggestAPIKey:  os.Getenv("SUGGEST_API_KEY"),
		SuggestTimeout: getEnvDuration("SUGGEST_TIMEOUT", 20*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}
