// Package config provides configuration for the intake service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseDriver string // sqlite3 or postgres
	DatabaseURL    string

	// Generation settings
	LLMProvider       string // gemini, openai or mock
	LLMModel          string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	GenerationTimeout time.Duration

	// Accounts
	PasswordCost int // bcrypt cost

	// Uploads
	MaxUploadBytes int64
	MaxImageEdge   int

	// WebSocket settings
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:       getEnv("DATABASE_URL", "file:cdss_health_vault.db?cache=shared&mode=rwc&_busy_timeout=5000&_journal_mode=WAL"),
		LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
		LLMModel:          getEnv("LLM_MODEL", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_MS", 120000)) * time.Millisecond,
		PasswordCost:      getEnvInt("PASSWORD_COST", 10),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		MaxImageEdge:      getEnvInt("MAX_IMAGE_EDGE", 1024),
		PingInterval:      time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:      time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		ReadTimeout:       time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
