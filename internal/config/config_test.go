package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("GENERATION_TIMEOUT_MS", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 2*time.Minute, cfg.GenerationTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GENERATION_TIMEOUT_MS", "1500")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("WS_PING_INTERVAL_MS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 1500*time.Millisecond, cfg.GenerationTimeout)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
}
