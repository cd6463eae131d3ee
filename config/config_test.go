package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv remove as variáveis herdadas; t.Setenv restaura os valores no fim do teste
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "SERVER_ADDR", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT", "ENABLE_CORS", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_TIMEOUT", "GEMINI_RATE_LIMIT_RPM",
		"FETCH_TIMEOUT", "ANALYSIS_TIMEOUT", "PRICE_HISTORY_DAYS", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 15*time.Second, cfg.ServerReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.ServerWriteTimeout)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 15, cfg.GeminiRateLimitRPM)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 90*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, 30, cfg.PriceHistoryDays)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_API_KEY", "abc")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("GEMINI_RATE_LIMIT_RPM", "60")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("PRICE_HISTORY_DAYS", "7")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 60, cfg.GeminiRateLimitRPM)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 7, cfg.PriceHistoryDays)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(-100200300), cfg.TelegramChatID)
}

func TestLoad_GoogleAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.GeminiAPIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY não configurado")
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "abc")
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{GeminiAPIKey: "k", FetchTimeout: time.Second, GeminiRateLimitRPM: -1, PriceHistoryDays: -2}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_RATE_LIMIT_RPM")
	assert.Contains(t, err.Error(), "PRICE_HISTORY_DAYS")
}
