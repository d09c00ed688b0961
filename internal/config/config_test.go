package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "placeholder", cfg.GeminiTranscribeMode)
	assert.Equal(t, ModeLive, cfg.GeminiTechnicalMode)
	assert.Equal(t, ModeLive, cfg.FeedbackMode)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GeminiTranscribeModel)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GeminiTechnicalModel)
	assert.Equal(t, 2*time.Minute, cfg.GeminiTimeout)
	assert.Equal(t, 2*time.Minute, cfg.TwelveLabsTimeout)
	assert.Equal(t, 4*time.Second, cfg.PollInterval)
	assert.Equal(t, 45, cfg.PollLimit)
	assert.Equal(t, 20, cfg.MaxUploadMB)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 50, cfg.HistoryCap)
	assert.False(t, cfg.AICallsDisabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TRANSCRIBE_MODE", "live")
	t.Setenv("GEMINI_TRANSCRIBE_MODEL", "gemini-2.5-pro")
	t.Setenv("GEMINI_TECHNICAL_MODEL", "gemini-2.5-flash")
	t.Setenv("GEMINI_TIMEOUT", "30s")
	t.Setenv("TWELVELABS_TIMEOUT", "90s")
	t.Setenv("TWELVELABS_INDEX_POLL_INTERVAL", "250ms")
	t.Setenv("TWELVELABS_INDEX_POLL_LIMIT", "3")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("AI_CALLS_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, ModeLive, cfg.GeminiTranscribeMode)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiTranscribeModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiTechnicalModel)
	assert.Equal(t, 30*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, 90*time.Second, cfg.TwelveLabsTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 3, cfg.PollLimit)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.AICallsDisabled)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("zero upload limit", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_MB", "0")

		_, err := Load()
		assert.ErrorContains(t, err, "MAX_UPLOAD_MB")
	})

	t.Run("zero upstream timeout", func(t *testing.T) {
		t.Setenv("GEMINI_TIMEOUT", "0s")

		_, err := Load()
		assert.ErrorContains(t, err, "GEMINI_TIMEOUT")
	})
}

func TestPlaceholderSwitches(t *testing.T) {
	cfg := &Config{
		GeminiTranscribeMode: ModePlaceholder,
		GeminiTechnicalMode:  ModeLive,
		FeedbackMode:         ModeLive,
	}

	assert.True(t, cfg.TranscribePlaceholder())
	assert.False(t, cfg.TechnicalPlaceholder())
	assert.False(t, cfg.FeedbackPlaceholder())

	// The kill switch forces placeholder everywhere.
	cfg.AICallsDisabled = true
	assert.True(t, cfg.TechnicalPlaceholder())
	assert.True(t, cfg.FeedbackPlaceholder())
}

func TestModeSwitches_DisabledStage(t *testing.T) {
	cfg := &Config{FeedbackMode: "off"}

	assert.False(t, cfg.FeedbackEnabled())
	assert.False(t, cfg.FeedbackPlaceholder())

	cfg.FeedbackMode = ModeLive
	assert.True(t, cfg.FeedbackEnabled())
}
