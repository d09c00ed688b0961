// Package config provides explicit configuration for the evaluation pipeline.
// All values are loaded from environment variables once at startup and passed
// into constructors; nothing reads the environment at call time.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Mode values for the per-stage upstream switches. Any other value disables
// the stage; "placeholder" returns canned results without network calls.
const (
	ModeLive        = "live"
	ModePlaceholder = "placeholder"
)

// Config holds every tunable the pipeline and its upstream clients need.
type Config struct {
	// Gemini (transcription + technical scoring)
	GeminiAPIKey          string        `env:"GEMINI_API_KEY"`
	GeminiTranscribeMode  string        `env:"TRANSCRIBE_MODE" envDefault:"placeholder"`
	GeminiTechnicalMode   string        `env:"TECHNICAL_MODE" envDefault:"live"`
	GeminiTranscribeModel string        `env:"GEMINI_TRANSCRIBE_MODEL" envDefault:"gemini-2.5-flash-lite"`
	GeminiTechnicalModel  string        `env:"GEMINI_TECHNICAL_MODEL" envDefault:"gemini-2.5-flash-lite"`
	GeminiTimeout         time.Duration `env:"GEMINI_TIMEOUT" envDefault:"2m"`

	// TwelveLabs (video/confidence)
	TwelveLabsAPIKey  string        `env:"TWELVELABS_API_KEY"`
	TwelveLabsBaseURL string        `env:"TWELVELABS_BASE_URL" envDefault:"https://api.twelvelabs.io/v1.3"`
	TwelveLabsTimeout time.Duration `env:"TWELVELABS_TIMEOUT" envDefault:"2m"`
	FeedbackMode      string        `env:"FEEDBACK_MODE" envDefault:"live"`
	IndexID           string        `env:"TWELVELABS_INDEX_ID"`
	IndexNamePrefix   string        `env:"TWELVELABS_INDEX_NAME" envDefault:"interview-feedback"`

	// Indexing poll budget. Total wall-clock bound is PollInterval * PollLimit.
	PollInterval time.Duration `env:"TWELVELABS_INDEX_POLL_INTERVAL" envDefault:"4s"`
	PollLimit    int           `env:"TWELVELABS_INDEX_POLL_LIMIT" envDefault:"45"`

	// Upload limit shared by both clients.
	MaxUploadMB int `env:"MAX_UPLOAD_MB" envDefault:"20"`

	// AICallsDisabled forces placeholder behavior for every stage regardless
	// of the per-stage modes. Used in development to avoid rate limits.
	AICallsDisabled bool `env:"AI_CALLS_DISABLED" envDefault:"false"`

	// History
	HistoryPath string `env:"HISTORY_DB_PATH" envDefault:"interview-coach.db"`
	HistoryCap  int    `env:"HISTORY_CAP" envDefault:"50"`

	// HTTP server
	Port int `env:"PORT" envDefault:"8080"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric ranges that env parsing cannot express.
func (c *Config) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config error: MAX_UPLOAD_MB must be positive")
	}
	if c.PollLimit <= 0 {
		return fmt.Errorf("config error: TWELVELABS_INDEX_POLL_LIMIT must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config error: TWELVELABS_INDEX_POLL_INTERVAL must be positive")
	}
	if c.GeminiTimeout <= 0 {
		return fmt.Errorf("config error: GEMINI_TIMEOUT must be positive")
	}
	if c.TwelveLabsTimeout <= 0 {
		return fmt.Errorf("config error: TWELVELABS_TIMEOUT must be positive")
	}
	if c.HistoryCap <= 0 {
		return fmt.Errorf("config error: HISTORY_CAP must be positive")
	}
	return nil
}

// MaxUploadBytes converts the configured megabyte limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// TranscribePlaceholder reports whether the transcription stage should
// short-circuit with canned output.
func (c *Config) TranscribePlaceholder() bool {
	return c.AICallsDisabled || c.GeminiTranscribeMode == ModePlaceholder
}

// TechnicalPlaceholder reports whether technical scoring should short-circuit.
func (c *Config) TechnicalPlaceholder() bool {
	return c.AICallsDisabled || c.GeminiTechnicalMode == ModePlaceholder
}

// FeedbackPlaceholder reports whether the confidence stage should short-circuit.
func (c *Config) FeedbackPlaceholder() bool {
	return c.AICallsDisabled || c.FeedbackMode == ModePlaceholder
}

// TranscribeEnabled reports whether the transcription stage may run at all.
func (c *Config) TranscribeEnabled() bool {
	return c.GeminiTranscribeMode == ModeLive || c.TranscribePlaceholder()
}

// TechnicalEnabled reports whether technical scoring may run at all.
func (c *Config) TechnicalEnabled() bool {
	return c.GeminiTechnicalMode == ModeLive || c.TechnicalPlaceholder()
}

// FeedbackEnabled reports whether the confidence stage may run at all.
func (c *Config) FeedbackEnabled() bool {
	return c.FeedbackMode == ModeLive || c.FeedbackPlaceholder()
}
