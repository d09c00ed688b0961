// Package transcription implements the audio/technical evaluation client.
// One invocation transcribes the recorded clip with inline markers for pauses
// and filler words, then scores the transcript for technical correctness.
package transcription

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/extract"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// PlaceholderTranscript is returned when the transcription stage runs in
// placeholder mode. It carries a fixed marker census so derived counts are
// deterministic in demos and tests.
const PlaceholderTranscript = "Transcription temporarily disabled to avoid rate limits. " +
	"[PAUSE] This is, [FILLER] like, a placeholder response [FILLER] for development. [PAUSE] " +
	"Set TRANSCRIBE_MODE=live to call the real model."

// placeholderTechnical is the canned scoring result for placeholder mode.
var placeholderTechnical = types.TechnicalResult{
	Score: 70,
	Feedback: []string{
		"Placeholder feedback: the answer covered the core concept at a high level.",
		"Placeholder feedback: add a concrete example to strengthen the response.",
	},
}

// DefaultMimeType is assumed when the caller does not know the clip's type.
const DefaultMimeType = "audio/webm"

// Client evaluates a clip for transcript and technical correctness.
type Client struct {
	cfg      *config.Config
	llm      llm.Client
	validate *validator.Validate
}

// New creates a transcription client. llmClient may be nil when every
// configured mode short-circuits before a model call.
func New(cfg *config.Config, llmClient llm.Client) *Client {
	return &Client{
		cfg:      cfg,
		llm:      llmClient,
		validate: validator.New(),
	}
}

// Transcribe converts the clip's audio into text with [PAUSE]/[FILLER]
// markers embedded by the model. Placeholder mode short-circuits before the
// credential check and makes no network calls.
func (c *Client) Transcribe(ctx context.Context, clip []byte, mimeType string) (string, error) {
	if len(clip) == 0 {
		return "", &evaluator.InputError{Message: "no audio received for transcription"}
	}
	if int64(len(clip)) > c.cfg.MaxUploadBytes() {
		return "", &evaluator.PayloadTooLargeError{SizeBytes: int64(len(clip)), MaxBytes: c.cfg.MaxUploadBytes()}
	}

	if c.cfg.TranscribePlaceholder() {
		return PlaceholderTranscript, nil
	}
	if !c.cfg.TranscribeEnabled() {
		return "", &evaluator.ModeDisabledError{Stage: "Transcription", Hint: "Set TRANSCRIBE_MODE=live."}
	}
	if c.cfg.GeminiAPIKey == "" {
		return "", &evaluator.CredentialError{Name: "GEMINI_API_KEY"}
	}

	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	prompt := prompts.MustGet("evaluation.json", "transcribe-audio")
	text, err := c.llm.GenerateWithMedia(callCtx, c.cfg.GeminiTranscribeModel, prompt, mimeType, clip)
	if err != nil {
		return "", &evaluator.TransportError{Op: "transcription", Cause: err}
	}

	transcript := strings.TrimSpace(text)
	if transcript == "" {
		return "", &evaluator.MalformedResponseError{Stage: "transcription", Raw: text}
	}
	return transcript, nil
}

// Score asks the model to grade the transcript against the question's rubric.
// The model is instructed to return an integer 0-100 score and exactly two
// feedback points as pure JSON.
func (c *Client) Score(ctx context.Context, question, transcript string) (*types.TechnicalResult, error) {
	if question == "" || transcript == "" {
		return nil, &evaluator.InputError{Message: "missing question or transcript for technical scoring"}
	}

	if c.cfg.TechnicalPlaceholder() {
		result := placeholderTechnical
		result.Transcript = transcript
		return &result, nil
	}
	if !c.cfg.TechnicalEnabled() {
		return nil, &evaluator.ModeDisabledError{Stage: "Technical", Hint: "Set TECHNICAL_MODE=live."}
	}
	if c.cfg.GeminiAPIKey == "" {
		return nil, &evaluator.CredentialError{Name: "GEMINI_API_KEY"}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	prompt := prompts.Format(prompts.MustGet("evaluation.json", "technical-score"), map[string]string{
		"Question":   question,
		"Transcript": transcript,
	})

	text, err := c.llm.GenerateText(callCtx, c.cfg.GeminiTechnicalModel, prompt)
	if err != nil {
		return nil, &evaluator.TransportError{Op: "technical scoring", Cause: err}
	}

	return c.parseTechnical(text, transcript)
}

// callContext bounds one model round trip with the configured timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.GeminiTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.GeminiTimeout)
}

// Evaluate transcribes the clip and then scores the transcript in one call.
func (c *Client) Evaluate(ctx context.Context, clip []byte, mimeType, question string) (*types.TechnicalResult, error) {
	transcript, err := c.Transcribe(ctx, clip, mimeType)
	if err != nil {
		return nil, err
	}
	return c.Score(ctx, question, transcript)
}

// parseTechnical extracts and validates the model's scoring response.
func (c *Client) parseTechnical(raw, transcript string) (*types.TechnicalResult, error) {
	obj, err := extract.VariantObject(raw, extract.VariantTechnical)
	if err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "technical scoring", Raw: raw, Cause: err}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "technical scoring", Raw: raw, Cause: err}
	}

	var result types.TechnicalResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "technical scoring", Raw: raw, Cause: err}
	}
	if err := c.validate.Struct(&result); err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "technical scoring", Raw: raw, Cause: err}
	}

	result.Transcript = transcript
	result.Raw = raw
	return &result, nil
}
