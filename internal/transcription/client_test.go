package transcription

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/metrics"
)

// fakeLLM returns scripted responses and records calls.
type fakeLLM struct {
	textResponse   string
	textErr        error
	mediaResponse  string
	mediaErr       error
	textCalls      int
	mediaCalls     int
	lastMimeType   string
	lastTextModel  string
	lastMediaModel string
	sawDeadline    bool
}

func (f *fakeLLM) GenerateText(ctx context.Context, model, _ string) (string, error) {
	f.textCalls++
	f.lastTextModel = model
	_, f.sawDeadline = ctx.Deadline()
	return f.textResponse, f.textErr
}

func (f *fakeLLM) GenerateWithMedia(ctx context.Context, model, _, mimeType string, _ []byte) (string, error) {
	f.mediaCalls++
	f.lastMediaModel = model
	f.lastMimeType = mimeType
	_, f.sawDeadline = ctx.Deadline()
	return f.mediaResponse, f.mediaErr
}

func (f *fakeLLM) Close() error { return nil }

func liveConfig() *config.Config {
	return &config.Config{
		GeminiAPIKey:          "test-key",
		GeminiTranscribeMode:  config.ModeLive,
		GeminiTechnicalMode:   config.ModeLive,
		GeminiTranscribeModel: "transcribe-model",
		GeminiTechnicalModel:  "technical-model",
		GeminiTimeout:         time.Minute,
		MaxUploadMB:           20,
	}
}

func TestTranscribe_Live(t *testing.T) {
	llm := &fakeLLM{mediaResponse: "  I think [PAUSE] the answer is, [FILLER] yes.  \n"}
	client := New(liveConfig(), llm)

	transcript, err := client.Transcribe(context.Background(), []byte("clip"), "video/webm")
	require.NoError(t, err)
	assert.Equal(t, "I think [PAUSE] the answer is, [FILLER] yes.", transcript)
	assert.Equal(t, "video/webm", llm.lastMimeType)
	assert.Equal(t, "transcribe-model", llm.lastMediaModel)
	assert.True(t, llm.sawDeadline, "model calls carry the configured timeout")
}

func TestTranscribe_DefaultsMimeType(t *testing.T) {
	llm := &fakeLLM{mediaResponse: "hello"}
	client := New(liveConfig(), llm)

	_, err := client.Transcribe(context.Background(), []byte("clip"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultMimeType, llm.lastMimeType)
}

func TestTranscribe_PlaceholderSkipsCredentialCheck(t *testing.T) {
	cfg := liveConfig()
	cfg.GeminiAPIKey = "" // would fail the credential check in live mode
	cfg.GeminiTranscribeMode = config.ModePlaceholder
	llm := &fakeLLM{}
	client := New(cfg, llm)

	transcript, err := client.Transcribe(context.Background(), []byte("clip"), "video/webm")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderTranscript, transcript)
	assert.Zero(t, llm.mediaCalls, "placeholder mode makes no model calls")
}

func TestPlaceholderTranscript_HasFixedMarkerCensus(t *testing.T) {
	counts := metrics.DeriveCounts(PlaceholderTranscript)
	assert.Equal(t, 2, counts.Pauses)
	assert.Equal(t, 2, counts.FillerWords)
}

func TestTranscribe_InputErrors(t *testing.T) {
	client := New(liveConfig(), &fakeLLM{})

	t.Run("empty clip", func(t *testing.T) {
		_, err := client.Transcribe(context.Background(), nil, "video/webm")
		var inputErr *evaluator.InputError
		assert.ErrorAs(t, err, &inputErr)
	})

	t.Run("oversized clip fails before any model call", func(t *testing.T) {
		cfg := liveConfig()
		cfg.MaxUploadMB = 1
		llm := &fakeLLM{}
		client := New(cfg, llm)

		big := make([]byte, 2*1024*1024)
		_, err := client.Transcribe(context.Background(), big, "video/webm")

		var tooLarge *evaluator.PayloadTooLargeError
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, int64(len(big)), tooLarge.SizeBytes)
		assert.Zero(t, llm.mediaCalls)
	})
}

func TestTranscribe_MissingCredential(t *testing.T) {
	cfg := liveConfig()
	cfg.GeminiAPIKey = ""
	client := New(cfg, &fakeLLM{})

	_, err := client.Transcribe(context.Background(), []byte("clip"), "video/webm")
	var credErr *evaluator.CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "GEMINI_API_KEY", credErr.Name)
}

func TestTranscribe_DisabledMode(t *testing.T) {
	cfg := liveConfig()
	cfg.GeminiTranscribeMode = "off"
	client := New(cfg, &fakeLLM{})

	_, err := client.Transcribe(context.Background(), []byte("clip"), "video/webm")
	var disabledErr *evaluator.ModeDisabledError
	assert.ErrorAs(t, err, &disabledErr)
}

func TestTranscribe_EmptyTranscriptIsMalformed(t *testing.T) {
	llm := &fakeLLM{mediaResponse: "   "}
	client := New(liveConfig(), llm)

	_, err := client.Transcribe(context.Background(), []byte("clip"), "video/webm")
	var malformed *evaluator.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestScore_Live(t *testing.T) {
	llm := &fakeLLM{textResponse: `{"technical_score": 85, "technical_feedback": ["Clear explanation.", "Discuss trade-offs."]}`}
	client := New(liveConfig(), llm)

	result, err := client.Score(context.Background(), "Explain binary search.", "It halves the range [PAUSE] each step.")
	require.NoError(t, err)
	assert.Equal(t, "technical-model", llm.lastTextModel)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, []string{"Clear explanation.", "Discuss trade-offs."}, result.Feedback)
	assert.Equal(t, "It halves the range [PAUSE] each step.", result.Transcript)
	assert.Contains(t, result.Raw, "technical_score")
}

func TestScore_ToleratesProseWrapping(t *testing.T) {
	llm := &fakeLLM{textResponse: "Here you go:\n```json\n{\"technical_score\": 60, \"technical_feedback\": [\"a\", \"b\"]}\n```"}
	client := New(liveConfig(), llm)

	result, err := client.Score(context.Background(), "q", "t")
	require.NoError(t, err)
	assert.Equal(t, 60, result.Score)
}

func TestScore_MalformedResponseKeepsRaw(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose only", response: "I cannot evaluate this response."},
		{name: "missing feedback", response: `{"technical_score": 50}`},
		{name: "wrong feedback arity", response: `{"technical_score": 50, "technical_feedback": ["only one"]}`},
		{name: "non-numeric score", response: `{"technical_score": "eighty", "technical_feedback": ["a", "b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{textResponse: tt.response}
			client := New(liveConfig(), llm)

			_, err := client.Score(context.Background(), "q", "t")
			var malformed *evaluator.MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.response, malformed.Raw, "raw text is never dropped")
		})
	}
}

func TestScore_MissingInputs(t *testing.T) {
	client := New(liveConfig(), &fakeLLM{})

	_, err := client.Score(context.Background(), "", "transcript")
	var inputErr *evaluator.InputError
	assert.ErrorAs(t, err, &inputErr)

	_, err = client.Score(context.Background(), "question", "")
	assert.ErrorAs(t, err, &inputErr)
}

func TestScore_TransportError(t *testing.T) {
	llm := &fakeLLM{textErr: errors.New("rate limited")}
	client := New(liveConfig(), llm)

	_, err := client.Score(context.Background(), "q", "t")
	var transportErr *evaluator.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorContains(t, err, "rate limited")
}

func TestEvaluate_CombinesStages(t *testing.T) {
	llm := &fakeLLM{
		mediaResponse: "My answer [FILLER] is complete.",
		textResponse:  `{"technical_score": 90, "technical_feedback": ["a", "b"]}`,
	}
	client := New(liveConfig(), llm)

	result, err := client.Evaluate(context.Background(), []byte("clip"), "video/webm", "q")
	require.NoError(t, err)
	assert.Equal(t, 90, result.Score)
	assert.True(t, strings.Contains(result.Transcript, "[FILLER]"))
	assert.Equal(t, 1, llm.mediaCalls)
	assert.Equal(t, 1, llm.textCalls)
}
