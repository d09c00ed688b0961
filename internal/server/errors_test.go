package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/video"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad input", err: &evaluator.InputError{Message: "no clip"}, want: http.StatusBadRequest},
		{name: "oversized clip", err: &evaluator.PayloadTooLargeError{SizeBytes: 1, MaxBytes: 1}, want: http.StatusRequestEntityTooLarge},
		{name: "missing credential", err: &evaluator.CredentialError{Name: "GEMINI_API_KEY"}, want: http.StatusInternalServerError},
		{name: "mode disabled", err: &evaluator.ModeDisabledError{Stage: "Feedback"}, want: http.StatusServiceUnavailable},
		{name: "indexing timed out", err: &evaluator.IndexingTimedOutError{Budget: time.Minute}, want: http.StatusGatewayTimeout},
		{name: "indexing failed", err: &evaluator.IndexingFailedError{JobID: "job-1"}, want: http.StatusBadGateway},
		{name: "malformed response", err: &evaluator.MalformedResponseError{Stage: "technical"}, want: http.StatusBadGateway},
		{name: "transport failure", err: &evaluator.TransportError{Op: "analyze", Cause: errors.New("boom")}, want: http.StatusBadGateway},
		{name: "index creation", err: &video.IndexCreationError{}, want: http.StatusBadGateway},
		{name: "upload", err: &video.UploadError{}, want: http.StatusBadGateway},
		{name: "indexed asset", err: &video.IndexedAssetError{}, want: http.StatusBadGateway},
		{name: "unknown", err: errors.New("anything else"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestErrorBody_KeepsRawForMalformedResponses(t *testing.T) {
	err := &evaluator.MalformedResponseError{Stage: "technical", Raw: "I refuse to answer in JSON."}

	body := errorBody(err)
	assert.Equal(t, "I refuse to answer in JSON.", body["raw"])
	assert.NotEmpty(t, body["error"])
}

func TestErrorBody_PlainErrors(t *testing.T) {
	body := errorBody(&evaluator.InputError{Message: "no clip"})
	assert.Equal(t, "no clip", body["error"])
	assert.NotContains(t, body, "raw")
}
