package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/video"
)

// statusForError maps the evaluator error taxonomy onto HTTP status codes.
// Anything unrecognized is an internal error.
func statusForError(err error) int {
	var (
		inputErr     *evaluator.InputError
		tooLarge     *evaluator.PayloadTooLargeError
		credErr      *evaluator.CredentialError
		disabledErr  *evaluator.ModeDisabledError
		transportErr *evaluator.TransportError
		malformedErr *evaluator.MalformedResponseError
		idxFailed    *evaluator.IndexingFailedError
		idxTimedOut  *evaluator.IndexingTimedOutError
		idxCreate    *video.IndexCreationError
		uploadErr    *video.UploadError
		indexedErr   *video.IndexedAssetError
	)

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &credErr):
		return http.StatusInternalServerError
	case errors.As(err, &disabledErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &idxTimedOut):
		return http.StatusGatewayTimeout
	case errors.As(err, &idxFailed),
		errors.As(err, &malformedErr),
		errors.As(err, &transportErr),
		errors.As(err, &idxCreate),
		errors.As(err, &uploadErr),
		errors.As(err, &indexedErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the error payload. Malformed upstream responses carry the
// raw model text so the caller can inspect what came back.
func errorBody(err error) map[string]string {
	body := map[string]string{"error": err.Error()}

	var malformedErr *evaluator.MalformedResponseError
	if errors.As(err, &malformedErr) && malformedErr.Raw != "" {
		body["raw"] = malformedErr.Raw
	}
	return body
}
