package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/recording"
	"github.com/jonathan/interview-coach/internal/types"
)

// multipartSlack leaves room for form field overhead beyond the clip limit so
// oversized clips reach the typed size check instead of a connection reset.
const multipartSlack = 1 << 20

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps an evaluation error onto a status code and JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorBody(err))
}

// writeBadRequest reports a request-shape problem before any evaluation runs.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// readClip extracts the uploaded clip from a multipart form. The returned mime
// type comes from the part header, falling back to the client default. Errors
// are typed so writeError maps them to the right status class.
func (s *Server) readClip(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+multipartSlack)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes() + multipartSlack); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, "", &evaluator.PayloadTooLargeError{SizeBytes: maxBytesErr.Limit, MaxBytes: s.cfg.MaxUploadBytes()}
		}
		return nil, "", &evaluator.InputError{Message: fmt.Sprintf("invalid multipart form: %v", err)}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", &evaluator.InputError{Message: "missing 'file' form field"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", &evaluator.InputError{Message: fmt.Sprintf("failed to read uploaded file: %v", err)}
	}

	return data, clipMimeType(header), nil
}

func clipMimeType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return ""
}

// handleTranscribe runs transcription alone and returns the marked-up text.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	clip, mimeType, err := s.readClip(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	transcript, err := s.audio.Transcribe(r.Context(), clip, mimeType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": transcript})
}

// technicalResponse is the payload for a transcript-plus-score evaluation.
type technicalResponse struct {
	Transcript      string                 `json:"transcript"`
	PauseCount      int                    `json:"pause_count"`
	FillerWordCount int                    `json:"filler_word_count"`
	Technical       *types.TechnicalResult `json:"technical"`
	Raw             string                 `json:"raw"`
}

// handleTechnical transcribes the clip and scores the transcript against the
// submitted question in one request.
func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	clip, mimeType, err := s.readClip(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	question := r.FormValue("question")
	if question == "" {
		writeBadRequest(w, "missing 'question' form field")
		return
	}

	result, err := s.audio.Evaluate(r.Context(), clip, mimeType, question)
	if err != nil {
		writeError(w, err)
		return
	}

	counts := metrics.DeriveCounts(result.Transcript)
	writeJSON(w, http.StatusOK, technicalResponse{
		Transcript:      result.Transcript,
		PauseCount:      counts.Pauses,
		FillerWordCount: counts.FillerWords,
		Technical:       result,
		Raw:             result.Raw,
	})
}

// handleFeedback runs the video/confidence evaluation alone.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	clip, _, err := s.readClip(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.videoClient.Evaluate(r.Context(), clip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feedback": result,
		"raw":      result.Raw,
	})
}

// stageView is the wire form of one stage's resolution.
type stageView struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// evaluateResponse is the payload for a full pipeline run. Partial failures
// still carry whatever succeeded.
type evaluateResponse struct {
	Stages     map[string]stageView     `json:"stages"`
	Transcript string                   `json:"transcript,omitempty"`
	Technical  *types.TechnicalResult   `json:"technical,omitempty"`
	Confidence *types.ConfidenceResult  `json:"confidence,omitempty"`
	Derived    *pipeline.DerivedMetrics `json:"derived,omitempty"`
}

// handleEvaluate runs the full concurrent pipeline for one clip.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	clip, mimeType, err := s.readClip(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	question := r.FormValue("question")
	if question == "" {
		writeBadRequest(w, "missing 'question' form field")
		return
	}

	outcome := s.pipeline.Run(r.Context(), types.EvaluationRequest{
		Clip:     clip,
		MimeType: mimeType,
		Prompt:   question,
		Category: r.FormValue("category"),
	})

	resp := evaluateResponse{
		Stages:     make(map[string]stageView, len(outcome.Stages)),
		Transcript: outcome.Transcript,
		Technical:  outcome.Technical,
		Confidence: outcome.Confidence,
		Derived:    outcome.Derived,
	}
	for stage, state := range outcome.Stages {
		view := stageView{Status: string(state.Status)}
		if state.Err != nil {
			view.Error = state.Err.Error()
		}
		resp.Stages[string(stage)] = view
	}

	// A partial result is still a result. Only a run with nothing to show
	// reports the failure class of its first error.
	status := http.StatusOK
	if outcome.Technical == nil && outcome.Confidence == nil {
		if first := outcome.FirstError(); first != nil {
			status = statusForError(first)
		}
	}
	writeJSON(w, status, resp)
}

// handleListHistory returns all stored sessions, most recent last.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// handleClearHistory deletes every stored session.
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveRecording stores the request body as the latest clip.
func (s *Server) handleSaveRecording(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, &evaluator.PayloadTooLargeError{SizeBytes: maxBytesErr.Limit, MaxBytes: s.cfg.MaxUploadBytes()})
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}
	if len(data) == 0 {
		writeBadRequest(w, "empty recording")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "video/webm"
	}

	if err := s.recordings.Save(data, mimeType); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadRecording streams back the latest clip with its stored mime type.
func (s *Server) handleLoadRecording(w http.ResponseWriter, r *http.Request) {
	clip, err := s.recordings.Load()
	if errors.Is(err, recording.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no recording stored"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", clip.MimeType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(clip.Data); err != nil {
		log.Printf("Failed to write recording response: %v", err)
	}
}

// handleClearRecording deletes the latest clip. Idempotent.
func (s *Server) handleClearRecording(w http.ResponseWriter, r *http.Request) {
	if err := s.recordings.Clear(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQuestions returns the question bank, optionally filtered by category.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		set := findQuestionSet(category)
		if set == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category: " + category})
			return
		}
		writeJSON(w, http.StatusOK, set)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sets": questionSets})
}

// handleHealth reports liveness and which stages would run live.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"modes": map[string]string{
			"transcribe": s.cfg.GeminiTranscribeMode,
			"technical":  s.cfg.GeminiTechnicalMode,
			"feedback":   s.cfg.FeedbackMode,
		},
	})
}
