// Package types defines the shared domain types for the evaluation pipeline.
package types

import "time"

// EvaluationRequest carries one recorded answer through a single pipeline run.
// It is immutable once constructed and discarded when the run completes.
type EvaluationRequest struct {
	Clip     []byte
	MimeType string
	Prompt   string
	Category string
}

// TechnicalResult is the outcome of the audio/technical evaluation stage.
type TechnicalResult struct {
	Score      int      `json:"technical_score" validate:"gte=0,lte=100"`
	Feedback   []string `json:"technical_feedback" validate:"len=2,dive,required"`
	Transcript string   `json:"-"`
	Raw        string   `json:"-"`
}

// ConfidenceResult is the outcome of the video/confidence evaluation stage.
// PauseCount and FillerWordCount are optional hints from the upstream model;
// the pipeline derives its own counts from the transcript.
type ConfidenceResult struct {
	Score           int      `json:"confidence_score" validate:"gte=0,lte=10"`
	Feedback        []string `json:"confidence_feedback" validate:"min=1,max=2,dive,required"`
	PauseCount      *int     `json:"pause_count,omitempty"`
	FillerWordCount *int     `json:"filler_word_count,omitempty"`
	Raw             string   `json:"-"`
}

// HistoryEntry summarizes one fully successful pipeline run.
type HistoryEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	Prompt          string    `json:"prompt"`
	Category        string    `json:"category"`
	ConfidenceScore int       `json:"confidence_score"`
	TechnicalScore  int       `json:"technical_score"`
	PauseCount      int       `json:"pause_count"`
	FillerWordCount int       `json:"filler_word_count"`
}
