// Package pipeline orchestrates one evaluation run: the audio/technical path
// and the video/confidence path execute concurrently, each stage's status is
// tracked independently, and a history entry is written only when every stage
// succeeds.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/types"
)

// Stage names one tracked step of a run.
type Stage string

const (
	// StageTranscription converts the clip's audio to marked-up text.
	StageTranscription Stage = "transcription"
	// StageTechnical scores the transcript for technical correctness.
	StageTechnical Stage = "technical"
	// StageConfidence scores delivery and confidence from the video.
	StageConfidence Stage = "confidence"
)

// StageStatus is the lifecycle of a single stage within one run.
type StageStatus string

const (
	// StatusIdle means the stage has not started.
	StatusIdle StageStatus = "idle"
	// StatusRunning means the stage is in flight.
	StatusRunning StageStatus = "running"
	// StatusSuccess means the stage produced its result.
	StatusSuccess StageStatus = "success"
	// StatusError means the stage failed; Err holds the cause.
	StatusError StageStatus = "error"
)

// StageState pairs a status with the error that produced it, if any.
type StageState struct {
	Status StageStatus
	Err    error
}

// AudioEvaluator is the audio/transcript-oriented upstream client.
type AudioEvaluator interface {
	Transcribe(ctx context.Context, clip []byte, mimeType string) (string, error)
	Score(ctx context.Context, question, transcript string) (*types.TechnicalResult, error)
}

// ConfidenceEvaluator is the video-oriented upstream client.
type ConfidenceEvaluator interface {
	Evaluate(ctx context.Context, clip []byte) (*types.ConfidenceResult, error)
}

// HistorySink receives one entry per fully successful run.
type HistorySink interface {
	Append(entry types.HistoryEntry) error
}

// ProgressEvent reports a stage transition during a run.
type ProgressEvent struct {
	Stage   Stage       `json:"stage"`
	Status  StageStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

// ProgressCallback is invoked on stage transitions.
type ProgressCallback func(event ProgressEvent)

// DerivedMetrics are computed from the validated results of both paths.
type DerivedMetrics struct {
	PauseCount         int `json:"pause_count"`
	FillerWordCount    int `json:"filler_word_count"`
	AdjustedConfidence int `json:"adjusted_confidence_score"`
}

// Outcome is the resolution of one run. Technical and Confidence carry
// whatever succeeded even when the other stage failed, so callers can show
// partial results. Derived is set only on full success.
type Outcome struct {
	Stages     map[Stage]StageState
	Transcript string
	Technical  *types.TechnicalResult
	Confidence *types.ConfidenceResult
	Derived    *DerivedMetrics
}

// Succeeded reports whether every stage reached success.
func (o *Outcome) Succeeded() bool {
	for _, stage := range []Stage{StageTranscription, StageTechnical, StageConfidence} {
		if o.Stages[stage].Status != StatusSuccess {
			return false
		}
	}
	return true
}

// FirstError returns the first stage error in stage order, or nil.
func (o *Outcome) FirstError() error {
	for _, stage := range []Stage{StageTranscription, StageTechnical, StageConfidence} {
		if err := o.Stages[stage].Err; err != nil {
			return err
		}
	}
	return nil
}

// Orchestrator runs evaluation pipelines.
type Orchestrator struct {
	audio      AudioEvaluator
	confidence ConfidenceEvaluator
	history    HistorySink
	onProgress ProgressCallback

	// mu guards stage-state writes; the two paths touch disjoint stages but
	// share the outcome's stage map.
	mu sync.Mutex
}

// New creates an orchestrator. history may be nil, in which case successful
// runs are not recorded.
func New(audio AudioEvaluator, confidence ConfidenceEvaluator, history HistorySink) *Orchestrator {
	return &Orchestrator{audio: audio, confidence: confidence, history: history}
}

// OnProgress registers a callback for stage transitions.
func (o *Orchestrator) OnProgress(cb ProgressCallback) {
	o.onProgress = cb
}

// Run evaluates one clip against one prompt. The two paths run concurrently
// and neither aborts the other: a stage failure is recorded in the outcome
// while the remaining path runs to completion. Runs are not idempotent:
// every call is a fresh upstream evaluation.
func (o *Orchestrator) Run(ctx context.Context, req types.EvaluationRequest) *Outcome {
	outcome := &Outcome{
		Stages: map[Stage]StageState{
			StageTranscription: {Status: StatusIdle},
			StageTechnical:     {Status: StatusIdle},
			StageConfidence:    {Status: StatusIdle},
		},
	}

	// Plain errgroup, no shared cancelation: the confidence path includes a
	// multi-second polling loop and must not be torn down by a transcript
	// failure (or vice versa).
	var g errgroup.Group

	g.Go(func() error {
		o.runAudioPath(ctx, req, outcome)
		return nil
	})

	g.Go(func() error {
		o.runConfidencePath(ctx, req, outcome)
		return nil
	})

	_ = g.Wait()

	if outcome.Succeeded() {
		counts := metrics.DeriveCounts(outcome.Transcript)
		outcome.Derived = &DerivedMetrics{
			PauseCount:         counts.Pauses,
			FillerWordCount:    counts.FillerWords,
			AdjustedConfidence: metrics.AdjustConfidence(outcome.Confidence.Score, counts.Pauses, counts.FillerWords),
		}
		o.recordHistory(req, outcome)
	}

	return outcome
}

// runAudioPath executes transcription then technical scoring sequentially.
func (o *Orchestrator) runAudioPath(ctx context.Context, req types.EvaluationRequest, outcome *Outcome) {
	o.setStage(outcome, StageTranscription, StageState{Status: StatusRunning})

	transcript, err := o.audio.Transcribe(ctx, req.Clip, req.MimeType)
	if err != nil {
		o.setStage(outcome, StageTranscription, StageState{Status: StatusError, Err: err})
		return
	}
	outcome.Transcript = transcript
	o.setStage(outcome, StageTranscription, StageState{Status: StatusSuccess})

	o.setStage(outcome, StageTechnical, StageState{Status: StatusRunning})
	technical, err := o.audio.Score(ctx, req.Prompt, transcript)
	if err != nil {
		o.setStage(outcome, StageTechnical, StageState{Status: StatusError, Err: err})
		return
	}
	outcome.Technical = technical
	o.setStage(outcome, StageTechnical, StageState{Status: StatusSuccess})
}

// runConfidencePath executes the video evaluation.
func (o *Orchestrator) runConfidencePath(ctx context.Context, req types.EvaluationRequest, outcome *Outcome) {
	o.setStage(outcome, StageConfidence, StageState{Status: StatusRunning})

	confidence, err := o.confidence.Evaluate(ctx, req.Clip)
	if err != nil {
		o.setStage(outcome, StageConfidence, StageState{Status: StatusError, Err: err})
		return
	}
	outcome.Confidence = confidence
	o.setStage(outcome, StageConfidence, StageState{Status: StatusSuccess})
}

// recordHistory appends exactly one entry for a fully successful run.
func (o *Orchestrator) recordHistory(req types.EvaluationRequest, outcome *Outcome) {
	if o.history == nil {
		return
	}
	entry := types.HistoryEntry{
		Timestamp:       time.Now().UTC(),
		Prompt:          req.Prompt,
		Category:        req.Category,
		ConfidenceScore: outcome.Confidence.Score,
		TechnicalScore:  outcome.Technical.Score,
		PauseCount:      outcome.Derived.PauseCount,
		FillerWordCount: outcome.Derived.FillerWordCount,
	}
	if err := o.history.Append(entry); err != nil {
		// History is a trend display, not a source of truth; a failed write
		// must not fail an otherwise successful evaluation.
		o.emit(ProgressEvent{Stage: StageConfidence, Status: StatusSuccess,
			Message: fmt.Sprintf("history write failed: %v", err)})
	}
}

// setStage records a transition and notifies the progress callback.
// The callback may be invoked from either path's goroutine.
func (o *Orchestrator) setStage(outcome *Outcome, stage Stage, state StageState) {
	o.mu.Lock()
	outcome.Stages[stage] = state
	o.mu.Unlock()
	event := ProgressEvent{Stage: stage, Status: state.Status}
	if state.Err != nil {
		event.Message = state.Err.Error()
	}
	o.emit(event)
}

func (o *Orchestrator) emit(event ProgressEvent) {
	if o.onProgress != nil {
		o.onProgress(event)
	}
}
