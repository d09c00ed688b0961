// Package evaluator defines the error taxonomy shared by the upstream
// evaluation clients. Every error carries enough context for a human to
// diagnose it; malformed-response errors always keep the raw upstream text.
package evaluator

import (
	"fmt"
	"time"
)

// InputError indicates a bad or missing clip. Terminal, reported without retry.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// PayloadTooLargeError indicates the clip exceeds the configured upload limit.
type PayloadTooLargeError struct {
	SizeBytes int64
	MaxBytes  int64
}

func (e *PayloadTooLargeError) Error() string {
	sizeMB := (e.SizeBytes + 1024*1024 - 1) / (1024 * 1024)
	return fmt.Sprintf("clip is too large (%dMB); max allowed is %dMB. Shorten the clip or lower quality",
		sizeMB, e.MaxBytes/(1024*1024))
}

// CredentialError indicates a required API key is missing from configuration.
type CredentialError struct {
	Name string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("missing %s in the environment", e.Name)
}

// ModeDisabledError indicates the stage's mode switch disables it entirely.
type ModeDisabledError struct {
	Stage string
	Hint  string
}

func (e *ModeDisabledError) Error() string {
	return fmt.Sprintf("%s mode is disabled. %s", e.Stage, e.Hint)
}

// TransportError wraps a network or HTTP failure reaching an upstream service.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError indicates the upstream response failed JSON
// extraction or required-field validation. Raw is never dropped.
type MalformedResponseError struct {
	Stage string
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s response was not usable: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s response was not usable", e.Stage)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IndexingFailedError indicates the upstream indexing job reported failure.
// Terminal for the confidence stage only.
type IndexingFailedError struct {
	JobID string
}

func (e *IndexingFailedError) Error() string {
	return "indexing failed"
}

// IndexingTimedOutError indicates the job never reached a terminal state
// within the attempt budget.
type IndexingTimedOutError struct {
	JobID  string
	Budget time.Duration
}

func (e *IndexingTimedOutError) Error() string {
	return fmt.Sprintf("indexing timed out after %s", e.Budget)
}
