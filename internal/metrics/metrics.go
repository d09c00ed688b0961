// Package metrics derives delivery metrics from transcript markers.
// The transcription prompt instructs the model to tag long pauses and filler
// words inline; counting those markers here keeps the marker spellings a
// single point of change.
package metrics

import "strings"

// Marker spellings emitted by the transcription step. The filler marker has
// appeared with two spellings across prompt revisions; both count as the
// same evidence.
const (
	PauseMarker       = "[PAUSE]"
	FillerMarker      = "[FILLER]"
	FillerMarkerAlias = "[FILLER_WORD]"
)

// Counts holds the disfluency counts derived from one transcript.
type Counts struct {
	Pauses      int `json:"pause_count"`
	FillerWords int `json:"filler_word_count"`
}

// DeriveCounts counts non-overlapping marker occurrences in a transcript.
// It is a pure function of its input.
func DeriveCounts(transcript string) Counts {
	return Counts{
		Pauses: strings.Count(transcript, PauseMarker),
		FillerWords: strings.Count(transcript, FillerMarker) +
			strings.Count(transcript, FillerMarkerAlias),
	}
}

// AdjustConfidence discounts a raw confidence score by observed disfluency:
// adjusted = max(1, raw - (pauses+fillers)/2). Floor division avoids
// over-penalizing a single slip; the floor of 1 keeps the score non-degenerate
// for display. This is a tunable policy, not a hard rule.
func AdjustConfidence(rawScore, pauseCount, fillerWordCount int) int {
	adjusted := rawScore - (pauseCount+fillerWordCount)/2
	if adjusted < 1 {
		return 1
	}
	return adjusted
}
