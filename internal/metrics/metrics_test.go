package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCounts(t *testing.T) {
	tests := []struct {
		name        string
		transcript  string
		wantPauses  int
		wantFillers int
	}{
		{
			name:       "empty transcript",
			transcript: "",
		},
		{
			name:       "no markers",
			transcript: "I would start by profiling the service.",
		},
		{
			name:        "mixed markers",
			transcript:  "So [FILLER] I think [PAUSE] binary search is [FILLER] logarithmic.",
			wantPauses:  1,
			wantFillers: 2,
		},
		{
			name:        "alias spelling counts as filler",
			transcript:  "Well [FILLER_WORD] it depends [PAUSE] on the [FILLER_WORD] load.",
			wantPauses:  1,
			wantFillers: 2,
		},
		{
			name:        "both spellings combined",
			transcript:  "[FILLER] um [FILLER_WORD] so [FILLER]",
			wantFillers: 3,
		},
		{
			name:        "adjacent markers",
			transcript:  "[PAUSE][PAUSE][FILLER][FILLER]",
			wantPauses:  2,
			wantFillers: 2,
		},
		{
			name:       "lowercase markers are not counted",
			transcript: "[pause] and [filler] stay untouched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := DeriveCounts(tt.transcript)
			assert.Equal(t, tt.wantPauses, counts.Pauses)
			assert.Equal(t, tt.wantFillers, counts.FillerWords)
		})
	}
}

func TestDeriveCounts_Pure(t *testing.T) {
	transcript := "Um [FILLER] let me [PAUSE] think."
	first := DeriveCounts(transcript)
	second := DeriveCounts(transcript)
	assert.Equal(t, first, second)
}

func TestDeriveCounts_RepeatedMarker(t *testing.T) {
	transcript := strings.Repeat("word [PAUSE] ", 7)
	counts := DeriveCounts(transcript)
	assert.Equal(t, 7, counts.Pauses)
	assert.Zero(t, counts.FillerWords)
}

func TestAdjustConfidence(t *testing.T) {
	tests := []struct {
		name     string
		raw      int
		pauses   int
		fillers  int
		expected int
	}{
		{name: "no disfluency keeps raw score", raw: 10, pauses: 0, fillers: 0, expected: 10},
		{name: "floor division", raw: 10, pauses: 3, fillers: 3, expected: 7},
		{name: "single slip is free", raw: 8, pauses: 1, fillers: 0, expected: 8},
		{name: "clamped to one", raw: 2, pauses: 10, fillers: 10, expected: 1},
		{name: "exact floor", raw: 5, pauses: 4, fillers: 4, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AdjustConfidence(tt.raw, tt.pauses, tt.fillers))
		})
	}
}
