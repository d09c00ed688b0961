// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// transcriptPreviewLen caps how much transcript is echoed
	transcriptPreviewLen = 240
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutcome outputs a human-readable summary of one pipeline run.
func (p *Printer) PrintOutcome(outcome *pipeline.Outcome) {
	if outcome == nil {
		return
	}

	var sb strings.Builder

	for _, stage := range []pipeline.Stage{pipeline.StageTranscription, pipeline.StageTechnical, pipeline.StageConfidence} {
		state := outcome.Stages[stage]
		sb.WriteString(fmt.Sprintf("%-14s %s\n", stage+":", state.Status))
		if state.Err != nil {
			sb.WriteString(fmt.Sprintf("  error: %v\n", state.Err))
		}
	}

	if outcome.Technical != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical score: %d/100\n", outcome.Technical.Score))
		for _, point := range outcome.Technical.Feedback {
			sb.WriteString(fmt.Sprintf("  • %s\n", point))
		}
	}

	if outcome.Confidence != nil {
		sb.WriteString(fmt.Sprintf("\nConfidence score: %d/10\n", outcome.Confidence.Score))
		for _, point := range outcome.Confidence.Feedback {
			sb.WriteString(fmt.Sprintf("  • %s\n", point))
		}
	}

	if outcome.Derived != nil {
		sb.WriteString(fmt.Sprintf("\nPauses: %d  Fillers: %d  Adjusted confidence: %d/10\n",
			outcome.Derived.PauseCount, outcome.Derived.FillerWordCount, outcome.Derived.AdjustedConfidence))
	}

	if outcome.Transcript != "" {
		preview := outcome.Transcript
		if len(preview) > transcriptPreviewLen {
			preview = preview[:transcriptPreviewLen] + "..."
		}
		sb.WriteString("\nTranscript:\n")
		sb.WriteString(preview)
		sb.WriteString("\n")
	}

	p.printBox("Evaluation Result", sb.String())
}

// PrintHistory outputs the stored session history, most recent last.
func (p *Printer) PrintHistory(entries []types.HistoryEntry) {
	if len(entries) == 0 {
		p.printBox("Session History", "No sessions recorded yet.")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  [%s]\n", e.Timestamp.Format("2006-01-02 15:04"), e.Category))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Prompt))
		sb.WriteString(fmt.Sprintf("  tech %d/100  conf %d/10  pauses %d  fillers %d\n",
			e.TechnicalScore, e.ConfidenceScore, e.PauseCount, e.FillerWordCount))
	}

	p.printBox("Session History", sb.String())
}
