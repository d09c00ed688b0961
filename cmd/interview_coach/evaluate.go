package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/history"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/transcription"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/jonathan/interview-coach/internal/video"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a recorded answer from a file",
	Long: `Run the full evaluation pipeline on a recorded clip: transcription with
pause/filler markers, technical scoring against the question, and video-based
confidence feedback. Fully successful runs are added to session history.`,
	RunE: runEvaluate,
}

var (
	evaluateFile     string
	evaluateQuestion string
	evaluateCategory string
	evaluateMime     string
	evaluateVerbose  bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "Path to the recorded clip (required)")
	evaluateCmd.Flags().StringVarP(&evaluateQuestion, "question", "q", "", "Interview question the clip answers (required)")
	evaluateCmd.Flags().StringVarP(&evaluateCategory, "category", "c", "", "Question category for history display")
	evaluateCmd.Flags().StringVar(&evaluateMime, "mime-type", "", "Clip mime type (defaults to "+transcription.DefaultMimeType+")")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "Print stage transitions as they happen")

	_ = evaluateCmd.MarkFlagRequired("file")
	_ = evaluateCmd.MarkFlagRequired("question")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	clip, err := os.ReadFile(evaluateFile)
	if err != nil {
		return fmt.Errorf("failed to read clip: %w", err)
	}

	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" && !cfg.AICallsDisabled {
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer func() { _ = llmClient.Close() }()
	}

	historyStore, err := history.Open(cfg.HistoryPath, cfg.HistoryCap)
	if err != nil {
		return err
	}
	defer func() { _ = historyStore.Close() }()

	orch := pipeline.New(transcription.New(cfg, llmClient), video.New(cfg), historyStore)
	if evaluateVerbose {
		orch.OnProgress(func(event pipeline.ProgressEvent) {
			if event.Message != "" {
				fmt.Printf("[%s] %s: %s\n", event.Stage, event.Status, event.Message)
				return
			}
			fmt.Printf("[%s] %s\n", event.Stage, event.Status)
		})
	}

	outcome := orch.Run(ctx, types.EvaluationRequest{
		Clip:     clip,
		MimeType: evaluateMime,
		Prompt:   evaluateQuestion,
		Category: evaluateCategory,
	})

	observability.NewPrinter(os.Stdout).PrintOutcome(outcome)

	// A run with nothing to show fails the command; partial results exit 0.
	if outcome.Technical == nil && outcome.Confidence == nil {
		return outcome.FirstError()
	}
	return nil
}
