package main

import (
	"os"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/history"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the session history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every stored session")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryPath, cfg.HistoryCap)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyClear {
		return store.Clear()
	}

	entries, err := store.List()
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintHistory(entries)
	return nil
}
