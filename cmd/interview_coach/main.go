// Package main provides the entry point for the Interview Coach server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_coach",
	Short: "Interview Coach evaluation server",
	Long:  "Interview Coach evaluates recorded interview answers: it transcribes and scores the answer's technical content with Gemini and rates delivery confidence from the video, concurrently, via REST API or CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
