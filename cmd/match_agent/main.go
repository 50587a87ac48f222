// Package main provides the entry point for the talent graph matching engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_agent",
	Short: "Candidate-to-job matching engine",
	Long:  "match_agent scores candidates against job requirements over a per-candidate capability graph, with semantic evidence retrieval, cached match previews, and recruiter feedback that durably adjusts edge weights.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
