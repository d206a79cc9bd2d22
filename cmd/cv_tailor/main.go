// Package main provides the cv_tailor command line: one-shot tailoring, the individual
// analysis stages, and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "cv_tailor",
		Short: "Tailor a candidate profile to a job description",
		Long: `cv_tailor selects, reorders and optionally rewrites a candidate's experiences and skills
for one job description, reporting requirement coverage and questions for the candidate.

Configuration is read from --config, or cv-tailor.{json,yaml} in the working directory,
and CV_TAILOR_* environment variables. Flags override both.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a cv-tailor config file (json or yaml)")

	root.AddCommand(
		newTailorCmd(&configPath),
		newAnalyzeCmd(&configPath),
		newMatchCmd(&configPath),
		newClassifyCmd(&configPath),
		newServeCmd(&configPath),
		newTokenCmd(&configPath),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
