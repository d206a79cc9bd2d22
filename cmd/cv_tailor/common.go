package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/config"
	"github.com/jonathan/cv-tailor/internal/db"
	"github.com/jonathan/cv-tailor/internal/ingestion"
	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/types"
)

// modelFlags are shared by every command that may call the model.
type modelFlags struct {
	apiKey  string
	verbose bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API key (defaults to CV_TAILOR_API_KEY or GEMINI_API_KEY)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print each stage's output and debug logs to stderr")
}

// loadConfig reads the config file and environment, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command, path string, flags *modelFlags) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags != nil {
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = flags.apiKey
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = flags.verbose
		}
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newLogger builds the stderr logger; it only logs warnings unless verbose.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !cfg.Verbose {
		log = log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	return log, nil
}

// newClient returns the configured model client. Without an API key the client is
// unconfigured and only heuristic paths work.
func newClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Client, error) {
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if !client.IsConfigured() {
		log.Info("no API key configured; LLM-backed stages are unavailable")
	}
	return client, nil
}

func errRequired(flag string) error {
	return fmt.Errorf("--%s is required", flag)
}

// readJob reads a job description file, plain text or HTML.
func readJob(path string) (string, error) {
	if path == "" {
		return "", errRequired("job")
	}
	return ingestion.ReadJobFile(path)
}

func readProfile(path string) (*types.Profile, error) {
	if path == "" {
		return nil, errRequired("profile")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	profile, err := db.DecodeProfile(content)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return profile, nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	var out io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if path != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	}
	return nil
}
