package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/config"
	"github.com/jonathan/cv-tailor/internal/db"
	"github.com/jonathan/cv-tailor/internal/pipeline"
	"github.com/jonathan/cv-tailor/internal/server"
	"github.com/jonathan/cv-tailor/internal/server/ratelimit"
)

type serveOptions struct {
	modelFlags
	port        int
	databaseURL string
	noRateLimit bool
}

func newServeCmd(configPath *string) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server exposing POST /tailor, POST /tailor/stream and, when a database
is configured, POST /profiles/{id}/tailor. Bearer auth is enabled when jwt_secret is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, *configPath, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&opts.databaseURL, "db-url", "", "PostgreSQL connection URL for stored profiles (defaults to CV_TAILOR_DATABASE_URL)")
	cmd.Flags().BoolVar(&opts.noRateLimit, "no-rate-limit", false, "Disable per-client rate limiting")
	opts.register(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, opts *serveOptions) error {
	cfg, err := loadConfig(cmd, configPath, &opts.modelFlags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.port
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = opts.databaseURL
	}
	if opts.noRateLimit {
		cfg.RateLimit.Enabled = false
	}

	jwtCfg, err := cfg.JWT()
	if err != nil {
		return fmt.Errorf("invalid jwt configuration: %w", err)
	}

	// The server always logs at info or above.
	log, err := newLogger(&config.Config{LogJSON: cfg.LogJSON, Verbose: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	opt := server.Options{
		Port: cfg.Port,
		Pipeline: pipeline.Deps{
			LLM:                 client,
			Logger:              log,
			SemanticConcurrency: cfg.SemanticConcurrency,
		},
		RateLimit: ratelimit.ForTailoring(cfg.RateLimit.Enabled, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		JWT:       jwtCfg,
		Logger:    log,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		opt.Profiles = database
	} else {
		log.Info("no database configured; stored-profile tailoring is disabled")
	}

	log.Info("starting cv_tailor server",
		zap.Int("port", cfg.Port),
		zap.Bool("llm_configured", client.IsConfigured()),
		zap.Bool("auth", jwtCfg != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled))
	return server.New(opt).Start(ctx)
}
