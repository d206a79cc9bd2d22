package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-tailor/internal/extracontext"
	"github.com/jonathan/cv-tailor/internal/parsing"
	"github.com/jonathan/cv-tailor/internal/skills"
)

type stageOptions struct {
	modelFlags
	profile  string
	job      string
	context  string
	out      string
	semantic bool
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	opts := &stageOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract structured requirements from a job description",
		Long:  "Runs the requirement analyzer alone. Without a model the keyword heuristic is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath, &opts.modelFlags)
			if err != nil {
				return err
			}
			jobText, err := readJob(opts.job)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			directive := ""
			if opts.context != "" {
				analysis := extracontext.Classify(cmd.Context(), client, opts.context, jobText, log)
				directive = extracontext.Directive(analysis, opts.context)
			}
			return writeJSON(cmd, opts.out, parsing.Analyze(cmd.Context(), client, jobText, directive, log))
		},
	}
	cmd.Flags().StringVarP(&opts.job, "job", "j", "", "Path to the job description text file")
	cmd.Flags().StringVar(&opts.context, "context", "", "Additional context; directives steer the analysis")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (defaults to stdout)")
	opts.register(cmd)
	return cmd
}

func newMatchCmd(configPath *string) *cobra.Command {
	opts := &stageOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Map profile skills to job requirements",
		Long: `Runs requirement analysis and the three-tier skill matcher. Raw text and technical term
matches need no model; --semantic makes an unavailable model an error instead of skipping
the semantic tier.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath, &opts.modelFlags)
			if err != nil {
				return err
			}
			profile, err := readProfile(opts.profile)
			if err != nil {
				return err
			}
			jobText, err := readJob(opts.job)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			analysis := parsing.Analyze(cmd.Context(), client, jobText, "", log)
			mapping, err := skills.Match(cmd.Context(), client, profile.Skills, analysis, jobText, "", skills.MatchOptions{
				RequireSemantic: opts.semantic,
				Concurrency:     cfg.SemanticConcurrency,
				Logger:          log,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, opts.out, mapping)
		},
	}
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "Path to the profile JSON file")
	cmd.Flags().StringVarP(&opts.job, "job", "j", "", "Path to the job description text file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (defaults to stdout)")
	cmd.Flags().BoolVar(&opts.semantic, "semantic", false, "Require the semantic tier")
	opts.register(cmd)
	return cmd
}

func newClassifyCmd(configPath *string) *cobra.Command {
	opts := &stageOptions{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify additional context as a directive or content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath, &opts.modelFlags)
			if err != nil {
				return err
			}
			if opts.context == "" {
				return errRequired("context")
			}
			jobText := ""
			if opts.job != "" {
				if jobText, err = readJob(opts.job); err != nil {
					return err
				}
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			return writeJSON(cmd, opts.out, extracontext.Classify(cmd.Context(), client, opts.context, jobText, log))
		},
	}
	cmd.Flags().StringVar(&opts.context, "context", "", "The note to classify")
	cmd.Flags().StringVarP(&opts.job, "job", "j", "", "Optional job description text file for reference")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (defaults to stdout)")
	opts.register(cmd)
	return cmd
}
