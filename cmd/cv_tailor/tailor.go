package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-tailor/internal/observability"
	"github.com/jonathan/cv-tailor/internal/pipeline"
	"github.com/jonathan/cv-tailor/internal/types"
)

type tailorOptions struct {
	modelFlags
	profile        string
	job            string
	out            string
	style          string
	company        string
	role           string
	seniority      string
	context        string
	maxExperiences int
	coverLetter    bool
}

func newTailorCmd(configPath *string) *cobra.Command {
	opts := &tailorOptions{}
	cmd := &cobra.Command{
		Use:   "tailor",
		Short: "Tailor a profile to a job description",
		Long: `Runs the full pipeline: context classification, requirement analysis, skill matching,
content selection, adaptation, assembly and review. The response is written as JSON.

select_and_reorder needs no model. rewrite_bullets and llm_tailor need an API key.`,
		Example: `  cv_tailor tailor --profile profile.json --job job.txt
  cv_tailor tailor -p profile.json -j job.txt --style llm_tailor --cover-letter -o out.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTailor(cmd, *configPath, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.profile, "profile", "p", "", "Path to the profile JSON file")
	f.StringVarP(&opts.job, "job", "j", "", "Path to the job description text file")
	f.StringVarP(&opts.out, "out", "o", "", "Output path (defaults to stdout)")
	f.StringVarP(&opts.style, "style", "s", "", "select_and_reorder, rewrite_bullets or llm_tailor")
	f.StringVar(&opts.company, "company", "", "Target company name")
	f.StringVar(&opts.role, "role", "", "Target role title")
	f.StringVar(&opts.seniority, "seniority", "", "Target seniority, e.g. senior")
	f.StringVar(&opts.context, "context", "", "Additional context: a directive or content to include")
	f.IntVar(&opts.maxExperiences, "max-experiences", 0, "Maximum experiences to keep")
	f.BoolVar(&opts.coverLetter, "cover-letter", false, "Also write a cover letter (needs a model)")
	opts.register(cmd)
	return cmd
}

func runTailor(cmd *cobra.Command, configPath string, opts *tailorOptions) error {
	cfg, err := loadConfig(cmd, configPath, &opts.modelFlags)
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

	style := types.Style(cfg.Style)
	if cmd.Flags().Changed("style") {
		style = types.Style(opts.style)
	}
	maxExperiences := cfg.MaxExperiences
	if cmd.Flags().Changed("max-experiences") {
		maxExperiences = opts.maxExperiences
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	deps := pipeline.Deps{
		LLM:                 client,
		Logger:              log,
		SemanticConcurrency: cfg.SemanticConcurrency,
	}
	if cfg.Verbose {
		deps.Printer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	resp, err := pipeline.Run(ctx, deps, &types.TailorRequest{
		Profile:            *profile,
		JobDescription:     jobText,
		TargetCompany:      opts.company,
		TargetRole:         opts.role,
		Seniority:          opts.seniority,
		Style:              style,
		MaxExperiences:     maxExperiences,
		AdditionalContext:  opts.context,
		IncludeCoverLetter: opts.coverLetter,
	})
	if err != nil {
		return err
	}

	for _, w := range resp.Warnings {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	return writeJSON(cmd, opts.out, resp)
}
