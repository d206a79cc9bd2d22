// Package pipeline runs the tailoring stages in order: context classification, requirement
// analysis, skill matching, content selection, adaptation, assembly and review.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/assembly"
	"github.com/jonathan/cv-tailor/internal/coverletter"
	"github.com/jonathan/cv-tailor/internal/extracontext"
	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/observability"
	"github.com/jonathan/cv-tailor/internal/parsing"
	"github.com/jonathan/cv-tailor/internal/pipeline/steps"
	"github.com/jonathan/cv-tailor/internal/review"
	"github.com/jonathan/cv-tailor/internal/rewriting"
	"github.com/jonathan/cv-tailor/internal/selection"
	"github.com/jonathan/cv-tailor/internal/skills"
	"github.com/jonathan/cv-tailor/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage     string `json:"stage"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Deps are the collaborators a run needs. Only LLM is required for LLM-backed styles;
// every other field may be left zero.
type Deps struct {
	LLM     llm.Client
	Logger  *zap.Logger
	Metrics *observability.Metrics
	// Printer, when set, receives a verbose rendering of each stage's output.
	Printer             *observability.Printer
	OnProgress          ProgressCallback
	SemanticConcurrency int
}

// Run tailors req.Profile to req.JobDescription. Stages run sequentially and each either
// completes or fails the whole run with a *StageError.
func Run(ctx context.Context, deps Deps, req *types.TailorRequest) (resp *types.TailorResponse, err error) {
	if req == nil {
		return nil, &StageError{Stage: steps.ValidateRequest, Cause: errors.New("request is required")}
	}
	style := req.EffectiveStyle()
	defer func() { deps.Metrics.CountRequest(string(style), err) }()

	client := deps.LLM
	if client == nil {
		client = llm.Unconfigured()
	}
	r := &run{
		deps:      deps,
		requestID: uuid.NewString(),
		completed: make(map[string]bool),
		client:    deps.Metrics.InstrumentClient(client),
	}
	r.log = logger.OrNop(deps.Logger).With(zap.String("request_id", r.requestID), zap.String("style", string(style)))
	return r.execute(ctx, req, style)
}

type run struct {
	deps      Deps
	requestID string
	log       *zap.Logger
	client    llm.Client
	completed map[string]bool
	warnings  []string
}

func (r *run) execute(ctx context.Context, req *types.TailorRequest, style types.Style) (*types.TailorResponse, error) {
	r.log.Info("tailoring started",
		zap.Int("experiences", len(req.Profile.Experiences)),
		zap.Int("skills", len(req.Profile.Skills)))
	start := time.Now()

	if err := r.stage(ctx, steps.ValidateRequest, "Validated request", req.Validate); err != nil {
		return nil, err
	}

	var contextAnalysis *types.ContextAnalysis
	if err := r.stage(ctx, steps.ClassifyContext, "Classified additional context", func() error {
		contextAnalysis = extracontext.Classify(ctx, r.client, req.AdditionalContext, req.JobDescription, r.log)
		r.print(func(p *observability.Printer) { p.PrintContext(contextAnalysis) })
		return nil
	}); err != nil {
		return nil, err
	}
	directive := extracontext.Directive(contextAnalysis, req.AdditionalContext)

	var analysis *types.RequirementAnalysis
	if err := r.stage(ctx, steps.AnalyzeRequirements, "Analyzed job requirements", func() error {
		analysis = parsing.Analyze(ctx, r.client, req.JobDescription, directive, r.log)
		r.print(func(p *observability.Printer) { p.PrintAnalysis(analysis) })
		return nil
	}); err != nil {
		return nil, err
	}

	var mapping *types.SkillMapping
	if err := r.stage(ctx, steps.MatchSkills, "Matched profile skills", func() error {
		var err error
		mapping, err = skills.Match(ctx, r.client, req.Profile.Skills, analysis, req.JobDescription, directive, skills.MatchOptions{
			RequireSemantic:   style.UsesLLM(),
			Concurrency:       r.deps.SemanticConcurrency,
			OnSemanticFailure: r.semanticFailure,
			Logger:            r.log,
		})
		if err != nil {
			return err
		}
		r.print(func(p *observability.Printer) { p.PrintMapping(mapping) })
		return nil
	}); err != nil {
		return nil, err
	}

	var selected *types.SelectionResult
	if err := r.stage(ctx, steps.SelectContent, "Selected relevant content", func() error {
		selected = selection.Select(req.Profile.Experiences, analysis, mapping, req.EffectiveMaxExperiences())
		r.print(func(p *observability.Printer) { p.PrintSelection(selected) })
		return nil
	}); err != nil {
		return nil, err
	}

	var adapted *types.AdaptedContent
	if err := r.stage(ctx, steps.AdaptContent, adaptMessage(style), func() error {
		var err error
		adapted, err = adapt(ctx, r.client, selected, analysis, directive, style, r.log)
		if err != nil {
			return err
		}
		r.deps.Metrics.CountAdaptationReverts(countReverts(adapted))
		r.warnings = append(r.warnings, adapted.Warnings...)
		r.print(func(p *observability.Printer) { p.PrintAdapted(adapted) })
		return nil
	}); err != nil {
		return nil, err
	}

	var assembled *assembly.Result
	if err := r.stage(ctx, steps.AssembleDraft, "Assembled draft", func() error {
		assembled = assembly.Assemble(assembly.Input{
			Profile:       &req.Profile,
			Adapted:       adapted,
			Mapping:       mapping,
			Analysis:      analysis,
			Context:       contextAnalysis,
			TargetCompany: req.TargetCompany,
			TargetRole:    req.TargetRole,
		})
		r.warnings = append(r.warnings, assembled.Warnings...)
		r.print(func(p *observability.Printer) { p.PrintCoverage(assembled.Coverage) })
		return nil
	}); err != nil {
		return nil, err
	}

	var letter string
	if req.IncludeCoverLetter {
		if err := r.stage(ctx, steps.WriteCoverLetter, "Wrote cover letter", func() error {
			var err error
			letter, err = coverletter.Generate(ctx, r.client, coverletter.Input{
				Draft:    assembled.Draft,
				Analysis: analysis,
				Context:  contentNote(contextAnalysis),
			}, r.log)
			return err
		}); err != nil {
			return nil, err
		}
	}

	var rv *types.Review
	if err := r.stage(ctx, steps.BuildReview, "Built review", func() error {
		rv = review.Build(review.Input{
			Draft:             assembled.Draft,
			Analysis:          analysis,
			Coverage:          assembled.Coverage,
			Seniority:         req.Seniority,
			AdditionalContext: req.AdditionalContext,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	warnings := r.warnings
	if warnings == nil {
		warnings = []string{}
	}
	r.log.Info("tailoring complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("selected_experiences", len(assembled.Draft.Experiences)),
		zap.Int("gaps", len(assembled.Coverage.Gaps)),
		zap.Int("warnings", len(warnings)))

	return &types.TailorResponse{
		RequestID:   r.requestID,
		Draft:       *assembled.Draft,
		CoverLetter: letter,
		Warnings:    warnings,
		Questions:   rv.Questions,
		Summary:     rv.Summary,
		Evidence:    rv.Evidence,
		Coverage:    assembled.Coverage,
		Analysis:    analysis,
		Context:     contextAnalysis,
	}, nil
}

// stage runs fn as the named stage: dependencies are checked, timing is recorded and
// any failure is wrapped in a StageError.
func (r *run) stage(ctx context.Context, name, message string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: name, Cause: err}
	}
	if err := steps.ValidateDependencies(r.completed, name); err != nil {
		return &StageError{Stage: name, Cause: err}
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.deps.Metrics.ObserveStage(name, elapsed, err)

	if err != nil {
		r.log.Error("stage failed", zap.String("stage", name), zap.Duration("duration", elapsed), zap.Error(err))
		return &StageError{Stage: name, Cause: err}
	}

	r.completed[name] = true
	r.log.Debug("stage complete", zap.String("stage", name), zap.Duration("duration", elapsed))
	if r.deps.OnProgress != nil {
		r.deps.OnProgress(ProgressEvent{
			Stage:     name,
			Category:  steps.Registry[name].Category,
			Message:   message,
			RequestID: r.requestID,
		})
	}
	return nil
}

func (r *run) print(fn func(p *observability.Printer)) {
	if r.deps.Printer != nil {
		fn(r.deps.Printer)
	}
}

// semanticFailure is called from the matcher's join step, never concurrently.
func (r *run) semanticFailure(skill string, err error) {
	r.deps.Metrics.CountSemanticFailure()
	r.warnings = append(r.warnings, fmt.Sprintf("Could not evaluate skill %q against the job: %v", skill, errors.Unwrap(err)))
}

// adapt applies the style: select_and_reorder keeps the selection verbatim, rewrite_bullets
// rewrites highlights and llm_tailor rewrites descriptions as well.
func adapt(
	ctx context.Context,
	client llm.Client,
	selected *types.SelectionResult,
	analysis *types.RequirementAnalysis,
	directive string,
	style types.Style,
	log *zap.Logger,
) (*types.AdaptedContent, error) {
	switch style {
	case types.StyleRewriteBullets:
		return rewriting.Adapt(ctx, client, selected, analysis, rewriting.Options{Scope: rewriting.ScopeHighlights, Directive: directive, Logger: log})
	case types.StyleLLMTailor:
		return rewriting.Adapt(ctx, client, selected, analysis, rewriting.Options{Scope: rewriting.ScopeAll, Directive: directive, Logger: log})
	default:
		return &types.AdaptedContent{
			Experiences: types.CloneExperiences(selected.Experiences),
			Notes:       map[string]string{},
		}, nil
	}
}

func adaptMessage(style types.Style) string {
	if style.UsesLLM() {
		return "Adapted selected content"
	}
	return "Kept selected content verbatim"
}

func countReverts(adapted *types.AdaptedContent) int {
	n := 0
	for _, note := range adapted.Notes {
		if strings.HasPrefix(note, "kept original") {
			n++
		}
	}
	return n
}

// contentNote returns the classified note's text when it is content rather than a directive.
func contentNote(a *types.ContextAnalysis) string {
	if a == nil || a.IsDirective() {
		return ""
	}
	return a.SuggestedText
}
