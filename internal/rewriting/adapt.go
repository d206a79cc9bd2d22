package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/logger"
	"github.com/jonathan/cv-tailor/internal/prompts"
	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

// Scope selects which fields Adapt rewrites.
type Scope int

// Scopes
const (
	// ScopeHighlights rewrites project highlights only.
	ScopeHighlights Scope = iota
	// ScopeAll rewrites experience and project descriptions as well as highlights.
	ScopeAll
)

const (
	maxPromptKeywords         = 15
	maxPromptResponsibilities = 5
)

// Guidance is the job context a rewrite may lean on.
type Guidance struct {
	Keywords         []string
	Responsibilities []string
	Directive        string
}

// GuidanceFromAnalysis builds Guidance from an analysis and an optional steering directive.
func GuidanceFromAnalysis(a *types.RequirementAnalysis, directive string) Guidance {
	g := Guidance{Directive: strings.TrimSpace(directive)}
	if a == nil {
		return g
	}
	keywords := append(append([]string{}, a.RequiredSkills...), a.PreferredSkills...)
	g.Keywords = capStrings(textutil.Dedupe(keywords), maxPromptKeywords)
	g.Responsibilities = capStrings(a.Responsibilities, maxPromptResponsibilities)
	return g
}

// Options configures Adapt.
type Options struct {
	Scope     Scope
	Directive string
	Logger    *zap.Logger
}

// Adapt rewrites the selected content field by field. Technologies, names and dates are copied as-is.
//
// A field whose rewrite overshoots its ceiling or introduces new figures keeps its original
// text and produces a warning. An empty rewrite or a failed model call aborts adaptation.
func Adapt(
	ctx context.Context,
	client llm.Client,
	selection *types.SelectionResult,
	analysis *types.RequirementAnalysis,
	opts Options,
) (*types.AdaptedContent, error) {
	log := logger.OrNop(opts.Logger)
	adapted := &types.AdaptedContent{
		Experiences: []types.Experience{},
		Notes:       make(map[string]string),
	}
	if selection == nil || len(selection.Experiences) == 0 {
		return adapted, nil
	}

	adapted.Experiences = types.CloneExperiences(selection.Experiences)
	fields := collectFields(adapted.Experiences, opts.Scope)
	if len(fields) == 0 {
		return adapted, nil
	}
	if !llm.IsUsable(client) {
		return nil, &llm.ConfigurationError{Component: "content adapter", Pending: len(fields)}
	}

	guidance := GuidanceFromAnalysis(analysis, opts.Directive)
	rewritten := 0
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		original := *f.text
		text, err := AdaptField(ctx, client, f.path, original, f.kind, guidance)
		if err != nil {
			if reason, ok := keepOriginal(err); ok {
				adapted.Warnings = append(adapted.Warnings, fmt.Sprintf("Kept original %s: %s", f.path, reason))
				adapted.Notes[f.path] = "kept original: " + reason
				log.Warn("rewrite rejected", zap.String("field", f.path), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("failed to adapt %s: %w", f.path, err)
		}

		if length := textutil.PlainLength(text); length > f.kind.Limit() {
			adapted.Warnings = append(adapted.Warnings,
				fmt.Sprintf("%s is %d characters, %d over its %d limit", f.path, length, length-f.kind.Limit(), f.kind.Limit()))
		}
		if text == original {
			adapted.Notes[f.path] = "unchanged"
		} else {
			adapted.Notes[f.path] = "rewritten"
			rewritten++
		}
		*f.text = text
	}

	log.Debug("content adapted",
		zap.Int("fields", len(fields)),
		zap.Int("rewritten", rewritten),
		zap.Int("warnings", len(adapted.Warnings)))
	return adapted, nil
}

// AdaptField rewrites one piece of text under the no-fabrication contract and enforces its ceiling.
// field names the text in errors.
func AdaptField(
	ctx context.Context,
	client llm.Client,
	field string,
	original string,
	kind FieldKind,
	guidance Guidance,
) (string, error) {
	response, err := client.RewriteText(ctx, original, buildInstruction(kind, guidance))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(response) == "" {
		return "", &EmptyRewriteError{Field: field}
	}

	text := cleanResponse(response)
	length := textutil.PlainLength(text)
	if length == 0 {
		return "", &EmptyRewriteError{Field: field}
	}
	if length > kind.Limit()+LengthTolerance {
		return "", &LengthLimitError{Field: field, Length: length, Limit: kind.Limit()}
	}
	if figures := introducedFigures(original, text); len(figures) > 0 {
		return "", &FabricationError{Field: field, Figures: figures}
	}
	return text, nil
}

// keepOriginal reports whether err is a per-field rejection that falls back to the original text.
func keepOriginal(err error) (string, bool) {
	var lengthErr *LengthLimitError
	if errors.As(err, &lengthErr) {
		return fmt.Sprintf("rewrite was %d characters, limit is %d", lengthErr.Length, lengthErr.Limit), true
	}
	var fabErr *FabricationError
	if errors.As(err, &fabErr) {
		return "rewrite introduced figures " + strings.Join(fabErr.Figures, ", "), true
	}
	return "", false
}

func buildInstruction(kind FieldKind, g Guidance) string {
	data := map[string]string{
		"FieldKind":        string(kind),
		"Limit":            fmt.Sprintf("%d", kind.Limit()),
		"Keywords":         joinOrNone(g.Keywords, ", "),
		"Responsibilities": joinOrNone(g.Responsibilities, "; "),
	}
	if g.Directive != "" {
		data["Directive"] = prompts.Render("adaptation.json", "directive-line", map[string]string{"Directive": g.Directive})
	}
	return prompts.Render("adaptation.json", "rewrite-contract", data)
}

type field struct {
	path string
	kind FieldKind
	text *string
}

// collectFields lists the non-empty fields in scope, in document order.
func collectFields(exps []types.Experience, scope Scope) []field {
	var fields []field
	for i := range exps {
		exp := &exps[i]
		if scope == ScopeAll && strings.TrimSpace(exp.Description) != "" {
			fields = append(fields, field{
				path: fmt.Sprintf("experiences[%d].description", i),
				kind: FieldDescription,
				text: &exp.Description,
			})
		}
		for j := range exp.Projects {
			p := &exp.Projects[j]
			if scope == ScopeAll && strings.TrimSpace(p.Description) != "" {
				fields = append(fields, field{
					path: fmt.Sprintf("experiences[%d].projects[%d].description", i, j),
					kind: FieldDescription,
					text: &p.Description,
				})
			}
			for k := range p.Highlights {
				if strings.TrimSpace(p.Highlights[k]) == "" {
					continue
				}
				fields = append(fields, field{
					path: fmt.Sprintf("experiences[%d].projects[%d].highlights[%d]", i, j, k),
					kind: FieldHighlight,
					text: &p.Highlights[k],
				})
			}
		}
	}
	return fields
}

func unwrapJSONText(text string) string {
	if !strings.HasPrefix(text, "{") {
		return ""
	}
	var wrapper struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		return ""
	}
	return strings.TrimSpace(wrapper.Text)
}

func joinOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, sep)
}

func capStrings(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
