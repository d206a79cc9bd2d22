// Package coverletter writes a cover letter from the facts in an assembled draft.
package coverletter

import (
	"context"
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

const maxRequirements = 10

// ErrEmptyLetter is returned when the model produces no letter text.
var ErrEmptyLetter = errors.New("cover letter generation returned empty text")

// Input is what Generate writes from.
type Input struct {
	Draft    *types.Draft
	Analysis *types.RequirementAnalysis
	// Context is content-type additional context; directives are not passed here.
	Context string
}

// Generate asks the model for a cover letter grounded only in the draft's own text.
func Generate(ctx context.Context, client llm.Client, in Input, log *zap.Logger) (string, error) {
	log = logger.OrNop(log)
	if !llm.IsUsable(client) {
		return "", &llm.ConfigurationError{Component: "cover letter"}
	}
	if in.Draft == nil {
		return "", fmt.Errorf("cover letter needs an assembled draft")
	}

	data := map[string]string{
		"Candidate":    orDefault(in.Draft.PersonalInfo.Name, "the candidate"),
		"Role":         orDefault(in.Draft.TargetRole, "the role"),
		"Company":      orDefault(in.Draft.TargetCompany, "the company"),
		"Requirements": requirements(in.Analysis),
		"Facts":        Facts(in.Draft),
	}
	if note := strings.TrimSpace(in.Context); note != "" {
		data["Context"] = "\nAdditional fact from the candidate: " + note + "\n"
	}

	response, err := client.GenerateText(ctx, prompts.Render("coverletter.json", "generate", data),
		prompts.MustGet("coverletter.json", "system"))
	if err != nil {
		return "", err
	}

	letter := strings.TrimSpace(response)
	if letter == "" {
		return "", ErrEmptyLetter
	}
	log.Debug("cover letter generated", zap.Int("chars", len(letter)))
	return letter, nil
}

// Facts renders the draft as a plain bullet list, the only material the letter may use.
func Facts(d *types.Draft) string {
	var sb strings.Builder
	if s := strings.TrimSpace(d.PersonalInfo.Summary); s != "" {
		fmt.Fprintf(&sb, "- Summary: %s\n", textutil.StripHTML(s))
	}
	for _, exp := range d.Experiences {
		fmt.Fprintf(&sb, "- %s at %s", exp.Title, exp.Company)
		if exp.StartDate != "" {
			end := exp.EndDate
			if end == "" {
				end = "present"
			}
			fmt.Fprintf(&sb, " (%s to %s)", exp.StartDate, end)
		}
		sb.WriteString("\n")
		if exp.Description != "" {
			fmt.Fprintf(&sb, "  - %s\n", textutil.StripHTML(exp.Description))
		}
		for _, p := range exp.Projects {
			fmt.Fprintf(&sb, "  - Project %s", p.Name)
			if len(p.Technologies) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(p.Technologies, ", "))
			}
			sb.WriteString("\n")
			for _, h := range p.Highlights {
				fmt.Fprintf(&sb, "    - %s\n", textutil.StripHTML(h))
			}
		}
	}
	for _, edu := range d.Education {
		fmt.Fprintf(&sb, "- Education: %s\n", strings.Join(nonEmpty(edu.Degree, edu.Field, edu.Institution), ", "))
	}
	if len(d.Skills) > 0 {
		fmt.Fprintf(&sb, "- Skills: %s\n", strings.Join(d.Skills, ", "))
	}
	return sb.String()
}

func requirements(a *types.RequirementAnalysis) string {
	if a == nil {
		return "general fit"
	}
	reqs := textutil.Dedupe(append(append([]string{}, a.RequiredSkills...), a.Responsibilities...))
	if len(reqs) == 0 {
		return "general fit"
	}
	if len(reqs) > maxRequirements {
		reqs = reqs[:maxRequirements]
	}
	return strings.Join(reqs, "; ")
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
