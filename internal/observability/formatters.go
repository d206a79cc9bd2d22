// Package observability provides verbose CLI output and Prometheus metrics for the tailoring pipeline.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits line to the box's inner width, truncating on rune boundaries.
func pad(line string) string {
	inner := boxWidth - 4
	if utf8.RuneCountInString(line) > inner {
		line = textutil.Truncate(line, inner-3) + "..."
	}
	return line + strings.Repeat(" ", inner-utf8.RuneCountInString(line))
}

// writeList writes up to limit items as bullets, noting how many were left out.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintContext outputs how the additional context was classified.
func (p *Printer) PrintContext(analysis *types.ContextAnalysis) {
	if analysis == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type:      %s\n", analysis.Type)
	fmt.Fprintf(&sb, "Placement: %s\n", analysis.Placement)
	if analysis.SuggestedText != "" {
		fmt.Fprintf(&sb, "Text:      %s\n", analysis.SuggestedText)
	}
	if analysis.Reasoning != "" {
		fmt.Fprintf(&sb, "Reasoning: %s", analysis.Reasoning)
	}
	p.printBox("ADDITIONAL CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a human-readable summary of the job requirements.
func (p *Printer) PrintAnalysis(analysis *types.RequirementAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n\n", analysis.Source)
	writeList(&sb, "Required", analysis.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred", analysis.PreferredSkills, 3)
	writeList(&sb, "Responsibilities", analysis.Responsibilities, 3)
	writeList(&sb, "Domain keywords", analysis.DomainKeywords, 3)
	if len(analysis.SenioritySignals) > 0 {
		fmt.Fprintf(&sb, "Seniority: %s\n", strings.Join(analysis.SenioritySignals, ", "))
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimRight(sb.String(), "\n"))
}

// PrintMapping outputs the matched skills with their strongest match, plus gaps.
func (p *Printer) PrintMapping(mapping *types.SkillMapping) {
	if mapping == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Matched %d skill(s) via %d match(es)\n\n", len(mapping.Selected), len(mapping.Matches))

	count := min(len(mapping.Selected), maxItemsToShow)
	for _, skill := range mapping.Selected[:count] {
		matches := mapping.MatchesFor(skill)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		for _, m := range matches[1:] {
			if m.Confidence > best.Confidence {
				best = m
			}
		}
		target := best.Requirement
		if target == "" {
			target = "job text"
		}
		fmt.Fprintf(&sb, "• %s → %s (%s, %.2f)\n", skill, target, best.Kind, best.Confidence)
	}
	if len(mapping.Selected) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(mapping.Selected)-maxItemsToShow)
	}
	if len(mapping.Gaps) > 0 {
		fmt.Fprintf(&sb, "\nGaps: %s", strings.Join(mapping.Gaps, ", "))
	}

	p.printBox("SKILL MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelection outputs the selected experiences with their scores.
func (p *Printer) PrintSelection(selection *types.SelectionResult) {
	if selection == nil || len(selection.Experiences) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Selected %d experience(s):\n\n", len(selection.Experiences))
	for i, exp := range selection.Experiences {
		trace := selection.Trace[exp.Identity()]
		fmt.Fprintf(&sb, "#%d  %s @ %s\n", i+1, exp.Title, exp.Company)
		fmt.Fprintf(&sb, "    Score: %.2f  Projects: %d\n", trace.Score.Value, len(exp.Projects))
		if i < len(selection.Experiences)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SELECTED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAdapted outputs adaptation warnings, or a one-line confirmation when there are none.
func (p *Printer) PrintAdapted(adapted *types.AdaptedContent) {
	if adapted == nil {
		return
	}
	rewritten := 0
	for _, note := range adapted.Notes {
		if note == "rewritten" {
			rewritten++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Rewrote %d of %d field(s)\n", rewritten, len(adapted.Notes))
	for _, w := range adapted.Warnings {
		fmt.Fprintf(&sb, "⚠ %s\n", w)
	}
	p.printBox("ADAPTED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage outputs covered, partially covered and missing requirements.
func (p *Printer) PrintCoverage(coverage types.CoverageSummary) {
	var sb strings.Builder
	writeList(&sb, fmt.Sprintf("Covered (%d)", len(coverage.Covered)), coverage.Covered, maxItemsToShow)
	writeList(&sb, fmt.Sprintf("Partially covered (%d)", len(coverage.PartiallyCovered)), coverage.PartiallyCovered, maxItemsToShow)
	writeList(&sb, fmt.Sprintf("Gaps (%d)", len(coverage.Gaps)), coverage.Gaps, maxItemsToShow)
	if sb.Len() == 0 {
		sb.WriteString("No requirements extracted")
	}
	p.printBox("COVERAGE", strings.TrimRight(sb.String(), "\n"))
}
