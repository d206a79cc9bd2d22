package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

// preferredHints switch the classifier into "preferred" mode until a required hint appears.
var preferredHints = []string{
	"nice to have", "nice-to-have", "good to have", "plus", "preferred", "bonus",
	"desirable", "ideally", "optional",
}

var requiredHints = []string{
	"must", "required", "requirements", "require", "requires", "essential",
	"mandatory", "need", "needs", "minimum", "qualifications",
}

// actionVerbs mark a line as a responsibility.
var actionVerbs = map[string]bool{
	"build": true, "builds": true, "building": true,
	"design": true, "designs": true, "designing": true,
	"develop": true, "develops": true, "developing": true,
	"lead": true, "leads": true, "leading": true,
	"own": true, "owns": true, "owning": true,
	"drive": true, "drives": true, "driving": true,
	"maintain": true, "maintains": true, "maintaining": true,
	"implement": true, "implements": true, "implementing": true,
	"collaborate": true, "collaborates": true, "collaborating": true,
	"architect": true, "architects": true, "architecting": true,
	"deploy": true, "deploys": true, "deploying": true,
	"mentor": true, "mentors": true, "mentoring": true,
	"manage": true, "manages": true, "managing": true,
	"optimize": true, "optimizes": true, "optimizing": true,
	"improve": true, "improves": true, "improving": true,
	"ship": true, "ships": true, "shipping": true,
	"deliver": true, "delivers": true, "delivering": true,
	"create": true, "creates": true, "creating": true,
	"write": true, "writes": true, "writing": true,
	"automate": true, "automates": true, "automating": true,
	"integrate": true, "integrates": true, "integrating": true,
	"scale": true, "scales": true, "scaling": true,
	"partner": true, "partners": true, "partnering": true,
}

var seniorityWords = []string{
	"senior", "staff", "principal", "lead", "junior", "mid-level", "head of",
	"architect", "manager", "director", "mentor", "ownership",
}

var yearsPattern = regexp.MustCompile(`(?i)\b\d+\+?\s*(?:-\s*\d+\s*)?years?\b`)

var bulletPrefix = regexp.MustCompile(`^(?:[-*•·▪–]+|\d+[.)])\s*`)

// AnalyzeHeuristic extracts requirements without a language model. The result
// depends only on jobText.
func AnalyzeHeuristic(jobText string) *types.RequirementAnalysis {
	var required, preferred, responsibilities []string
	seenResponsibility := make(map[string]bool)
	inPreferred := false

	for _, rawLine := range strings.Split(jobText, "\n") {
		line := cleanLine(rawLine)
		if line == "" {
			continue
		}

		switch {
		case textutil.ContainsAnyWord(line, preferredHints):
			inPreferred = true
		case textutil.ContainsAnyWord(line, requiredHints):
			inPreferred = false
		}

		terms := textutil.ExtractTechTerms(line)
		if inPreferred {
			preferred = append(preferred, terms...)
		} else {
			required = append(required, terms...)
		}

		if len(responsibilities) < maxResponsibilities && isResponsibility(line) {
			r := textutil.Truncate(line, maxResponsibilityLen)
			if !seenResponsibility[r] {
				seenResponsibility[r] = true
				responsibilities = append(responsibilities, r)
			}
		}
	}

	analysis := &types.RequirementAnalysis{
		RequiredSkills:   textutil.Dedupe(required),
		Responsibilities: responsibilities,
		SenioritySignals: extractSenioritySignals(jobText),
		Source:           SourceHeuristic,
	}
	analysis.PreferredSkills = without(textutil.Dedupe(preferred), analysis.RequiredSkills)
	// Terms only visible across line breaks still surface as domain keywords.
	analysis.DomainKeywords = without(textutil.ExtractTechTerms(jobText), analysis.RequiredSkills, analysis.PreferredSkills)
	return analysis
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = bulletPrefix.ReplaceAllString(line, "")
	return textutil.CollapseSpace(line)
}

func isResponsibility(line string) bool {
	for _, w := range textutil.Words(line) {
		if actionVerbs[w] {
			return true
		}
	}
	return false
}

func extractSenioritySignals(text string) []string {
	var signals []string
	for _, w := range seniorityWords {
		if textutil.ContainsWord(text, w) {
			signals = append(signals, w)
		}
	}
	for _, m := range yearsPattern.FindAllString(text, -1) {
		signals = append(signals, strings.ToLower(textutil.CollapseSpace(m)))
	}
	return capList(textutil.Dedupe(signals), maxSenioritySignals)
}
