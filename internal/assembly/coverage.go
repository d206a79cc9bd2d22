package assembly

import (
	"slices"
	"strings"

	"github.com/jonathan/cv-tailor/internal/types"
)

var kindLabels = map[types.MatchKind]string{
	types.MatchExact:    "Exact",
	types.MatchSynonym:  "Synonym",
	types.MatchCovers:   "Covers",
	types.MatchEcosys:   "Ecosystem",
	types.MatchRelated:  "Related",
	types.MatchRespSup:  "Responsibility Support",
	types.MatchDomain:   "Domain Complement",
	types.MatchCategory: "Category Match",
}

// Coverage summarizes a mapping. A requirement reached by any full-coverage match is covered;
// one reached only by partial matches is partially covered. Matches without a requirement
// count toward neither. Gaps are taken from the mapping.
func Coverage(mapping *types.SkillMapping) types.CoverageSummary {
	summary := types.CoverageSummary{
		Covered:          []string{},
		PartiallyCovered: []string{},
		Gaps:             []string{},
	}
	if mapping == nil {
		return summary
	}
	summary.Gaps = append(summary.Gaps, mapping.Gaps...)

	covered := map[string]bool{"": true}
	for _, m := range mapping.Matches {
		if m.Kind.FullCoverage() && !covered[m.Requirement] {
			covered[m.Requirement] = true
			summary.Covered = append(summary.Covered, m.Requirement)
		}
	}
	partial := make(map[string]bool)
	for _, m := range mapping.Matches {
		if m.Kind.PartialCoverage() && !covered[m.Requirement] && !partial[m.Requirement] {
			partial[m.Requirement] = true
			summary.PartiallyCovered = append(summary.PartiallyCovered, m.Requirement)
		}
	}

	summary.Justifications = justifications(mapping.Matches)
	return summary
}

// justifications joins "[Category] explanation" for every match of a skill with "; ".
func justifications(matches []types.SkillMatch) map[string]string {
	if len(matches) == 0 {
		return nil
	}
	parts := make(map[string][]string)
	for _, m := range matches {
		label, ok := kindLabels[m.Kind]
		if !ok {
			label = string(m.Kind)
		}
		entry := "[" + label + "] " + strings.TrimSpace(m.Explanation)
		if !slices.Contains(parts[m.Skill], entry) {
			parts[m.Skill] = append(parts[m.Skill], entry)
		}
	}

	out := make(map[string]string, len(parts))
	for skill, entries := range parts {
		out[skill] = strings.Join(entries, "; ")
	}
	return out
}
