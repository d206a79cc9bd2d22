package types

// MatchKind tags how a profile skill relates to a requirement.
type MatchKind string

// Match kinds. The first group counts as full coverage, the second as partial.
const (
	MatchExact    MatchKind = "exact"
	MatchSynonym  MatchKind = "synonym"
	MatchCovers   MatchKind = "covers"
	MatchEcosys   MatchKind = "ecosystem"
	MatchRelated  MatchKind = "related"
	MatchRespSup  MatchKind = "responsibility_support"
	MatchDomain   MatchKind = "domain_complement"
	MatchCategory MatchKind = "category_match"
)

// FullCoverage reports whether a match of this kind fully covers its requirement.
func (k MatchKind) FullCoverage() bool {
	switch k {
	case MatchExact, MatchSynonym, MatchCovers:
		return true
	}
	return false
}

// PartialCoverage reports whether a match of this kind partially covers its requirement.
func (k MatchKind) PartialCoverage() bool {
	switch k {
	case MatchEcosys, MatchRelated, MatchRespSup, MatchDomain, MatchCategory:
		return true
	}
	return false
}

// SkillMatch links one profile skill to one requirement string. Requirement is empty
// when the skill was found in the job text but no extracted requirement names it.
type SkillMatch struct {
	Skill       string    `json:"skill"`
	Requirement string    `json:"requirement,omitempty"`
	Kind        MatchKind `json:"kind"`
	Confidence  float64   `json:"confidence"`
	Explanation string    `json:"explanation"`
}

// SkillMapping is the Skill Matcher's output.
// Every entry in Selected has at least one SkillMatch in Matches.
type SkillMapping struct {
	Matches  []SkillMatch `json:"matches"`
	Selected []string     `json:"selected"`
	Gaps     []string     `json:"gaps"`
}

// MatchesFor returns all matches that reference the given skill.
func (m *SkillMapping) MatchesFor(skill string) []SkillMatch {
	var out []SkillMatch
	for _, sm := range m.Matches {
		if sm.Skill == skill {
			out = append(out, sm)
		}
	}
	return out
}
