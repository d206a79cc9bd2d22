package types

// RequirementAnalysis is the structured view of a job description.
// It is produced once per request and never mutated by later stages.
type RequirementAnalysis struct {
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	Responsibilities []string `json:"responsibilities"`
	DomainKeywords   []string `json:"domain_keywords"`
	SenioritySignals []string `json:"seniority_signals"`
	// Source records which extractor produced the analysis ("llm" or "heuristic").
	Source string `json:"source,omitempty"`
}

// AllRequirements returns required, preferred and domain keyword strings,
// deduplicated in that order.
func (a *RequirementAnalysis) AllRequirements() []string {
	if a == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{a.RequiredSkills, a.PreferredSkills, a.DomainKeywords} {
		for _, r := range group {
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// IsEmpty reports whether no requirement of any kind was extracted.
func (a *RequirementAnalysis) IsEmpty() bool {
	return a == nil || (len(a.RequiredSkills) == 0 && len(a.PreferredSkills) == 0 &&
		len(a.DomainKeywords) == 0 && len(a.Responsibilities) == 0)
}
