package types

// CoverageSummary reports how the job's requirements are met by the selected skills.
type CoverageSummary struct {
	Covered          []string          `json:"covered_requirements"`
	PartiallyCovered []string          `json:"partially_covered"`
	Gaps             []string          `json:"coverage_gaps"`
	Justifications   map[string]string `json:"skill_justifications,omitempty"`
}

// Draft is the tailored CV: the profile shape plus the target company and role.
type Draft struct {
	PersonalInfo  PersonalInfo `json:"personal_info"`
	TargetCompany string       `json:"target_company,omitempty"`
	TargetRole    string       `json:"target_role,omitempty"`
	Experiences   []Experience `json:"experiences"`
	Education     []Education  `json:"education,omitempty"`
	Skills        []string     `json:"skills"`
}

// Highlights returns every highlight in the draft in document order.
func (d *Draft) Highlights() []string {
	var out []string
	for _, e := range d.Experiences {
		for _, p := range e.Projects {
			out = append(out, p.Highlights...)
		}
	}
	return out
}

// Review is the human-facing feedback derived from an assembled draft.
type Review struct {
	Summary   []string            `json:"summary"`
	Questions []string            `json:"questions"`
	Evidence  map[string][]string `json:"evidence,omitempty"`
}
