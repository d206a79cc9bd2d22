// Package steps defines the tailoring pipeline's stages and the dependencies between them.
package steps

import "fmt"

// Stage names
const (
	ValidateRequest     = "validate_request"
	ClassifyContext     = "classify_context"
	AnalyzeRequirements = "analyze_requirements"
	MatchSkills         = "match_skills"
	SelectContent       = "select_content"
	AdaptContent        = "adapt_content"
	AssembleDraft       = "assemble_draft"
	WriteCoverLetter    = "write_cover_letter"
	BuildReview         = "build_review"
)

// Stage categories
const (
	CategoryInput      = "input"
	CategoryAnalysis   = "analysis"
	CategorySelection  = "selection"
	CategoryAdaptation = "adaptation"
	CategoryOutput     = "output"
)

// StageDefinition defines metadata for a pipeline stage
type StageDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// Registry holds all stage definitions
var Registry = map[string]StageDefinition{
	ValidateRequest: {
		Name:     ValidateRequest,
		Category: CategoryInput,
	},
	ClassifyContext: {
		Name:         ClassifyContext,
		Category:     CategoryInput,
		Dependencies: []string{ValidateRequest},
	},
	AnalyzeRequirements: {
		Name:         AnalyzeRequirements,
		Category:     CategoryAnalysis,
		Dependencies: []string{ValidateRequest},
		Optional:     []string{ClassifyContext},
	},
	MatchSkills: {
		Name:         MatchSkills,
		Category:     CategoryAnalysis,
		Dependencies: []string{AnalyzeRequirements},
		Optional:     []string{ClassifyContext},
	},
	SelectContent: {
		Name:         SelectContent,
		Category:     CategorySelection,
		Dependencies: []string{AnalyzeRequirements, MatchSkills},
	},
	AdaptContent: {
		Name:         AdaptContent,
		Category:     CategoryAdaptation,
		Dependencies: []string{SelectContent},
		Optional:     []string{ClassifyContext},
	},
	AssembleDraft: {
		Name:         AssembleDraft,
		Category:     CategoryOutput,
		Dependencies: []string{AdaptContent, MatchSkills},
		Optional:     []string{ClassifyContext},
	},
	WriteCoverLetter: {
		Name:         WriteCoverLetter,
		Category:     CategoryOutput,
		Dependencies: []string{AssembleDraft},
	},
	BuildReview: {
		Name:         BuildReview,
		Category:     CategoryOutput,
		Dependencies: []string{AssembleDraft},
	},
}

// Order is the sequence in which the pipeline runs its stages.
var Order = []string{
	ValidateRequest,
	ClassifyContext,
	AnalyzeRequirements,
	MatchSkills,
	SelectContent,
	AdaptContent,
	AssembleDraft,
	WriteCoverLetter,
	BuildReview,
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Stage               string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s is missing dependencies: %v", e.Stage, e.MissingDependencies)
}

// ValidateDependencies checks that every required dependency of stage has completed.
func ValidateDependencies(completed map[string]bool, stage string) error {
	def, ok := Registry[stage]
	if !ok {
		return fmt.Errorf("unknown stage: %s", stage)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Stage: stage, MissingDependencies: missing}
	}
	return nil
}

// ValidateOrder checks that order runs every stage after its dependencies, required and optional.
func ValidateOrder(order []string) error {
	position := make(map[string]int, len(order))
	for i, stage := range order {
		if _, ok := Registry[stage]; !ok {
			return fmt.Errorf("unknown stage: %s", stage)
		}
		position[stage] = i
	}
	for i, stage := range order {
		def := Registry[stage]
		for _, dep := range append(append([]string{}, def.Dependencies...), def.Optional...) {
			if p, ok := position[dep]; ok && p > i {
				return fmt.Errorf("stage %s runs before its dependency %s", stage, dep)
			}
		}
		for _, dep := range def.Dependencies {
			if _, ok := position[dep]; !ok {
				return &DependencyError{Stage: stage, MissingDependencies: []string{dep}}
			}
		}
	}
	return nil
}
