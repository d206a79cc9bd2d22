// Package types provides type definitions for structured data used throughout the cv-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Profile is a candidate's master profile. It is read-only input to the tailoring pipeline.
type Profile struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Experiences  []Experience `json:"experiences"`
	Education    []Education  `json:"education,omitempty"`
	Skills       []string     `json:"skills"`
}

// PersonalInfo holds contact details and an optional summary paragraph.
type PersonalInfo struct {
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// Experience is one position held by the candidate.
type Experience struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	StartDate   string    `json:"start_date,omitempty"` // YYYY-MM
	EndDate     string    `json:"end_date,omitempty"`   // YYYY-MM or empty for current
	Description string    `json:"description,omitempty"`
	Projects    []Project `json:"projects,omitempty"`
}

// Project is a body of work within an experience.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Education is one degree or course of study.
type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree,omitempty"`
	Field       string   `json:"field,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Identity returns a stable key for the experience, used for traceability.
// The explicit ID wins; otherwise title, company and start date are combined.
func (e *Experience) Identity() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s@%s:%s", e.Title, e.Company, e.StartDate)
}

// Technologies returns the technologies of all projects, deduplicated in first-seen order.
func (e *Experience) Technologies() []string {
	seen := make(map[string]bool)
	var techs []string
	for _, p := range e.Projects {
		for _, t := range p.Technologies {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			techs = append(techs, t)
		}
	}
	return techs
}

// CloneExperiences deep-copies experiences so later stages can edit text without
// touching the slice they were given.
func CloneExperiences(src []Experience) []Experience {
	out := make([]Experience, len(src))
	for i, exp := range src {
		out[i] = exp
		out[i].Projects = make([]Project, len(exp.Projects))
		for j, p := range exp.Projects {
			out[i].Projects[j] = p
			out[i].Projects[j].Technologies = append([]string(nil), p.Technologies...)
			out[i].Projects[j].Highlights = append([]string(nil), p.Highlights...)
		}
	}
	return out
}
