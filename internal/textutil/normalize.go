package textutil

import "strings"

// termAliases maps common variants to one canonical lowercase spelling.
var termAliases = map[string]string{
	"golang":   "go",
	"go lang":  "go",
	"js":       "javascript",
	"ts":       "typescript",
	"k8s":      "kubernetes",
	"postgres": "postgresql",
	"psql":     "postgresql",
	"mongo":    "mongodb",
	"ml":       "machine learning",
	"sklearn":  "scikit-learn",

	"react.js":    "react",
	"reactjs":     "react",
	"vuejs":       "vue.js",
	"vue":         "vue.js",
	"nodejs":      "node.js",
	"node":        "node.js",
	"nextjs":      "next.js",
	"tailwind":    "tailwind css",
	"tailwindcss": "tailwind css",

	"ci cd":        "ci/cd",
	"cicd":         "ci/cd",
	"restful":      "rest",
	"rest api":     "rest",
	"rest apis":    "rest",
	"restful api":  "rest",
	"restful apis": "rest",

	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
}

// CanonicalTerm lowercases and trims a skill or keyword and resolves known aliases.
func CanonicalTerm(term string) string {
	t := strings.ToLower(CollapseSpace(term))
	t = strings.Trim(t, " ,;:")
	if canonical, ok := termAliases[t]; ok {
		return canonical
	}
	return t
}

// NormalizeTerms canonicalizes each term and removes duplicates, keeping order.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, CanonicalTerm(t))
	}
	return Dedupe(out)
}
