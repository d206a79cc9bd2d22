// Package ranking provides the relevance scoring shared by content and education selection.
// Scoring is pure and synchronous.
package ranking

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-tailor/internal/textutil"
	"github.com/jonathan/cv-tailor/internal/types"
)

// Weights for scoring components
const (
	keywordWeight        = 0.45
	responsibilityWeight = 0.25
	seniorityWeight      = 0.15
	recencyWeight        = 0.15
)

// Quality penalty parameters
const (
	maxQualityPenalty = 0.3
	emptyTextPenalty  = 0.1
	longTextPenalty   = 0.15
	longPartPenalty   = 0.1
	fillerPenalty     = 0.1
	longTextChars     = 800
	longPartChars     = 240
)

// Recency thresholds, compared lexicographically against YYYY-MM dates.
const (
	recentCutoff = "2022-01"
	midCutoff    = "2019-01"
)

// senioritySignals are ownership and leadership words that earn the seniority component.
var senioritySignals = []string{
	"led", "lead", "leading", "owned", "own", "ownership", "architected", "spearheaded",
	"mentored", "mentoring", "managed", "headed", "drove", "founded", "principal", "senior",
}

// fillerPhrases mark vague bullet text.
var fillerPhrases = []string{"responsible for", "worked on", "helped", "various"}

// stopwords never count toward responsibility overlap.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "to": true, "in": true,
	"on": true, "for": true, "with": true, "by": true, "as": true, "at": true, "or": true,
	"is": true, "are": true, "be": true, "we": true, "you": true, "our": true, "your": true,
	"will": true, "from": true, "that": true, "this": true, "it": true, "into": true,
}

// ScoreSpec is what an item is scored against.
type ScoreSpec struct {
	Required         []string
	Preferred        []string
	Responsibilities []string
}

// SpecFromAnalysis builds a ScoreSpec from an analysis. Extra preferred keywords
// (typically the matched profile skills) are added unless already present.
func SpecFromAnalysis(a *types.RequirementAnalysis, extraPreferred ...string) ScoreSpec {
	if a == nil {
		return ScoreSpec{Preferred: textutil.NormalizeTerms(extraPreferred)}
	}
	required := textutil.NormalizeTerms(a.RequiredSkills)
	known := make(map[string]bool, len(required))
	for _, r := range required {
		known[r] = true
	}

	var preferred []string
	for _, p := range textutil.NormalizeTerms(append(append([]string{}, a.PreferredSkills...), extraPreferred...)) {
		if !known[p] {
			known[p] = true
			preferred = append(preferred, p)
		}
	}
	return ScoreSpec{
		Required:         required,
		Preferred:        preferred,
		Responsibilities: a.Responsibilities,
	}
}

// ScoreItem scores one piece of profile content against spec.
// startDate is the recency anchor in YYYY-MM form.
func ScoreItem(textParts []string, technologies []string, startDate string, spec ScoreSpec) types.Score {
	joined := strings.TrimSpace(strings.Join(textParts, " "))

	components := types.ScoreComponents{
		KeywordMatch:        keywordMatch(joined, technologies, spec),
		ResponsibilityMatch: responsibilityMatch(joined, spec.Responsibilities),
		SeniorityMatch:      seniorityMatch(joined),
		Recency:             recency(startDate),
		QualityPenalty:      qualityPenalty(joined, textParts),
	}

	value := keywordWeight*components.KeywordMatch +
		responsibilityWeight*components.ResponsibilityMatch +
		seniorityWeight*components.SeniorityMatch +
		recencyWeight*components.Recency -
		components.QualityPenalty
	if value < 0 {
		value = 0
	}

	return types.Score{
		Value:      math.Round(value*10000) / 10000,
		Components: components,
	}
}

// keywordMatch weighs required hits double and normalizes by twice the keyword count.
func keywordMatch(text string, technologies []string, spec ScoreSpec) float64 {
	words := make(map[string]bool)
	for w := range textutil.WordSet(text) {
		words[w] = true
		words[textutil.CanonicalTerm(w)] = true
	}
	for _, tech := range technologies {
		words[textutil.CanonicalTerm(tech)] = true
		for _, w := range textutil.Words(tech) {
			words[w] = true
		}
	}
	haystack := text + " " + strings.Join(technologies, " ")

	hit := func(keyword string) bool {
		kw := textutil.CanonicalTerm(keyword)
		if kw == "" {
			return false
		}
		if words[kw] {
			return true
		}
		if strings.ContainsAny(kw, " /-") {
			return textutil.ContainsWord(haystack, kw)
		}
		return false
	}

	requiredHits, preferredHits := 0, 0
	for _, kw := range spec.Required {
		if hit(kw) {
			requiredHits++
		}
	}
	for _, kw := range spec.Preferred {
		if hit(kw) {
			preferredHits++
		}
	}

	total := len(spec.Required) + len(spec.Preferred)
	if total < 1 {
		total = 1
	}
	score := float64(2*requiredHits+preferredHits) / float64(2*total)
	return math.Min(1, score)
}

// responsibilityMatch is the fraction of responsibilities sharing at least two content words with text.
func responsibilityMatch(text string, responsibilities []string) float64 {
	if len(responsibilities) == 0 {
		return 0
	}
	itemWords := contentWords(text)
	if len(itemWords) == 0 {
		return 0
	}

	matched := 0
	for _, resp := range responsibilities {
		shared := 0
		for w := range contentWords(resp) {
			if itemWords[w] {
				shared++
			}
		}
		if shared >= 2 {
			matched++
		}
	}
	return float64(matched) / float64(len(responsibilities))
}

func contentWords(text string) map[string]bool {
	set := textutil.WordSet(text)
	for w := range set {
		if stopwords[w] {
			delete(set, w)
		}
	}
	return set
}

func seniorityMatch(text string) float64 {
	if textutil.ContainsAnyWord(text, senioritySignals) {
		return 1
	}
	return 0
}

func recency(startDate string) float64 {
	switch {
	case startDate >= recentCutoff:
		return 1.0
	case startDate >= midCutoff:
		return 0.85
	default:
		return 0.7
	}
}

func qualityPenalty(joined string, parts []string) float64 {
	if joined == "" {
		return emptyTextPenalty
	}

	penalty := 0.0
	if utf8.RuneCountInString(joined) > longTextChars {
		penalty += longTextPenalty
	}
	for _, p := range parts {
		if utf8.RuneCountInString(p) > longPartChars {
			penalty += longPartPenalty
			break
		}
	}
	lower := strings.ToLower(joined)
	for _, phrase := range fillerPhrases {
		if strings.Contains(lower, phrase) {
			penalty += fillerPenalty
			break
		}
	}
	return math.Min(penalty, maxQualityPenalty)
}

// RankByScore returns indices into scores ordered by value, descending.
// Ties keep their original order.
func RankByScore(scores []types.Score) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]].Value > scores[order[b]].Value
	})
	return order
}
