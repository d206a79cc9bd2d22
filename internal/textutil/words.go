// Package textutil provides the tokenization and keyword helpers shared by the
// analyzer, matcher, scorer and review stages. Everything here is pure and synchronous.
package textutil

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// wordPattern keeps tech punctuation inside tokens so "c++", "c#" and "node.js" survive.
var wordPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#.]*`)

// Words splits text into lowercase tokens. Trailing periods are dropped so that
// sentence-ending words match their bare form.
func Words(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.TrimRight(w, ".")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// WordSet returns the set of tokens across all parts.
func WordSet(parts ...string) map[string]bool {
	set := make(map[string]bool)
	for _, p := range parts {
		for _, w := range Words(p) {
			set[w] = true
		}
	}
	return set
}

var (
	boundaryCache   = make(map[string]*regexp.Regexp)
	boundaryCacheMu sync.RWMutex
)

// boundaryPattern compiles a case-insensitive matcher for term delimited by non-word characters.
// Letters, digits, '+' and '#' count as word characters so "Java" never matches inside "JavaScript".
func boundaryPattern(term string) *regexp.Regexp {
	boundaryCacheMu.RLock()
	re, ok := boundaryCache[term]
	boundaryCacheMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)(?:^|[^\pL\pN+#])` + regexp.QuoteMeta(term) + `(?:$|[^\pL\pN+#])`)

	boundaryCacheMu.Lock()
	boundaryCache[term] = re
	boundaryCacheMu.Unlock()
	return re
}

// ContainsWord reports whether term occurs in text as a whole word, ignoring case.
func ContainsWord(text, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return false
	}
	return boundaryPattern(term).MatchString(text)
}

// ContainsAnyWord reports whether any of terms occurs in text as a whole word.
func ContainsAnyWord(text string, terms []string) bool {
	for _, t := range terms {
		if ContainsWord(text, t) {
			return true
		}
	}
	return false
}

// CollapseSpace trims text and replaces every whitespace run with a single space.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// TruncateWithEllipsis shortens s to limit runes and appends "..." when it was cut.
func TruncateWithEllipsis(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(Truncate(s, limit)) + "..."
}

// Dedupe removes empty and repeated strings, keeping first occurrences in order.
func Dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
