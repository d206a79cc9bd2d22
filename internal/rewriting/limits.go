package rewriting

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-tailor/internal/textutil"
)

// FieldKind identifies which ceiling applies to a field.
type FieldKind string

// Field kinds
const (
	FieldDescription FieldKind = "description"
	FieldHighlight   FieldKind = "highlight"
)

// Character ceilings, measured on HTML-stripped plain text.
const (
	DescriptionLimit = 350
	HighlightLimit   = 250
	// LengthTolerance is how far past its ceiling a rewrite may go before it is rejected.
	LengthTolerance = 20
)

// Limit returns the ceiling for kind.
func (k FieldKind) Limit() int {
	if k == FieldDescription {
		return DescriptionLimit
	}
	return HighlightLimit
}

var figurePattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// introducedFigures returns numbers present in rewritten but not in original.
func introducedFigures(original, rewritten string) []string {
	known := make(map[string]bool)
	for _, f := range figurePattern.FindAllString(textutil.StripHTML(original), -1) {
		known[normalizeFigure(f)] = true
	}

	var introduced []string
	seen := make(map[string]bool)
	for _, f := range figurePattern.FindAllString(textutil.StripHTML(rewritten), -1) {
		n := normalizeFigure(f)
		if !known[n] && !seen[n] {
			seen[n] = true
			introduced = append(introduced, f)
		}
	}
	return introduced
}

// normalizeFigure treats "1,000" and "1000" as the same figure.
func normalizeFigure(f string) string {
	return strings.ReplaceAll(f, ",", "")
}

// cleanResponse strips wrappers models put around a single line of text:
// code fences, a {"text": ...} object, surrounding quotes and a leading bullet marker.
func cleanResponse(response string) string {
	text := strings.TrimSpace(response)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		lines = lines[1:]
		if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
			lines = lines[:len(lines)-1]
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	if wrapped := unwrapJSONText(text); wrapped != "" {
		text = wrapped
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(text, marker) {
			text = strings.TrimSpace(strings.TrimPrefix(text, marker))
			break
		}
	}
	return text
}
