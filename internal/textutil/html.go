package textutil

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML returns the visible text of s with tags removed and named and
// numeric entities decoded, whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseSpace(html.UnescapeString(s))
	}
	return CollapseSpace(doc.Text())
}

// PlainLength is the rune count of s after StripHTML. Length ceilings are measured with it.
func PlainLength(s string) int {
	return utf8.RuneCountInString(StripHTML(s))
}
