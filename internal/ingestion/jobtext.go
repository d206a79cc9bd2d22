// Package ingestion normalizes job descriptions before analysis. Plain text and pasted
// HTML postings both come out as line-structured text with "- " bullets, which is the
// shape the requirement heuristic reads.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrEmptyJobText is returned when a job description has no text after cleaning.
var ErrEmptyJobText = errors.New("job description is empty")

var (
	tagPattern        = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|section|article|span|strong|b|em)\b`)
	spacePattern      = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
	bulletPrefixes    = []string{"• ", "· ", "* ", "▪ ", "– "}
)

// blockElements end a line when rendered as text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "tr": true, "table": true, "header": true, "main": true,
}

// noiseSelector lists elements whose text never belongs to the posting.
const noiseSelector = "script, style, noscript, nav, footer, iframe, form, .cookie-banner, .advertisement"

// LooksLikeHTML reports whether s contains common markup tags.
func LooksLikeHTML(s string) bool {
	return tagPattern.MatchString(s)
}

// CleanJobText returns the posting as cleaned plain text. HTML is rendered with one
// line per block element and list items as "- " bullets.
func CleanJobText(content string) string {
	if LooksLikeHTML(content) {
		if text, err := htmlToText(content); err == nil {
			content = text
		}
	}
	return cleanLines(content)
}

// ReadJobFile reads and cleans a job description file.
func ReadJobFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	text := CleanJobText(string(content))
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyJobText)
	}
	return text, nil
}

func htmlToText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	for _, n := range root.Nodes {
		render(&sb, n)
	}
	return sb.String(), nil
}

func render(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "li" {
			sb.WriteString("\n- ")
		} else if blockElements[n.Data] {
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(sb, c)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		sb.WriteString("\n")
	}
}

// cleanLines normalizes line endings and spacing, rewrites bullet glyphs to "- "
// and keeps at most one blank line between paragraphs.
func cleanLines(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(line, prefix) {
				line = "- " + strings.TrimSpace(strings.TrimPrefix(line, prefix))
				break
			}
		}
		if line == "-" {
			line = ""
		}
		out = append(out, line)
	}

	result := blankLinesPattern.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
	return strings.TrimSpace(result)
}
