package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers and any surrounding prose,
// returning the first JSON object or array in text. Text without JSON is returned trimmed.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}

	var extracted string
	if text[start] == '{' {
		extracted = extractJSONObject(text[start:])
	} else {
		extracted = extractJSONArray(text[start:])
	}
	if extracted == "" {
		return text
	}
	return extracted
}

// ExtractJSONObject returns the first balanced {...} span in text, looking
// inside a fenced code block when present. It returns "" when none is found.
func ExtractJSONObject(text string) string {
	return extractFirst(stripCodeFence(strings.TrimSpace(text)), '{', extractJSONObject)
}

// ExtractJSONArray returns the first balanced [...] span in text, or "".
func ExtractJSONArray(text string) string {
	return extractFirst(stripCodeFence(strings.TrimSpace(text)), '[', extractJSONArray)
}

func extractFirst(text string, open byte, extract func(string) string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		if span := extract(text[i:]); span != "" {
			return span
		}
	}
	return ""
}

// stripCodeFence unwraps ```json ... ``` or ``` ... ``` blocks. A fence that
// appears after some preamble is unwrapped too.
func stripCodeFence(text string) string {
	idx := strings.Index(text, "```")
	if idx < 0 {
		return text
	}

	body := text[idx+3:]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		firstLine := body[:nl]
		// Skip a language identifier on the fence line
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// extractJSONObject returns the balanced object at the start of text, or "".
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "".
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans from text[0] == open to its matching close, skipping
// brackets inside string literals.
func extractBalanced(text string, open, closing byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
