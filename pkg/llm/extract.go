package llm

import "strings"

// CleanResponse strips markdown fences and surrounding prose whitespace
// that models wrap around structured output.
func CleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// ExtractJSONArray pulls the first bracket-delimited array out of a
// possibly prose-wrapped response. The second return is false when no
// array is present.
func ExtractJSONArray(content string) (string, bool) {
	content = CleanResponse(content)
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// QuotedStrings is the last-resort extraction: every double-quoted
// substring in the response, in order. Used when a response names
// identifiers but is not valid JSON.
func QuotedStrings(content string) []string {
	var out []string
	for {
		start := strings.Index(content, `"`)
		if start < 0 {
			break
		}
		rest := content[start+1:]
		end := strings.Index(rest, `"`)
		if end < 0 {
			break
		}
		if end > 0 {
			out = append(out, rest[:end])
		}
		content = rest[end+1:]
	}
	return out
}
