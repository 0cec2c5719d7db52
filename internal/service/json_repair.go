package service

import (
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// RepairJSON cleans up the common ways an LLM wraps or mangles a JSON object:
// markdown code fences, prose before or after the object, and trailing commas.
// It returns an empty string when no object boundaries can be found.
func RepairJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	cleaned = cleaned[start : end+1]

	return trailingCommaRe.ReplaceAllString(cleaned, "$1")
}
