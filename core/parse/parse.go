// Package parse decodes model output into typed values, tolerating the usual
// LLM quirks: Markdown code fences around the payload and mildly malformed
// JSON, which is repaired before a retry.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StringAs parses content into a value of type T. It first strips any
// surrounding Markdown code fence, then attempts a strict unmarshal, and on
// failure repairs the JSON and tries once more.
func StringAs[T any](content string) (T, error) {
	var result T

	cleaned := StripCodeFences(content)
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return result, nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return result, fmt.Errorf("repairing JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("unmarshaling repaired JSON: %w", err)
	}
	return result, nil
}

// StripCodeFences removes a surrounding Markdown code fence, with or without
// a language tag, and trims whitespace. Content without a fence is returned
// trimmed.
func StripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		// A short first line is a language tag, not payload.
		if len(firstLine) <= 20 && !strings.ContainsAny(firstLine, "{[\"") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
