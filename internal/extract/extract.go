// Package extract recovers structured JSON objects from free-form model
// output. Upstream models are instructed to emit pure JSON but routinely wrap
// it in prose or markdown code fences; extraction tolerates both by locating
// the object boundaries and delegating the actual parse to encoding/json.
package extract

import (
	"encoding/json"
	"strings"
)

// Object parses rawText into a JSON object. It first attempts a direct parse
// of the trimmed, fence-stripped text; on failure it retries on the substring
// between the first '{' and the last '}' (inclusive). The substring step only
// locates boundaries; nested braces inside string values survive because the
// parse itself is delegated to encoding/json.
func Object(rawText string) (map[string]any, error) {
	trimmed := CleanFences(rawText)

	if obj, ok := tryParse(trimmed); ok {
		return obj, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if obj, ok := tryParse(trimmed[start : end+1]); ok {
			return obj, nil
		}
	}

	return nil, &NotJSONError{Raw: rawText}
}

// tryParse attempts a strict parse and requires the result to be an object.
func tryParse(text string) (map[string]any, bool) {
	if text == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// CleanFences removes markdown code block wrappers from model responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanFences(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
