// Package llmparse extracts machine-readable payloads from free-form LLM
// replies. Models are asked for strict JSON but routinely wrap it in prose or
// markdown fences, so extraction is a first { to last } span scan with an
// explicit found/not-found result instead of an error. Callers treat a failed
// extraction as a recoverable condition, never an exception.
package llmparse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject returns the outermost {...} span of text, or ok=false
// when no such span exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// DecodeObject extracts the JSON object span from text and unmarshals it into
// dst. Both a missing span and malformed JSON report failure the same way.
func DecodeObject(text string, dst any) error {
	span, ok := ExtractJSONObject(text)
	if !ok {
		return fmt.Errorf("no JSON object found in response")
	}
	if err := json.Unmarshal([]byte(span), dst); err != nil {
		return fmt.Errorf("malformed JSON object in response: %w", err)
	}
	return nil
}
