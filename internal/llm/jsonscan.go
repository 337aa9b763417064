package llm

import (
	"encoding/json"
	"strings"
)

// FindJSONArray locates the JSON array in free-form model output.
//
// A response that is itself valid JSON (optionally inside a markdown code
// fence) is returned whole. Otherwise the span from the first '[' to the last
// ']' is returned. ok is false when no such span exists.
func FindJSONArray(text string) (string, bool) {
	s := stripCodeFence(strings.TrimSpace(text))
	if strings.HasPrefix(s, "[") && json.Valid([]byte(s)) {
		return s, true
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop an info string such as "json"
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
