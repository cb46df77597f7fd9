package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("empty LLM response")
	ErrNoJSONFound   = errors.New("JSON not found in LLM output")
	ErrInvalidJSON   = errors.New("invalid JSON in LLM output")

	// ErrUnbalancedJSON is reported by ParseStrict; it also matches ErrInvalidJSON.
	ErrUnbalancedJSON = fmt.Errorf("%w: candidate is not a single balanced object", ErrInvalidJSON)
)

const fence = "```"

// Parse extracts and decodes the JSON object embedded in text.
// The result is untyped; callers own shape validation.
func Parse(text string) (map[string]any, error) {
	candidate, err := Candidate(text)
	if err != nil {
		return nil, err
	}
	return decode(candidate)
}

// ParseStrict is Parse plus a brace-balance check: the first '{' of the
// candidate must close exactly at its last '}' (ignoring braces inside
// string literals).
func ParseStrict(text string) (map[string]any, error) {
	candidate, err := Candidate(text)
	if err != nil {
		return nil, err
	}
	if !balanced(candidate) {
		return nil, ErrUnbalancedJSON
	}
	return decode(candidate)
}

// Candidate returns the substring Parse would decode, without decoding it.
func Candidate(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ErrEmptyResponse
	}
	if strings.HasPrefix(s, fence) {
		s = stripFence(s)
	}

	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONFound
	}
	return s[start : end+1], nil
}

// stripFence drops the first and last lines of s.
func stripFence(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

func decode(candidate string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return out, nil
}

// balanced reports whether s is exactly one brace-delimited object.
func balanced(s string) bool {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0 && !inString
}
