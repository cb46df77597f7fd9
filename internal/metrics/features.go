// Package metrics derives local, content-free features from prompt and
// completion text. Features are safe to log: they never carry the text.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds size and shape counts for one piece of text.
type Features struct {
	Bytes  int  `json:"bytes"`
	Runes  int  `json:"runes"`
	Words  int  `json:"words"`
	Lines  int  `json:"lines"`
	Braces int  `json:"braces"` // '{' plus '}' occurrences
	Fenced bool `json:"fenced"` // starts with a ``` fence after leading whitespace
}

// CountFeatures computes Features for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes:  len(s),
		Runes:  utf8.RuneCountInString(s),
		Words:  len(strings.Fields(s)),
		Lines:  countLines(s),
		Braces: strings.Count(s, "{") + strings.Count(s, "}"),
		Fenced: strings.HasPrefix(strings.TrimSpace(s), "```"),
	}
}

// Map renders f as telemetry fields.
func (f Features) Map() map[string]any {
	return map[string]any{
		"bytes":  f.Bytes,
		"runes":  f.Runes,
		"words":  f.Words,
		"lines":  f.Lines,
		"braces": f.Braces,
		"fenced": f.Fenced,
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
