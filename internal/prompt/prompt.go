// Package prompt renders the fixed instruction templates sent to the
// completion service. Rendering is pure: the same inputs always produce the
// same text.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// Template names.
const (
	MemoryExtraction = "memory_extraction.tmpl"
	PersonaRewrite   = "persona_rewrite.tmpl"
	Neutral          = "neutral.tmpl"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("prompt").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"))

// MemoryData feeds the MemoryExtraction template.
type MemoryData struct {
	Limit      int
	Schema     string
	Transcript string
}

// PersonaData feeds the PersonaRewrite template.
type PersonaData struct {
	Name       string
	Definition string
	Input      string
}

// NeutralData feeds the Neutral template.
type NeutralData struct {
	Input string
}

// Render executes the named template and trims surrounding whitespace.
func Render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// Transcript numbers messages "<index>. <message>", one per line, 0-based,
// in input order.
func Transcript(messages []string) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i, msg)
	}
	return b.String()
}
