package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/prompt"
	"github.com/petasbytes/go-companion/internal/telemetry"
)

// Rewriter produces persona-styled and neutral replies to a single utterance.
type Rewriter struct {
	client completion.Client
	logger *log.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRewriter returns a Rewriter backed by client.
func NewRewriter(client completion.Client, opts ...Option) *Rewriter {
	r := &Rewriter{client: client, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prompt renders the rewrite instruction for input in the style of the
// resolved persona.
func (r *Rewriter) Prompt(input, name string) (string, error) {
	p, known := Resolve(name)
	if !known {
		r.logger.Debug("unknown persona, using default", "requested", name, "persona", p.Name)
	}
	def, err := definition(p)
	if err != nil {
		return "", err
	}
	return prompt.Render(prompt.PersonaRewrite, prompt.PersonaData{
		Name:       string(p.Name),
		Definition: def,
		Input:      input,
	})
}

// Rewrite answers input in the style of the named persona.
func (r *Rewriter) Rewrite(ctx context.Context, input, name string) (string, error) {
	p, err := r.Prompt(input, name)
	if err != nil {
		return "", err
	}
	return r.generate(ctx, "rewrite", p)
}

// Neutral answers input in a plain, persona-free tone.
func (r *Rewriter) Neutral(ctx context.Context, input string) (string, error) {
	p, err := prompt.Render(prompt.Neutral, prompt.NeutralData{Input: input})
	if err != nil {
		return "", err
	}
	return r.generate(ctx, "neutral", p)
}

func (r *Rewriter) generate(ctx context.Context, kind, p string) (string, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)
	out, err := r.client.Generate(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", kind, err)
	}
	out = strings.TrimSpace(out)
	r.logger.Debug("reply generated", "turn_id", turnID, "kind", kind, "chars", len(out))
	return out, nil
}

// definition renders p as indented JSON without HTML escaping.
func definition(p Profile) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode persona %s: %w", p.Name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
