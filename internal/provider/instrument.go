package provider

import (
	"context"
	"time"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/telemetry"
)

type modeler interface {
	Model() string
}

type instrumented struct {
	name string
	next completion.Client
}

// Instrument wraps next so every call emits a "completion" telemetry event
// and, when enabled, persists the raw prompt and response.
func Instrument(name string, next completion.Client) completion.Client {
	return &instrumented{name: name, next: next}
}

// Model forwards to the wrapped client when it reports one.
func (c *instrumented) Model() string {
	if m, ok := c.next.(modeler); ok {
		return m.Model()
	}
	return ""
}

func (c *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	telemetry.PersistPayload(ctx, c.name+"-prompt", prompt)

	start := time.Now()
	out, err := c.next.Generate(ctx, prompt)
	telemetry.EmitCompletion(ctx, telemetry.Completion{
		Provider: c.name,
		Model:    c.Model(),
		Prompt:   prompt,
		Response: out,
		Duration: time.Since(start),
		Err:      err,
	})
	if err == nil {
		telemetry.PersistPayload(ctx, c.name+"-response", out)
	}
	return out, err
}
