// Package completion defines the capability every pipeline in this module
// depends on: send a prompt string, receive the model's text.
//
// Contract:
//   - One blocking call per Generate; no retries, no streaming.
//   - No guarantee on latency, determinism, or output conformance. Callers
//     must treat the returned text as untrusted and parse/validate it.
//   - Implementations live in internal/provider; tests use Func.
package completion

import "context"

// Client is a text-completion service.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Static returns a Client that ignores the prompt and always answers text.
func Static(text string) Client {
	return Func(func(context.Context, string) (string, error) { return text, nil })
}
