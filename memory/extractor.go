package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/prompt"
	"github.com/petasbytes/go-companion/internal/telemetry"
	"github.com/petasbytes/go-companion/llmjson"
)

// Extractor turns a user message history into a Memory with one completion call.
type Extractor struct {
	client      completion.Client
	schema      string
	logger      *log.Logger
	parse       func(string) (map[string]any, error)
	strictItems bool
	limit       int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrictItems quarantines items that do not match the per-item contract.
func WithStrictItems(on bool) Option {
	return func(e *Extractor) { e.strictItems = on }
}

// WithStrictJSON rejects completions whose JSON candidate is not one balanced object.
func WithStrictJSON(on bool) Option {
	return func(e *Extractor) {
		if on {
			e.parse = llmjson.ParseStrict
		} else {
			e.parse = llmjson.Parse
		}
	}
}

// WithRecentLimit changes the message window the prompt asks the model to focus on.
func WithRecentLimit(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// NewExtractor reads the schema text at schemaPath once.
func NewExtractor(client completion.Client, schemaPath string, opts ...Option) (*Extractor, error) {
	b, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, &ConfigError{Path: schemaPath, Err: err}
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil, &ConfigError{Path: schemaPath, Err: errors.New("schema file is empty")}
	}
	return NewExtractorWithSchema(client, string(b), opts...)
}

// NewExtractorWithSchema uses schema as the literal schema text in prompts.
func NewExtractorWithSchema(client completion.Client, schema string, opts ...Option) (*Extractor, error) {
	if client == nil {
		return nil, &ConfigError{Err: errors.New("completion client is required")}
	}
	if strings.TrimSpace(schema) == "" {
		return nil, &ConfigError{Err: errors.New("schema text is empty")}
	}
	e := &Extractor{
		client: client,
		schema: strings.TrimSpace(schema),
		logger: log.New(io.Discard),
		parse:  llmjson.Parse,
		limit:  RecentLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Prompt renders the extraction instruction for userMessages.
func (e *Extractor) Prompt(userMessages []string) (string, error) {
	return prompt.Render(prompt.MemoryExtraction, prompt.MemoryData{
		Limit:      e.limit,
		Schema:     e.schema,
		Transcript: prompt.Transcript(userMessages),
	})
}

// Extract asks the completion service for a memory document and materializes it.
func (e *Extractor) Extract(ctx context.Context, userMessages []string) (Memory, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)

	p, err := e.Prompt(userMessages)
	if err != nil {
		return Memory{}, err
	}
	e.logger.Debug("extracting memory", "turn_id", turnID, "messages", len(userMessages))

	raw, err := e.client.Generate(ctx, p)
	if err != nil {
		return Memory{}, fmt.Errorf("completion failed: %w", err)
	}

	obj, err := e.parse(raw)
	if err != nil {
		e.logger.Warn("unparseable completion", "turn_id", turnID, "err", err)
		return Memory{}, &ExtractionError{Err: err}
	}
	m, stray, err := fromObject(obj)
	if err != nil {
		e.logger.Warn("unexpected memory shape", "turn_id", turnID, "err", err)
		return Memory{}, &ExtractionError{Err: err}
	}

	var issues []Issue
	if e.strictItems {
		var invalid []Issue
		m, invalid = Validate(m, len(userMessages))
		issues = append(stray, invalid...)
		for _, is := range issues {
			e.logger.Warn("quarantined memory item", "turn_id", turnID,
				"category", is.Category, "index", is.Index, "id", is.ID, "reason", is.Reason)
		}
	} else {
		// An Item is an object; other elements cannot be carried, so they are dropped.
		for _, is := range stray {
			e.logger.Warn("dropped non-object memory item", "turn_id", turnID,
				"category", is.Category, "index", is.Index, "reason", is.Reason)
		}
	}

	e.logger.Debug("memory extracted", "turn_id", turnID,
		"preferences", len(m.Preferences),
		"emotional_patterns", len(m.EmotionalPatterns),
		"facts", len(m.Facts))
	telemetry.Emit("memory_extracted", map[string]any{
		"turn_id":            turnID,
		"messages":           len(userMessages),
		"preferences":        len(m.Preferences),
		"emotional_patterns": len(m.EmotionalPatterns),
		"facts":              len(m.Facts),
		"quarantined":        len(issues),
		"dropped":            len(stray),
	})
	return m, nil
}

// Summary is the package-level Summary.
func (e *Extractor) Summary(m Memory) string { return Summary(m) }
