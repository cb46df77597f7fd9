package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/petasbytes/go-companion/internal/metrics"
)

// Completion describes one finished call to a completion service.
type Completion struct {
	Provider string
	Model    string
	Prompt   string
	Response string
	Duration time.Duration
	Err      error
}

// EmitCompletion records a "completion" event. Only text features are
// written; raw prompt and response text never reach events.jsonl.
func EmitCompletion(ctx context.Context, c Completion) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	fields := map[string]any{
		"turn_id":     turnID,
		"provider":    c.Provider,
		"model":       c.Model,
		"duration_ms": c.Duration.Milliseconds(),
		"prompt":      metrics.CountFeatures(c.Prompt).Map(),
		"response":    metrics.CountFeatures(c.Response).Map(),
		"error":       nil,
	}
	if c.Err != nil {
		// Provider errors can echo request content; keep the event generic.
		fields["error"] = "completion error"
	}
	Emit("completion", fields)
}

// PersistPayload writes text to <ArtifactsDir>/payloads/<turn>-<kind>.txt
// when payload persistence is enabled.
func PersistPayload(ctx context.Context, kind, text string) {
	if !PersistPayloadsEnabled() {
		return
	}
	turnID, ok := TurnIDFromContext(ctx)
	if !ok {
		turnID = "turn-unknown"
	}
	dir := filepath.Join(ArtifactsDir(), "payloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("telemetry: mkdir", "dir", dir, "err", err)
		return
	}
	path := filepath.Join(dir, turnID+"-"+kind+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		log.Warn("telemetry: write payload", "path", path, "err", err)
	}
}
