package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/go-companion/internal/telemetry"
)

func TestEmitCompletion_FeaturesOnly(t *testing.T) {
	dir := observe(t)
	secret := "__SECRET_NEVER_APPEAR__"

	ctx := telemetry.WithTurnID(context.Background(), "turn-xyz")
	telemetry.EmitCompletion(ctx, telemetry.Completion{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		Prompt:   "tell me " + secret,
		Response: "```json\n{\"a\":1}\n```",
		Duration: 1500 * time.Millisecond,
	})

	lines := readLines(t, dir)
	if strings.Contains(lines[0], secret) {
		t.Fatalf("raw prompt leaked into telemetry: %q", lines[0])
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["event"] != "completion" || m["turn_id"] != "turn-xyz" || m["provider"] != "gemini" {
		t.Fatalf("unexpected event: %#v", m)
	}
	if m["duration_ms"] != float64(1500) {
		t.Errorf("duration_ms = %v", m["duration_ms"])
	}
	if _, ok := m["error"]; !ok || m["error"] != nil {
		t.Errorf("error should be present and null, got %v", m["error"])
	}
	resp, ok := m["response"].(map[string]any)
	if !ok {
		t.Fatalf("response features missing: %T", m["response"])
	}
	if resp["fenced"] != true || resp["braces"] != float64(2) || resp["lines"] != float64(3) {
		t.Errorf("unexpected response features: %#v", resp)
	}
}

func TestEmitCompletion_ErrorIsGeneric(t *testing.T) {
	dir := observe(t)

	telemetry.EmitCompletion(context.Background(), telemetry.Completion{
		Provider: "openai",
		Err:      errors.New("400: prompt contained private text"),
	})

	var m map[string]any
	if err := json.Unmarshal([]byte(readLines(t, dir)[0]), &m); err != nil {
		t.Fatal(err)
	}
	if m["error"] != "completion error" {
		t.Fatalf("expected generic error string, got %v", m["error"])
	}
}

func TestPersistPayload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COMPANION_ARTIFACTS_DIR", dir)
	t.Setenv("COMPANION_PERSIST_PAYLOADS", "1")

	ctx := telemetry.WithTurnID(context.Background(), "turn-p")
	telemetry.PersistPayload(ctx, "prompt", "hello prompt")

	b, err := os.ReadFile(filepath.Join(dir, "payloads", "turn-p-prompt.txt"))
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(b) != "hello prompt" {
		t.Fatalf("payload = %q", string(b))
	}
}

func TestPersistPayload_MissingTurnID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COMPANION_ARTIFACTS_DIR", dir)
	t.Setenv("COMPANION_PERSIST_PAYLOADS", "1")

	telemetry.PersistPayload(context.Background(), "response", "x")

	if _, err := os.Stat(filepath.Join(dir, "payloads", "turn-unknown-response.txt")); err != nil {
		t.Fatalf("expected turn-unknown payload: %v", err)
	}
}
