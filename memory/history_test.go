package memory_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/petasbytes/go-companion/memory"
)

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	msgs := []memory.Message{
		{Role: "user", Text: "hi"},
		{Role: "assistant", Text: "hello"},
		{Role: "user", Text: "I like Go"},
	}
	if err := memory.SaveHistory(path, msgs); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	got, err := memory.LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if diff := cmp.Diff(msgs, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	got, err := memory.LoadHistory(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestUserMessages(t *testing.T) {
	msgs := []memory.Message{
		{Role: "user", Text: "a"},
		{Role: "assistant", Text: "x"},
		{Role: "user", Text: "b"},
		{Role: "user", Text: "c"},
	}
	if diff := cmp.Diff([]string{"b", "c"}, memory.UserMessages(msgs, 2)); diff != "" {
		t.Fatalf("limit 2 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, memory.UserMessages(msgs, 0)); diff != "" {
		t.Fatalf("no limit (-want +got):\n%s", diff)
	}
}
