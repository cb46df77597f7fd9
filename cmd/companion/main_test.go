package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/config"
	"github.com/petasbytes/go-companion/memory"
)

// scripted answers each call with the next reply and records prompts.
type scripted struct {
	replies []string
	prompts []string
}

func (s *scripted) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func run(t *testing.T, stub completion.Client, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return runIn(t, stub, strings.NewReader(stdin), nil, args...)
}

// runIn executes the root command with env applied over a clean configuration.
func runIn(t *testing.T, stub completion.Client, stdin io.Reader, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{"COMPANION_MODEL", "COMPANION_SCHEMA_PATH", "COMPANION_STRICT", "COMPANION_TIMEOUT", "COMPANION_LOG_LEVEL", "COMPANION_MAX_TOKENS", "COMPANION_TOKEN_BUDGET"} {
		t.Setenv(k, "")
	}
	t.Setenv("COMPANION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	for k, v := range env {
		t.Setenv(k, v)
	}

	orig := newClient
	newClient = func(config.Provider) (completion.Client, error) { return stub, nil }
	t.Cleanup(func() { newClient = orig })

	cmd := newRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetIn(stdin)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errb.String(), err
}

const stubMemory = "```json\n" + `{
  "user_preferences": [{"id": "pref_001", "type": "content_style", "statement": "Prefers short answers.", "evidence_messages": [1], "confidence": 0.9, "last_seen": "2025-12-01"}],
  "user_emotional_patterns": [{"id": "emo_001", "pattern": "Nervous before interviews.", "triggers": ["interview"], "typical_intensity": "medium", "preferred_support_style": "reassurance", "evidence_messages": [0], "confidence": 0.8}],
  "user_facts": [{"id": "fact_001", "category": "study", "statement": "CS student.", "evidence_messages": [3], "confidence": 0.95, "last_seen": "2025-12-01"}]
}` + "\n```"

func TestExtract_ArgsSummary(t *testing.T) {
	stub := &scripted{replies: []string{stubMemory}}
	out, _, err := run(t, stub, "", "extract",
		"I have an interview tomorrow and I'm nervous.", "Keep answers short.", "I like tech and the gym.", "I'm a CS student.")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "Preferences: Prefers short answers.\nEmotional patterns: Nervous before interviews.\nFacts: CS student.\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
	if !strings.Contains(stub.prompts[0], "0. I have an interview tomorrow") || !strings.Contains(stub.prompts[0], `"user_emotional_patterns"`) {
		t.Fatalf("prompt missing transcript or default schema")
	}
}

func TestExtract_StdinLimitAndJSON(t *testing.T) {
	stub := &scripted{replies: []string{`{"user_facts": []}`}}
	out, _, err := run(t, stub, "one\n\ntwo\nthree\n", "extract", "--limit", "2", "--json")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(stub.prompts[0], "one") || !strings.Contains(stub.prompts[0], "0. two\n1. three") {
		t.Fatalf("limit not applied:\n%s", stub.prompts[0])
	}
	m, err := memory.FromJSON([]byte(out))
	if err != nil {
		t.Fatalf("output is not memory JSON: %v\n%s", err, out)
	}
	if !m.Empty() {
		t.Fatalf("expected empty memory, got %+v", m)
	}
}

func TestExtract_HistoryAndSave(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "history.json")
	if err := memory.SaveHistory(hist, []memory.Message{
		{Role: "user", Text: "I am a nurse."},
		{Role: "assistant", Text: "Nice!"},
		{Role: "user", Text: "I work nights."},
	}); err != nil {
		t.Fatal(err)
	}
	saved := filepath.Join(dir, "saved.json")
	stub := &scripted{replies: []string{"{}"}}
	out, _, err := run(t, stub, "", "extract", "--history", hist, "--save-history", saved)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "No durable memories found.") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(stub.prompts[0], "0. I am a nurse.\n1. I work nights.") {
		t.Fatalf("history not used:\n%s", stub.prompts[0])
	}
	got, err := memory.LoadHistory(saved)
	if err != nil || len(got) != 2 || got[1].Text != "I work nights." {
		t.Fatalf("saved history = %v, %v", got, err)
	}
}

func TestExtract_Errors(t *testing.T) {
	if _, _, err := run(t, &scripted{}, "", "extract"); err == nil || !strings.Contains(err.Error(), "no user messages") {
		t.Fatalf("expected no-messages error, got %v", err)
	}
	if _, _, err := run(t, &scripted{replies: []string{"no json"}}, "", "extract", "hi"); err == nil || !strings.Contains(err.Error(), "memory extraction failed") {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "schema.json")
	if _, _, err := run(t, &scripted{}, "", "extract", "--schema", missing, "hi"); err == nil || !strings.Contains(err.Error(), "prompt file error") {
		t.Fatalf("expected schema config error, got %v", err)
	}
}

func TestExtract_Budget(t *testing.T) {
	stub := &scripted{replies: []string{"{}"}}
	// RuneCounter charges len+4: "aaaa" and "bb" cost 8 and 6.
	if _, _, err := run(t, stub, "", "extract", "--budget", "10", "aaaa", "bb"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(stub.prompts[0], "aaaa") || !strings.Contains(stub.prompts[0], "0. bb") {
		t.Fatalf("budget not applied:\n%s", stub.prompts[0])
	}

	_, _, err := run(t, &scripted{}, "", "extract", "--budget", "3", "toolong")
	if err == nil || !strings.Contains(err.Error(), "exceeds the token budget") {
		t.Fatalf("expected over-budget error, got %v", err)
	}
}

func TestExtract_BudgetFromEnvAndExplicitZero(t *testing.T) {
	env := map[string]string{"COMPANION_TOKEN_BUDGET": "10"}
	stub := &scripted{replies: []string{"{}"}}
	if _, _, err := runIn(t, stub, strings.NewReader(""), env, "extract", "aaaa", "bb"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(stub.prompts[0], "aaaa") {
		t.Fatalf("env budget not applied:\n%s", stub.prompts[0])
	}

	// An explicit --budget 0 disables the env budget.
	stub = &scripted{replies: []string{"{}"}}
	if _, _, err := runIn(t, stub, strings.NewReader(""), env, "extract", "--budget", "0", "aaaa", "bb"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(stub.prompts[0], "0. aaaa\n1. bb") {
		t.Fatalf("explicit zero budget not honoured:\n%s", stub.prompts[0])
	}
}

func TestExtract_MissingKey(t *testing.T) {
	t.Setenv("COMPANION_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	called := false
	orig := newClient
	newClient = func(config.Provider) (completion.Client, error) {
		called = true
		return &scripted{}, nil
	}
	t.Cleanup(func() { newClient = orig })

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extract", "hi"})
	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if called {
		t.Fatalf("client must not be built without a key")
	}
}

func TestReply_Persona(t *testing.T) {
	stub := &scripted{replies: []string{"  Styled answer.  "}}
	out, _, err := run(t, stub, "", "reply", "--persona", "witty_friend", "How", "do", "I", "focus?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if out != "Styled answer.\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(stub.prompts[0], "PERSONA NAME:\nwitty_friend") || !strings.Contains(stub.prompts[0], "USER INPUT:\nHow do I focus?") {
		t.Fatalf("unexpected prompt:\n%s", stub.prompts[0])
	}
}

func TestReply_UnknownPersonaWarns(t *testing.T) {
	stub := &scripted{replies: []string{"ok"}}
	_, errOut, err := run(t, stub, "", "reply", "--persona", "pirate", "hi")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.Contains(errOut, "unknown persona") {
		t.Fatalf("expected warning, got %q", errOut)
	}
	if !strings.Contains(stub.prompts[0], "PERSONA NAME:\ncalm_mentor") {
		t.Fatalf("expected calm_mentor fallback")
	}
}

func TestReply_Neutral(t *testing.T) {
	stub := &scripted{replies: []string{"Plain."}}
	out, _, err := run(t, stub, "", "reply", "--neutral", "What is Go?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if out != "Plain.\n" || strings.Contains(stub.prompts[0], "PERSONA") {
		t.Fatalf("unexpected neutral run: %q\n%s", out, stub.prompts[0])
	}
}

func TestReply_Interactive(t *testing.T) {
	stub := &scripted{replies: []string{"Neutral answer.", "Therapist answer."}}
	out, _, err := run(t, stub, "I feel stuck\ntherapist_style", "reply")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	for _, want := range []string{
		"Ask me anything: ",
		"========== NORMAL RESPONSE ==========\nNeutral answer.",
		"calm_mentor, witty_friend, therapist_style",
		"Enter your choice: Therapist answer.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(stub.prompts) != 2 || !strings.Contains(stub.prompts[1], "PERSONA NAME:\ntherapist_style") {
		t.Fatalf("unexpected prompts: %d", len(stub.prompts))
	}
}

func TestReply_InteractiveTimeoutPerCall(t *testing.T) {
	replies := []string{"Neutral answer.", "Witty answer."}
	stub := completion.Func(func(ctx context.Context, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r := replies[0]
		replies = replies[1:]
		return r, nil
	})

	// The persona choice arrives after the timeout has elapsed.
	pr, pw := io.Pipe()
	go func() {
		_, _ = io.WriteString(pw, "I feel stuck\n")
		time.Sleep(400 * time.Millisecond)
		_, _ = io.WriteString(pw, "witty_friend\n")
		_ = pw.Close()
	}()

	out, _, err := runIn(t, stub, pr, map[string]string{"COMPANION_TIMEOUT": "200ms"}, "reply")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.HasSuffix(out, "Witty answer.\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPersonas(t *testing.T) {
	out, _, err := run(t, &scripted{}, "", "personas")
	if err != nil {
		t.Fatalf("personas: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "* calm_mentor") || !strings.Contains(lines[1], "witty_friend") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}
