package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-companion/internal/telemetry"
	"github.com/petasbytes/go-companion/internal/windowing"
	"github.com/petasbytes/go-companion/memory"
)

type extractFlags struct {
	history     string
	saveHistory string
	schema      string
	limit       int
	budget      int
	json        bool
	strict      bool
}

func newExtractCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [messages...]",
		Short: "Extract preferences, emotional patterns and facts from user messages",
		Long: "Messages come from arguments, from --history, or one per line on stdin.\n" +
			"Only the most recent --limit user messages that fit --budget are sent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, f, args)
		},
	}
	cmd.Flags().StringVar(&f.history, "history", "", "JSON history file of {role, text} messages")
	cmd.Flags().StringVar(&f.saveHistory, "save-history", "", "Write the windowed user messages to this history file (replaces it; assistant turns are not kept)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Schema text file (default: generated schema)")
	cmd.Flags().IntVar(&f.limit, "limit", memory.RecentLimit, "Number of most recent user messages to use")
	cmd.Flags().IntVar(&f.budget, "budget", 0, "Estimated token budget for the transcript, 0 disables (defaults to COMPANION_TOKEN_BUDGET)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the extracted memory as JSON")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Reject unbalanced JSON and quarantine malformed items")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, f *extractFlags, args []string) error {
	all, err := collectMessages(cmd.InOrStdin(), f, args)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return errors.New("no user messages: pass them as arguments, with --history, or on stdin")
	}
	budget := a.cfg.TokenBudget
	if cmd.Flags().Changed("budget") {
		budget = f.budget
	}
	ctx, turnID := telemetry.EnsureTurnID(cmd.Context())
	msgs, stats := windowing.Prepare(all, f.limit, budget, windowing.RuneCounter{})
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"budget":             stats.Budget,
		"limit":              stats.Limit,
		"total_estimated":    stats.Total,
		"included":           stats.Included,
		"skipped":            stats.Skipped,
		"over_budget_newest": stats.OverBudgetNewest,
	})
	if stats.OverBudgetNewest {
		return fmt.Errorf("newest message alone exceeds the token budget of %d; raise --budget", budget)
	}
	a.logger.Debug("window prepared", "included", stats.Included, "skipped", stats.Skipped, "estimated", stats.Total)

	client, err := a.client()
	if err != nil {
		return err
	}
	strict := f.strict || a.cfg.Strict
	opts := []memory.Option{
		memory.WithLogger(a.logger),
		memory.WithStrictItems(strict),
		memory.WithStrictJSON(strict),
		memory.WithRecentLimit(f.limit),
	}

	schemaPath := f.schema
	if schemaPath == "" {
		schemaPath = a.cfg.SchemaPath
	}
	var ex *memory.Extractor
	if schemaPath != "" {
		ex, err = memory.NewExtractor(client, schemaPath, opts...)
	} else {
		ex, err = memory.NewExtractorWithSchema(client, memory.DefaultSchema(), opts...)
	}
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	m, err := ex.Extract(ctx, msgs)
	if err != nil {
		return err
	}

	if f.saveHistory != "" {
		hist := make([]memory.Message, len(msgs))
		for i, text := range msgs {
			hist[i] = memory.Message{Role: "user", Text: text}
		}
		if err := memory.SaveHistory(f.saveHistory, hist); err != nil {
			a.logger.Warn("failed to save history", "path", f.saveHistory, "err", err)
		}
	}

	out := cmd.OutOrStdout()
	if f.json {
		b, err := m.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}
	if s := ex.Summary(m); s != "" {
		fmt.Fprintln(out, s)
	} else {
		fmt.Fprintln(out, "No durable memories found.")
	}
	return nil
}

// collectMessages prefers arguments, then --history, then stdin.
func collectMessages(stdin io.Reader, f *extractFlags, args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		return args, nil
	case f.history != "":
		hist, err := memory.LoadHistory(f.history)
		if err != nil {
			return nil, fmt.Errorf("load history %s: %w", f.history, err)
		}
		return memory.UserMessages(hist, 0), nil
	default:
		var msgs []string
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				msgs = append(msgs, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return msgs, nil
	}
}
