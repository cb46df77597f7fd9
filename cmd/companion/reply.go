package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/petasbytes/go-companion/persona"
)

func newReplyCmd(a *app) *cobra.Command {
	var (
		name    string
		neutral bool
	)
	cmd := &cobra.Command{
		Use:   "reply [text]",
		Short: "Answer a message in a persona style, or neutrally",
		Long:  "Without text, asks for a message, prints a neutral reply, then asks for a persona.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			rw := persona.NewRewriter(client, persona.WithLogger(a.logger))
			if len(args) == 0 {
				return a.interactive(cmd, rw)
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()
			input := strings.Join(args, " ")
			var reply string
			if neutral {
				reply, err = rw.Neutral(ctx, input)
			} else {
				a.warnUnknown(name)
				reply, err = rw.Rewrite(ctx, input, name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "persona", "p", string(persona.Default), "Persona: "+strings.Join(personaNames(), ", "))
	cmd.Flags().BoolVar(&neutral, "neutral", false, "Reply in a neutral tone without a persona")
	return cmd
}

// interactive reads the question, shows the neutral reply, then the styled one.
func (a *app) interactive(cmd *cobra.Command, rw *persona.Rewriter) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprint(out, "Ask me anything: ")
	input, err := readLine(in)
	if err != nil {
		return err
	}

	neutral, err := a.complete(cmd, func(ctx context.Context) (string, error) {
		return rw.Neutral(ctx, input)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\n========== NORMAL RESPONSE ==========")
	fmt.Fprintln(out, neutral)

	fmt.Fprintf(out, "Please choose any one agent reply style: %s\n", strings.Join(personaNames(), ", "))
	fmt.Fprint(out, "Enter your choice: ")
	choice, err := readLine(in)
	if err != nil {
		return err
	}
	a.warnUnknown(choice)
	styled, err := a.complete(cmd, func(ctx context.Context) (string, error) {
		return rw.Rewrite(ctx, input, choice)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, styled)
	return nil
}

// complete runs one completion call under its own timeout.
func (a *app) complete(cmd *cobra.Command, call func(context.Context) (string, error)) (string, error) {
	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()
	return call(ctx)
}

func (a *app) warnUnknown(name string) {
	if _, known := persona.Resolve(name); !known {
		a.logger.Warn("unknown persona, using default", "persona", name, "default", persona.Default)
	}
}

// readLine returns one trimmed line; a final line without newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func personaNames() []string {
	return lo.Map(persona.Names(), func(n persona.Name, _ int) string { return string(n) })
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List available personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, n := range persona.Names() {
				p := persona.Lookup(string(n))
				marker := " "
				if n == persona.Default {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-16s %s\n", marker, n, p.StyleDescription)
			}
			return nil
		},
	}
}
