package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/config"
	"github.com/petasbytes/go-companion/internal/provider"
	"github.com/petasbytes/go-companion/internal/telemetry"
)

// newClient builds the completion client for a configured provider. Tests
// replace it with a stub.
var newClient = func(cfg config.Provider) (completion.Client, error) {
	return provider.New(cfg)
}

// app carries state shared by every subcommand after PersistentPreRunE.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "companion",
		Short:         "companion - memory extraction and persona replies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.verbose || telemetry.DebugModeEnabled() {
				cfg.LogLevel = log.DebugLevel
			}
			a.cfg = cfg
			a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				Level:           cfg.LogLevel,
			})
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging (also on with COMPANION_DEBUG=1)")
	root.AddCommand(newExtractCmd(a), newReplyCmd(a), newPersonasCmd())
	return root
}

// client validates credentials and builds the configured provider.
func (a *app) client() (completion.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := newClient(a.cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", a.cfg.Provider.Name, err)
	}
	a.logger.Debug("provider ready", "provider", a.cfg.Provider.Name)
	return c, nil
}

// withTimeout bounds one command's completion calls.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

func main() {
	// Ctrl-C (SIGINT) / SIGTERM cancel the in-flight completion call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
