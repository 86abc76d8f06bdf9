// Package cli wires the pipeline stages to cobra commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"supportrag/internal/config"
	"supportrag/internal/logger"
	"supportrag/internal/middleware"
)

var (
	verbose   bool
	logFormat string

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "supportrag",
	Short: "Support-site retrieval pipeline",
	Long: `Discovers support pages on the target site, scrapes their text,
indexes it as embeddings and answers questions grounded in it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text (default from LOG_FORMAT)")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	slog.SetDefault(logger.New(cmd.ErrOrStderr(), format, level))

	// Every command run is one job; its log lines share a run id.
	cmd.SetContext(middleware.NewRunContext(cmd.Context()))
	return nil
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
