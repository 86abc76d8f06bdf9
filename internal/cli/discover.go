package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"supportrag/internal/config"
	"supportrag/internal/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List support pages found by the search API",
	Args:  cobra.NoArgs,
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	urls, err := discover(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	for _, u := range urls {
		fmt.Fprintln(cmd.OutOrStdout(), u)
	}
	return nil
}

func discover(ctx context.Context, c *config.Config) ([]string, error) {
	client := discovery.NewClient(c.ExaAPIKey, c.TargetDomain)
	client.SetBaseURL(c.ExaBaseURL)

	slog.InfoContext(ctx, "searching", "query", c.SearchQuery, "num_results", c.SearchNumResults)
	urls, err := client.Search(ctx, c.SearchQuery, c.SearchNumResults)
	if err != nil {
		slog.ErrorContext(ctx, "discovery failed", "error", err)
		return nil, fmt.Errorf("discovery: %w", err)
	}
	slog.InfoContext(ctx, "discovery finished", "urls", len(urls))
	return urls, nil
}
