package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"supportrag/internal/article"
	"supportrag/internal/extract"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Discover pages, render them and save their text",
	Long: `Runs discovery, renders every page in a fresh headless browser and
writes the pages with enough visible text to the articles file.
The file is overwritten on every run.`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	urls, err := discover(ctx, cfg)
	if err != nil {
		return err
	}

	renderer := extract.NewChromeRenderer(
		time.Duration(cfg.NavTimeoutSeconds)*time.Second,
		time.Duration(cfg.SettleDelayMs)*time.Millisecond,
	)
	records := extract.NewScraper(renderer, cfg.MinContentChars).ScrapeAll(ctx, urls)

	if err := article.Save(cfg.ArticlesPath, records); err != nil {
		return fmt.Errorf("save articles: %w", err)
	}

	slog.InfoContext(ctx, "articles saved", "count", len(records), "discovered", len(urls), "path", cfg.ArticlesPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d articles to %s\n", len(records), cfg.ArticlesPath)
	return nil
}
