package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"supportrag/internal/app"
	"supportrag/internal/article"
	"supportrag/internal/config"
	"supportrag/internal/worker"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Chunk saved articles, embed them and upsert into the vector index",
	Long: `Loads the articles file, splits every article into word windows,
embeds them in batches and upserts the vectors. The index is created if it
does not exist. Re-running replaces vectors with the same id.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	records, err := article.Load(cfg.ArticlesPath)
	if err != nil {
		return err
	}

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	indexer := worker.NewIndexer(deps.Embedder, deps.Index, cfg.ChunkWords, cfg.EmbedBatchSize, config.IndexDimension)
	sum, err := indexer.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %d articles in %d batches\n", sum.Chunks, sum.Articles, sum.Batches)
	return nil
}
