package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"supportrag/internal/article"
	"supportrag/internal/text"
	"supportrag/internal/vector"
)

const DefaultBatchSize = 5

// Indexer turns scraped articles into vectors. Batches run one after another
// and the first failure stops the run.
type Indexer struct {
	embedder  BatchEmbedder
	index     vector.Index
	chunkSize int
	batchSize int
	dimension int
	timeout   time.Duration
}

func NewIndexer(e BatchEmbedder, idx vector.Index, chunkWords, batchSize, dimension int) *Indexer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Indexer{
		embedder:  e,
		index:     idx,
		chunkSize: chunkWords,
		batchSize: batchSize,
		dimension: dimension,
		timeout:   60 * time.Second,
	}
}

func (ix *Indexer) Run(ctx context.Context, records []article.Record) (Summary, error) {
	sum := Summary{Articles: len(records)}

	if err := ix.index.EnsureIndex(ctx); err != nil {
		return sum, fmt.Errorf("ensure index: %w", err)
	}

	chunks := text.BuildChunks(records, ix.chunkSize)
	sum.Chunks = len(chunks)
	slog.InfoContext(ctx, "chunks prepared", "articles", len(records), "chunks", len(chunks))

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := ix.indexBatch(ctx, chunks[start:end]); err != nil {
			slog.ErrorContext(ctx, "batch failed", "from", start, "to", end, "error", err)
			return sum, err
		}
		sum.Batches++
		slog.InfoContext(ctx, "uploaded batch", "from", start, "to", end, "total", len(chunks))
	}

	return sum, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, batch []text.Chunk) error {
	embedCtx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := ix.embedder.EmbedBatch(embedCtx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
	}

	records := make([]vector.Record, len(batch))
	for i, c := range batch {
		if ix.dimension > 0 {
			if err := vector.CheckDimension(vectors[i], ix.dimension); err != nil {
				return fmt.Errorf("chunk %s: %w", c.ID, err)
			}
		}
		records[i] = vector.Record{
			ID:     c.ID,
			Values: vectors[i],
			Metadata: vector.Metadata{
				Source: c.Metadata.Source,
				Text:   c.Metadata.Text,
			},
		}
	}

	if err := ix.index.Upsert(embedCtx, records); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}
