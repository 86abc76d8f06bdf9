package worker

import (
	"context"
)

// BatchEmbedder returns one vector per input text, in input order.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Summary struct {
	Articles int
	Chunks   int
	Batches  int
}
