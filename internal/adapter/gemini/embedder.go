package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyEmbedding = errors.New("empty embedding received")

// Embedder produces vectors of a fixed dimension. gemini-embedding-001 returns
// 3072 values; they are truncated to dim and re-normalized so cosine scores
// stay comparable with the rest of the index.
type Embedder struct {
	client *genai.Client
	model  string
	dim    int
}

func NewEmbedder(ctx context.Context, apiKey, model string, dim int, opts ...option.ClientOption) (*Embedder, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Embedder{client: client, model: model, dim: dim}, nil
}

func (e *Embedder) Dimension() int {
	return e.dim
}

func (e *Embedder) Close() error {
	return e.client.Close()
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding content", "model", e.model, "length", len(text))
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err)
		return nil, err
	}
	if res.Embedding == nil {
		return nil, ErrEmptyEmbedding
	}
	return fit(res.Embedding.Values, e.dim)
}

// EmbedBatch embeds texts in a single request. Results come back in request order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	slog.DebugContext(ctx, "embedding batch", "model", e.model, "size", len(texts))

	em := e.client.EmbeddingModel(e.model)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		slog.ErrorContext(ctx, "batch embedding failed", "error", err)
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embeddings: got %d vectors for %d inputs", len(res.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range res.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("input %d: %w", i, ErrEmptyEmbedding)
		}
		v, err := fit(emb.Values, e.dim)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

func fit(values []float32, dim int) ([]float32, error) {
	if len(values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	if len(values) < dim {
		return nil, fmt.Errorf("embedding has %d values, need %d", len(values), dim)
	}
	if len(values) == dim {
		return values, nil
	}
	out := make([]float32, dim)
	copy(out, values[:dim])
	l2normalize(out)
	return out, nil
}

func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
