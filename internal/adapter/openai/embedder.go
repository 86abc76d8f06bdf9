// Package openai adapts the OpenAI embeddings and chat completion APIs.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyEmbedding = errors.New("empty embedding received")
	ErrNoChoices      = errors.New("no completion choices returned")
)

// NewAPIClient builds a go-openai client. baseURL may be empty for the public API.
func NewAPIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

type Embedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewEmbedder(client *openai.Client, model string, dim int) *Embedder {
	return &Embedder{client: client, model: model, dim: dim}
}

func (e *Embedder) Dimension() int {
	return e.dim
}

// EmbedBatch returns one vector per text, in the order the texts were given.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	slog.DebugContext(ctx, "embedding batch", "model", e.model, "size", len(texts))

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// Each item carries the position of its input; place vectors by it.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vectors[d.Index] != nil {
			return nil, fmt.Errorf("openai embeddings: unexpected index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("input %d: %w", d.Index, ErrEmptyEmbedding)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
