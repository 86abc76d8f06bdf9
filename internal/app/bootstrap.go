package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"supportrag/internal/adapter/gemini"
	"supportrag/internal/adapter/openai"
	"supportrag/internal/adapter/pinecone"
	wstore "supportrag/internal/adapter/weaviate"
	"supportrag/internal/config"
	"supportrag/internal/retrieval"
	"supportrag/internal/vector"
)

// Embedder covers both the indexing (batch) and question (single) paths.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type Dependencies struct {
	Index    vector.Index
	Embedder Embedder
	Chat     *openai.Chat

	closers []io.Closer
}

func (d *Dependencies) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Bootstrap builds the provider clients selected by cfg. Nothing is contacted
// here; the first request surfaces bad credentials.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	idx, err := NewIndex(cfg)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{Index: idx}
	if c, ok := idx.(io.Closer); ok {
		deps.closers = append(deps.closers, c)
	}

	api := openai.NewAPIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	deps.Chat = openai.NewChat(api, cfg.ChatModel)

	switch cfg.EmbeddingProvider {
	case config.ProviderGemini:
		g, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel, config.IndexDimension)
		if err != nil {
			return nil, fmt.Errorf("gemini client error: %w", err)
		}
		deps.Embedder = g
		deps.closers = append(deps.closers, g)
	default:
		deps.Embedder = openai.NewEmbedder(api, cfg.EmbeddingModel, config.IndexDimension)
	}

	slog.DebugContext(ctx, "dependencies ready",
		"vector_backend", cfg.VectorBackend,
		"embedding_provider", cfg.EmbeddingProvider,
	)
	return deps, nil
}

func IndexSpec(cfg *config.Config) vector.Spec {
	spec := vector.Spec{
		Name:      cfg.PineconeIndexName,
		Dimension: config.IndexDimension,
		Metric:    config.IndexMetric,
		Cloud:     cfg.PineconeCloud,
		Region:    cfg.PineconeEnv,
	}
	if cfg.VectorBackend == config.BackendWeaviate {
		spec.Name = cfg.WeaviateClass
	}
	return spec
}

func NewIndex(cfg *config.Config) (vector.Index, error) {
	spec := IndexSpec(cfg)

	switch cfg.VectorBackend {
	case config.BackendWeaviate:
		client, err := weaviate.NewClient(weaviate.Config{Host: cfg.WeaviateHost, Scheme: cfg.WeaviateScheme})
		if err != nil {
			return nil, fmt.Errorf("weaviate client error: %w", err)
		}
		return wstore.NewStore(client, spec), nil
	case config.BackendPinecone:
		idx, err := pinecone.New(cfg.PineconeAPIKey, spec)
		if err != nil {
			return nil, fmt.Errorf("pinecone client error: %w", err)
		}
		return idx, nil
	}
	return nil, fmt.Errorf("%w: unknown vector backend %q", config.ErrInvalidConfig, cfg.VectorBackend)
}

// NewRetrieval wires the answer pipeline. The query log file is closed with deps;
// if it cannot be opened, entries go to stderr so stdout stays command output.
func NewRetrieval(cfg *config.Config, deps *Dependencies) *retrieval.Service {
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stderr", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stderr)
	} else {
		deps.closers = append(deps.closers, queryLogger)
	}
	return retrieval.NewService(deps.Embedder, deps.Index, deps.Chat, cfg.SupportBrand, cfg.TopK, queryLogger)
}
