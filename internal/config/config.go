package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	BackendPinecone = "pinecone"
	BackendWeaviate = "weaviate"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	// Credentials. Left unvalidated: a missing key fails at the provider.
	ExaAPIKey      string `envconfig:"EXA_API_KEY"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	PineconeAPIKey string `envconfig:"PINECONE_API_KEY"`
	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`

	// Discovery
	ExaBaseURL       string `envconfig:"EXA_BASE_URL" default:"https://api.exa.ai"`
	SearchQuery      string `envconfig:"SEARCH_QUERY" default:""`
	SearchNumResults int    `envconfig:"SEARCH_NUM_RESULTS" default:"10"`
	TargetDomain     string `envconfig:"TARGET_DOMAIN" default:"aven.com"`

	// Extraction
	NavTimeoutSeconds int `envconfig:"NAV_TIMEOUT_SECONDS" default:"15"`
	SettleDelayMs     int `envconfig:"SETTLE_DELAY_MS" default:"3000"`
	MinContentChars   int `envconfig:"MIN_CONTENT_CHARS" default:"100"`

	ArticlesPath string `envconfig:"ARTICLES_PATH" default:"aven_articles.json"`

	// Chunking & embedding
	ChunkWords           int    `envconfig:"CHUNK_WORDS" default:"200"`
	EmbedBatchSize       int    `envconfig:"EMBED_BATCH_SIZE" default:"5"`
	EmbeddingProvider    string `envconfig:"EMBEDDING_PROVIDER" default:"openai"`
	EmbeddingModel       string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	GeminiEmbeddingModel string `envconfig:"GEMINI_EMBEDDING_MODEL" default:"gemini-embedding-001"`
	OpenAIBaseURL        string `envconfig:"OPENAI_BASE_URL"`

	// Vector index
	VectorBackend     string `envconfig:"VECTOR_BACKEND" default:"pinecone"`
	PineconeEnv       string `envconfig:"PINECONE_ENV" default:"us-east-1"`
	PineconeCloud     string `envconfig:"PINECONE_CLOUD" default:"aws"`
	PineconeIndexName string `envconfig:"PINECONE_INDEX_NAME" default:"aven-support"`
	WeaviateHost      string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme    string `envconfig:"WEAVIATE_SCHEME" default:"http"`
	WeaviateClass     string `envconfig:"WEAVIATE_CLASS" default:"ArticleChunk"`

	// Query/answer
	ChatModel        string `envconfig:"CHAT_MODEL" default:"gpt-3.5-turbo"`
	TopK             int    `envconfig:"TOP_K" default:"5"`
	SupportBrand     string `envconfig:"SUPPORT_BRAND" default:"Aven"`
	VapiFunctionName string `envconfig:"VAPI_FUNCTION_NAME" default:"queryAvenKnowledgeBase"`

	// Server
	ServerPort   int    `envconfig:"SERVER_PORT" default:"8081"`
	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

func Load() (*Config, error) {
	// Ignore errors, as env vars might be set in the shell
	_ = godotenv.Load(".env")

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SearchQuery == "" {
		cfg.SearchQuery = DefaultSearchQuery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkWords <= 0 {
		return fmt.Errorf("%w: CHUNK_WORDS must be positive", ErrInvalidConfig)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("%w: EMBED_BATCH_SIZE must be positive", ErrInvalidConfig)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: TOP_K must be positive", ErrInvalidConfig)
	}
	if c.SearchNumResults <= 0 {
		return fmt.Errorf("%w: SEARCH_NUM_RESULTS must be positive", ErrInvalidConfig)
	}
	if c.TargetDomain == "" {
		return fmt.Errorf("%w: TARGET_DOMAIN", ErrInvalidConfig)
	}
	switch c.VectorBackend {
	case BackendPinecone, BackendWeaviate:
	default:
		return fmt.Errorf("%w: unknown VECTOR_BACKEND %q", ErrInvalidConfig, c.VectorBackend)
	}
	switch c.EmbeddingProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown EMBEDDING_PROVIDER %q", ErrInvalidConfig, c.EmbeddingProvider)
	}
	return nil
}
