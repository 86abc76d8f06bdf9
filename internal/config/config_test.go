package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportrag/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.ChunkWords)
	assert.Equal(t, 5, cfg.EmbedBatchSize)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 10, cfg.SearchNumResults)
	assert.Equal(t, "aven.com", cfg.TargetDomain)
	assert.Equal(t, "aven_articles.json", cfg.ArticlesPath)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.ChatModel)
	assert.Equal(t, config.BackendPinecone, cfg.VectorBackend)
	assert.Equal(t, config.DefaultSearchQuery, cfg.SearchQuery)
	assert.Equal(t, 15, cfg.NavTimeoutSeconds)
	assert.Equal(t, 3000, cfg.SettleDelayMs)
}

func TestLoadConfig_Credentials(t *testing.T) {
	t.Setenv("EXA_API_KEY", "exa-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("PINECONE_API_KEY", "pc-key")
	t.Setenv("PINECONE_ENV", "eu-west-1")
	t.Setenv("PINECONE_INDEX_NAME", "support")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "exa-key", cfg.ExaAPIKey)
	assert.Equal(t, "openai-key", cfg.OpenAIAPIKey)
	assert.Equal(t, "pc-key", cfg.PineconeAPIKey)
	assert.Equal(t, "eu-west-1", cfg.PineconeEnv)
	assert.Equal(t, "support", cfg.PineconeIndexName)
}

func TestLoadConfig_MissingCredentialsIsNotAnError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PINECONE_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	content := []byte("TARGET_DOMAIN=example.org\nCHUNK_WORDS=50")
	require.NoError(t, os.WriteFile(".env", content, 0o600))
	defer os.Unsetenv("TARGET_DOMAIN")
	defer os.Unsetenv("CHUNK_WORDS")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "example.org", cfg.TargetDomain)
	assert.Equal(t, 50, cfg.ChunkWords)
}

func TestLoadConfig_CustomQuery(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "site:example.org/help")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "site:example.org/help", cfg.SearchQuery)
}
