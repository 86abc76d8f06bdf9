package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestFit(t *testing.T) {
	t.Run("exact dimension is untouched", func(t *testing.T) {
		v, err := fit([]float32{0.6, 0.8}, 2)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.6, 0.8}, v)
	})

	t.Run("truncates and normalizes", func(t *testing.T) {
		v, err := fit([]float32{3, 4, 100}, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := fit([]float32{1}, 2)
		assert.ErrorContains(t, err, "need 2")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := fit(nil, 2)
		assert.ErrorIs(t, err, ErrEmptyEmbedding)
	})
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":batchEmbedContents"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": []map[string]interface{}{
				{"values": []float32{3, 4, 9}},
				{"values": []float32{0, 2, 9}},
			},
		})
	}))
	defer ts.Close()

	e, err := NewEmbedder(context.Background(), "test-key", "gemini-embedding-001", 2, option.WithEndpoint(ts.URL))
	require.NoError(t, err)
	defer e.Close()

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, vectors[0], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1}, vectors[1], 1e-6)
	assert.Equal(t, 2, e.Dimension())
}

func TestEmbedder_EmbedBatch_CountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": []map[string]interface{}{{"values": []float32{1, 0}}},
		})
	}))
	defer ts.Close()

	e, err := NewEmbedder(context.Background(), "test-key", "gemini-embedding-001", 2, option.WithEndpoint(ts.URL))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "got 1 vectors for 2 inputs")
}
