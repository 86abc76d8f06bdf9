package weaviate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "supportrag/internal/adapter/weaviate"
	"supportrag/internal/testutils"
	"supportrag/internal/vector"
)

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s := testutils.NewWeaviateSuite(t)
	s.Setup()
	defer s.Teardown()

	ctx := context.Background()
	store := adapter.NewStore(s.Weaviate, spec)

	// Two provisioners racing on the same class both succeed.
	require.NoError(t, store.EnsureIndex(ctx))
	require.NoError(t, adapter.NewStore(s.Weaviate, spec).EnsureIndex(ctx))

	records := []vector.Record{
		{ID: "https://aven.com/faq--0", Values: []float32{1, 0, 0}, Metadata: vector.Metadata{Source: "https://aven.com/faq", Text: "No annual fee."}},
		{ID: "https://aven.com/faq--1", Values: []float32{0, 1, 0}, Metadata: vector.Metadata{Source: "https://aven.com/faq", Text: "Apply online."}},
	}
	require.NoError(t, store.Upsert(ctx, records))
	require.NoError(t, store.Upsert(ctx, records))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "re-upserting the same ids must not duplicate")

	matches, err := store.Query(ctx, []float32{0.9, 0.1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "https://aven.com/faq--0", matches[0].ID)
	assert.Equal(t, "No annual fee.", matches[0].Metadata.Text)
	assert.Greater(t, matches[0].Score, float32(0.9))
}
