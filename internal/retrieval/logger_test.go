package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportrag/internal/middleware"
)

func TestQueryLogger_ThreadSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	concurrency := 50
	iterations := 100
	var wg sync.WaitGroup

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				logger.Log(context.Background(), QueryLogEntry{
					Query:    "test",
					Duration: time.Millisecond,
				})
			}
		}()
	}
	wg.Wait()

	// Verify output is valid JSON stream
	decoder := json.NewDecoder(&buf)
	count := 0
	for decoder.More() {
		var entry QueryLogEntry
		err := decoder.Decode(&entry)
		if err != nil {
			t.Fatalf("Failed to decode entry %d: %v", count, err)
		}
		count++
	}

	expected := concurrency * iterations
	if count != expected {
		t.Errorf("Expected %d entries, got %d", expected, count)
	}
}

func TestQueryLogger_CorrelationFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	ctx := middleware.WithCorrelationID(context.Background(), "run-42")
	logger.Log(ctx, QueryLogEntry{Query: "Is there an annual fee?", NumResults: 5, Duration: 1500 * time.Millisecond})

	var entry QueryLogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-42", entry.CorrelationID)
	assert.Equal(t, int64(1500), entry.LatencyMs)
	assert.Equal(t, 5, entry.NumResults)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestNewFileQueryLogger_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "queries.jsonl")

	for i := 0; i < 2; i++ {
		l, err := NewFileQueryLogger(path)
		require.NoError(t, err)
		l.Log(context.Background(), QueryLogEntry{Query: "q", Duration: 20 * time.Millisecond})
		require.NoError(t, l.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))

	line, _, _ := bytes.Cut(data, []byte("\n"))
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &fields))
	assert.EqualValues(t, 20, fields["latency_ms"])
	assert.NotContains(t, fields, "duration_ns")
}

func TestQueryLogger_CloseWithoutFile(t *testing.T) {
	assert.NoError(t, NewQueryLogger(&bytes.Buffer{}).Close())
}
