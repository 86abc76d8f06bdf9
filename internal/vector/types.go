// Package vector defines the index contract shared by the Pinecone and Weaviate backends.
package vector

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrMetricMismatch means an existing index does not score by the configured metric.
	ErrMetricMismatch = errors.New("index metric mismatch")
)

// Spec is fixed when the index is created.
type Spec struct {
	Name      string
	Dimension int
	Metric    string
	Cloud     string
	Region    string
}

type Metadata struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

type Record struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

type Index interface {
	// EnsureIndex is safe to call from several processes at once.
	EnsureIndex(ctx context.Context) error
	// Upsert replaces any record that already has the same ID.
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, values []float32, topK int) ([]Match, error)
	Count(ctx context.Context) (int, error)
}

// CheckDimension rejects vectors that do not fit the index.
func CheckDimension(values []float32, dim int) error {
	if len(values) != dim {
		return fmt.Errorf("%w: got %d, index expects %d", ErrDimensionMismatch, len(values), dim)
	}
	return nil
}
