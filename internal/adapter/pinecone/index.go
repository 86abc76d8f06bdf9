// Package pinecone stores chunk vectors in a Pinecone serverless index.
package pinecone

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"supportrag/internal/vector"
)

// ControlPlane is the subset of *pinecone.Client used to provision the index.
type ControlPlane interface {
	CreateServerlessIndex(ctx context.Context, in *pinecone.CreateServerlessIndexRequest) (*pinecone.Index, error)
	DescribeIndex(ctx context.Context, idxName string) (*pinecone.Index, error)
}

// DataPlane is the subset of *pinecone.IndexConnection used for vectors.
type DataPlane interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DescribeIndexStats(ctx context.Context) (*pinecone.DescribeIndexStatsResponse, error)
}

// Connector opens a data-plane connection for an index host.
type Connector func(host string) (DataPlane, error)

type Index struct {
	control ControlPlane
	connect Connector
	spec    vector.Spec

	ReadyPollInterval time.Duration

	mu   sync.Mutex
	data DataPlane
}

func NewIndex(control ControlPlane, connect Connector, spec vector.Spec) *Index {
	return &Index{
		control:           control,
		connect:           connect,
		spec:              spec,
		ReadyPollInterval: 2 * time.Second,
	}
}

// New wires an Index to the real Pinecone client.
func New(apiKey string, spec vector.Spec) (*Index, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("pinecone client: %w", err)
	}
	connect := func(host string) (DataPlane, error) {
		return pc.Index(pinecone.NewIndexConnParams{Host: host})
	}
	return NewIndex(pc, connect, spec), nil
}

// EnsureIndex asks Pinecone to create the index and lets the service arbitrate:
// if creation is refused because the index already exists, the existing index is used
// after its dimension is checked.
func (i *Index) EnsureIndex(ctx context.Context) error {
	_, createErr := i.control.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      i.spec.Name,
		Dimension: int32(i.spec.Dimension),
		Metric:    pinecone.IndexMetric(i.spec.Metric),
		Cloud:     pinecone.Cloud(i.spec.Cloud),
		Region:    i.spec.Region,
	})

	idx, err := i.control.DescribeIndex(ctx, i.spec.Name)
	if err != nil {
		if createErr != nil {
			return fmt.Errorf("create index %s: %w", i.spec.Name, createErr)
		}
		return fmt.Errorf("describe index %s: %w", i.spec.Name, err)
	}

	if createErr == nil {
		slog.InfoContext(ctx, "index created", "index", i.spec.Name, "dimension", i.spec.Dimension, "metric", i.spec.Metric, "region", i.spec.Region)
	} else {
		slog.InfoContext(ctx, "index already exists", "index", i.spec.Name)
	}

	if int(idx.Dimension) != i.spec.Dimension {
		return fmt.Errorf("index %s: %w: index has %d, embeddings have %d", i.spec.Name, vector.ErrDimensionMismatch, idx.Dimension, i.spec.Dimension)
	}

	if string(idx.Metric) != i.spec.Metric {
		return fmt.Errorf("index %s: %w: index uses %q, want %q", i.spec.Name, vector.ErrMetricMismatch, idx.Metric, i.spec.Metric)
	}

	idx, err = i.waitReady(ctx, idx)
	if err != nil {
		return err
	}

	_, err = i.dataPlane(ctx, idx.Host)
	return err
}

func (i *Index) waitReady(ctx context.Context, idx *pinecone.Index) (*pinecone.Index, error) {
	ticker := time.NewTicker(i.ReadyPollInterval)
	defer ticker.Stop()

	for idx.Status == nil || !idx.Status.Ready {
		slog.DebugContext(ctx, "waiting for index to become ready", "index", i.spec.Name)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var err error
		idx, err = i.control.DescribeIndex(ctx, i.spec.Name)
		if err != nil {
			return nil, fmt.Errorf("describe index %s: %w", i.spec.Name, err)
		}
	}
	return idx, nil
}

func (i *Index) dataPlane(ctx context.Context, host string) (DataPlane, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.data != nil {
		return i.data, nil
	}

	if host == "" {
		idx, err := i.control.DescribeIndex(ctx, i.spec.Name)
		if err != nil {
			return nil, fmt.Errorf("describe index %s: %w", i.spec.Name, err)
		}
		host = idx.Host
	}

	conn, err := i.connect(host)
	if err != nil {
		return nil, fmt.Errorf("connect index %s: %w", i.spec.Name, err)
	}
	i.data = conn
	return conn, nil
}

// Close releases the data-plane connection, if one was opened.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if c, ok := i.data.(io.Closer); ok {
		i.data = nil
		return c.Close()
	}
	return nil
}

func (i *Index) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]*pinecone.Vector, 0, len(records))
	for _, r := range records {
		if err := vector.CheckDimension(r.Values, i.spec.Dimension); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, err)
		}
		md, err := structpb.NewStruct(map[string]interface{}{
			"source": r.Metadata.Source,
			"text":   r.Metadata.Text,
		})
		if err != nil {
			return fmt.Errorf("record %s metadata: %w", r.ID, err)
		}
		vectors = append(vectors, &pinecone.Vector{
			Id:       r.ID,
			Values:   r.Values,
			Metadata: md,
		})
	}

	conn, err := i.dataPlane(ctx, "")
	if err != nil {
		return err
	}
	if _, err := conn.UpsertVectors(ctx, vectors); err != nil {
		return fmt.Errorf("upsert %d vectors: %w", len(vectors), err)
	}
	return nil
}

func (i *Index) Query(ctx context.Context, values []float32, topK int) ([]vector.Match, error) {
	if err := vector.CheckDimension(values, i.spec.Dimension); err != nil {
		return nil, err
	}

	conn, err := i.dataPlane(ctx, "")
	if err != nil {
		return nil, err
	}

	res, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          values,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query index %s: %w", i.spec.Name, err)
	}

	matches := make([]vector.Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		match := vector.Match{ID: m.Vector.Id, Score: m.Score}
		if m.Vector.Metadata != nil {
			fields := m.Vector.Metadata.AsMap()
			match.Metadata.Source, _ = fields["source"].(string)
			match.Metadata.Text, _ = fields["text"].(string)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (i *Index) Count(ctx context.Context) (int, error) {
	conn, err := i.dataPlane(ctx, "")
	if err != nil {
		return 0, err
	}
	stats, err := conn.DescribeIndexStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("describe index stats %s: %w", i.spec.Name, err)
	}
	return int(stats.TotalVectorCount), nil
}
