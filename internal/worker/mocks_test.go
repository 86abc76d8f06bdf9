package worker_test

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"supportrag/internal/vector"
)

// Mocks

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if fn, ok := args.Get(0).(func(context.Context, []string) [][]float32); ok {
		return fn(ctx, texts), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// memIndex keeps records in a map keyed by id.
type memIndex struct {
	mu       sync.Mutex
	records  map[string]vector.Record
	upserts  int
	ensured  int
	ensureFn func() error
	upsertFn func([]vector.Record) error
}

func newMemIndex() *memIndex {
	return &memIndex{records: make(map[string]vector.Record)}
}

func (m *memIndex) EnsureIndex(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	if m.ensureFn != nil {
		return m.ensureFn()
	}
	return nil
}

func (m *memIndex) Upsert(ctx context.Context, records []vector.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertFn != nil {
		if err := m.upsertFn(records); err != nil {
			return err
		}
	}
	m.upserts++
	for _, r := range records {
		m.records[r.ID] = r
	}
	return nil
}

func (m *memIndex) Query(ctx context.Context, values []float32, topK int) ([]vector.Match, error) {
	return nil, nil
}

func (m *memIndex) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *memIndex) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.records))
	for id := range m.records {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
