package weaviate

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"supportrag/internal/vector"
)

type Store struct {
	client *weaviate.Client
	spec   vector.Spec
}

func NewStore(client *weaviate.Client, spec vector.Spec) *Store {
	return &Store{client: client, spec: spec}
}

// ObjectID maps a chunk id onto a stable UUID, so re-upserting a chunk overwrites it.
func ObjectID(chunkID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String())
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	return vector.EnsureSchema(ctx, &schemaClient{client: s.client}, s.spec)
}

func (s *Store) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	objects := make([]*models.Object, 0, len(records))
	for _, r := range records {
		if err := vector.CheckDimension(r.Values, s.spec.Dimension); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, err)
		}
		objects = append(objects, &models.Object{
			Class: s.spec.Name,
			ID:    ObjectID(r.ID),
			Properties: map[string]interface{}{
				"chunkId": r.ID,
				"source":  r.Metadata.Source,
				"text":    r.Metadata.Text,
			},
			Vector: r.Values,
		})
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return err
	}

	var failures []string
	for _, o := range resp {
		if o.Result == nil || o.Result.Errors == nil {
			continue
		}
		for _, e := range o.Result.Errors.Error {
			failures = append(failures, e.Message)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("weaviate batch errors: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (s *Store) Query(ctx context.Context, values []float32, topK int) ([]vector.Match, error) {
	if err := vector.CheckDimension(values, s.spec.Dimension); err != nil {
		return nil, err
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(values)

	fields := []graphql.Field{
		{Name: "chunkId"},
		{Name: "source"},
		{Name: "text"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(s.spec.Name).
		WithNearVector(nearVector).
		WithLimit(topK).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors[0].Message)
	}

	var matches []vector.Match
	data, _ := res.Data["Get"].(map[string]interface{})
	objects, _ := data[s.spec.Name].([]interface{})
	for _, o := range objects {
		props, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		m := vector.Match{}
		m.ID, _ = props["chunkId"].(string)
		m.Metadata.Source, _ = props["source"].(string)
		m.Metadata.Text, _ = props["text"].(string)

		// Weaviate reports cosine distance; callers expect similarity.
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if d, ok := additional["distance"].(float64); ok {
				m.Score = float32(1 - d)
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	meta := graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}

	res, err := s.client.GraphQL().Aggregate().
		WithClassName(s.spec.Name).
		WithFields(meta).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %v", res.Errors[0].Message)
	}

	agg, _ := res.Data["Aggregate"].(map[string]interface{})
	groups, _ := agg[s.spec.Name].([]interface{})
	if len(groups) == 0 {
		return 0, nil
	}
	group, _ := groups[0].(map[string]interface{})
	m, _ := group["meta"].(map[string]interface{})
	count, _ := m["count"].(float64)
	return int(count), nil
}

// schemaClient adapts the fluent schema API to vector.SchemaClient.
type schemaClient struct {
	client *weaviate.Client
}

func (a *schemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	return a.client.Schema().ClassExistenceChecker().WithClassName(className).Do(ctx)
}

func (a *schemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	return a.client.Schema().ClassCreator().WithClass(class).Do(ctx)
}

func (a *schemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return a.client.Schema().ClassGetter().WithClassName(className).Do(ctx)
}

func (a *schemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	return a.client.Schema().PropertyCreator().WithClassName(className).WithProperty(property).Do(ctx)
}
