package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

type MockSchemaClient struct {
	CreatedClass    *models.Class
	ExistingClass   *models.Class
	AddedProperties []*models.Property
	ExistsErr       error
}

func (m *MockSchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.ExistingClass != nil, nil
}

func (m *MockSchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	if m.ExistingClass != nil {
		return errors.New("status code: 422, error: class name ArticleChunk already exists")
	}
	m.CreatedClass = class
	return nil
}

func (m *MockSchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return m.ExistingClass, nil
}

func (m *MockSchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	m.AddedProperties = append(m.AddedProperties, property)
	return nil
}

var testSpec = Spec{Name: "ArticleChunk", Dimension: 1536, Metric: "cosine"}

func TestEnsureSchema_CreatesClass(t *testing.T) {
	client := &MockSchemaClient{}
	require.NoError(t, EnsureSchema(context.Background(), client, testSpec))
	require.NotNil(t, client.CreatedClass, "class not created")

	assert.Equal(t, "ArticleChunk", client.CreatedClass.Class)
	assert.Equal(t, "none", client.CreatedClass.Vectorizer)
	assert.Equal(t, map[string]interface{}{"distance": "cosine"}, client.CreatedClass.VectorIndexConfig)

	names := make(map[string]string)
	for _, p := range client.CreatedClass.Properties {
		names[p.Name] = p.DataType[0]
	}
	assert.Equal(t, map[string]string{"chunkId": "text", "source": "text", "text": "text"}, names)
}

func TestEnsureSchema_ExistingClassIsSuccess(t *testing.T) {
	client := &MockSchemaClient{ExistingClass: &models.Class{Class: "ArticleChunk", Properties: ChunkProperties()}}

	require.NoError(t, EnsureSchema(context.Background(), client, testSpec))
	assert.Nil(t, client.CreatedClass)
	assert.Empty(t, client.AddedProperties)
}

func TestEnsureSchema_AddsMissingProperties(t *testing.T) {
	client := &MockSchemaClient{ExistingClass: &models.Class{
		Class:      "ArticleChunk",
		Properties: []*models.Property{{Name: "text", DataType: []string{"text"}}},
	}}

	require.NoError(t, EnsureSchema(context.Background(), client, testSpec))

	added := make(map[string]bool)
	for _, p := range client.AddedProperties {
		added[p.Name] = true
	}
	assert.True(t, added["chunkId"])
	assert.True(t, added["source"])
	assert.False(t, added["text"], "should not re-add existing property")
}

func TestEnsureSchema_ExistingClassMustBeCosine(t *testing.T) {
	tests := []struct {
		name    string
		class   *models.Class
		wantErr bool
	}{
		{name: "Cosine", class: &models.Class{Vectorizer: "none", VectorIndexConfig: map[string]interface{}{"distance": "cosine"}}},
		{name: "Default Distance", class: &models.Class{Vectorizer: "none"}},
		{name: "L2", class: &models.Class{Vectorizer: "none", VectorIndexConfig: map[string]interface{}{"distance": "l2-squared"}}, wantErr: true},
		{name: "Vectorizer", class: &models.Class{Vectorizer: "text2vec-openai", VectorIndexConfig: map[string]interface{}{"distance": "cosine"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.class.Class = "ArticleChunk"
			tt.class.Properties = ChunkProperties()
			client := &MockSchemaClient{ExistingClass: tt.class}

			err := EnsureSchema(context.Background(), client, testSpec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMetricMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEnsureSchema_CreateAndExistenceCheckFail(t *testing.T) {
	client := &MockSchemaClient{ExistsErr: errors.New("connection refused")}
	client.ExistingClass = &models.Class{}
	assert.Error(t, EnsureSchema(context.Background(), client, testSpec))
}

func TestEnsureSchema_RejectsMetric(t *testing.T) {
	err := EnsureSchema(context.Background(), &MockSchemaClient{}, Spec{Name: "X", Metric: "dotproduct"})
	assert.Error(t, err)
}

func TestCheckDimension(t *testing.T) {
	assert.NoError(t, CheckDimension(make([]float32, 3), 3))
	err := CheckDimension(make([]float32, 2), 3)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}
