package vector

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// SchemaClient defines the interface for Weaviate schema operations
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// ChunkProperties are stored on every chunk object.
func ChunkProperties() []*models.Property {
	return []*models.Property{
		{
			Name:     "chunkId",
			DataType: []string{"text"},
		},
		{
			Name:     "source",
			DataType: []string{"text"},
		},
		{
			Name:     "text",
			DataType: []string{"text"},
		},
	}
}

// EnsureSchema creates the chunk class, treating a concurrent creator's win as success,
// and adds any property an older class is missing.
func EnsureSchema(ctx context.Context, client SchemaClient, spec Spec) error {
	if spec.Metric != "" && spec.Metric != "cosine" {
		return fmt.Errorf("weaviate class %s: unsupported metric %q", spec.Name, spec.Metric)
	}

	properties := ChunkProperties()

	class := &models.Class{
		Class:       spec.Name,
		Description: "A word window of a scraped support page",
		Vectorizer:  "none",
		Properties:  properties,
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}

	createErr := client.CreateClass(ctx, class)
	if createErr == nil {
		return nil
	}

	exists, err := client.ClassExists(ctx, spec.Name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("create class %s: %w", spec.Name, createErr)
	}

	// Class exists: it must score by cosine, then gets any missing properties.
	existing, err := client.GetClass(ctx, spec.Name)
	if err != nil {
		return err
	}

	if err := checkClass(existing); err != nil {
		return fmt.Errorf("weaviate class %s: %w", spec.Name, err)
	}

	existingProps := make(map[string]bool)
	for _, p := range existing.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, spec.Name, p); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkClass rejects a class that embeds on its own or does not use cosine
// distance; scores are reported as 1 - distance. Weaviate defaults an unset
// distance to cosine.
func checkClass(class *models.Class) error {
	if class.Vectorizer != "" && class.Vectorizer != "none" {
		return fmt.Errorf("%w: vectorizer %q, want none", ErrMetricMismatch, class.Vectorizer)
	}
	cfg, _ := class.VectorIndexConfig.(map[string]interface{})
	if d, _ := cfg["distance"].(string); d != "" && d != "cosine" {
		return fmt.Errorf("%w: distance %q, want cosine", ErrMetricMismatch, d)
	}
	return nil
}
