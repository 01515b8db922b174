package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// ClassDataChunk holds one embedded text chunk per object. Vectors are
// supplied by the embed worker, never computed by Weaviate itself.
const ClassDataChunk = "DataChunk"

// SchemaClient is the slice of the Weaviate schema API used here.
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// EnsureSchema creates the DataChunk class when missing and backfills any
// property added since the class was first created.
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	exists, err := client.ClassExists(ctx, ClassDataChunk)
	if err != nil {
		return err
	}

	properties := []*models.Property{
		{
			Name:     "content",
			DataType: []string{"text"},
		},
		{
			Name:     "projectId",
			DataType: []string{"string"}, // exact match filtering
		},
		{
			Name:     "assetId",
			DataType: []string{"string"},
		},
		{
			Name:     "chunkId",
			DataType: []string{"string"},
		},
		{
			Name:     "chunkOrder",
			DataType: []string{"int"},
		},
	}

	if !exists {
		class := &models.Class{
			Class:       ClassDataChunk,
			Description: "A chunk of an uploaded project document",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	class, err := client.GetClass(ctx, ClassDataChunk)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, ClassDataChunk, p); err != nil {
				return err
			}
		}
	}

	return nil
}
