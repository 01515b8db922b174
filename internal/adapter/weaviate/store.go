package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/NazzX1/rag-v2/internal/retrieval"
	"github.com/NazzX1/rag-v2/internal/vector"
	"github.com/NazzX1/rag-v2/internal/worker"
)

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

func (s *Store) StoreChunk(ctx context.Context, chunk worker.Chunk) error {
	_, err := s.client.Data().Creator().
		WithClassName(vector.ClassDataChunk).
		WithProperties(map[string]interface{}{
			"content":    chunk.Content,
			"projectId":  chunk.ProjectID,
			"assetId":    chunk.AssetID,
			"chunkId":    chunk.ChunkID,
			"chunkOrder": chunk.ChunkOrder,
		}).
		WithVector(chunk.Vector).
		Do(ctx)
	return err
}

func (s *Store) DeleteChunksByProject(ctx context.Context, projectID string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(vector.ClassDataChunk).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"projectId"}).
			WithOperator(filters.Equal).
			WithValueString(projectID)).
		Do(ctx)
	return err
}

// Search runs a hybrid (BM25 + vector) query scoped to one project.
func (s *Store) Search(ctx context.Context, query string, queryVector []float32, projectID string, limit int) ([]retrieval.SearchResult, error) {
	hybrid := s.client.GraphQL().HybridArgumentBuilder().
		WithQuery(query).
		WithVector(queryVector)

	where := filters.Where().
		WithPath([]string{"projectId"}).
		WithOperator(filters.Equal).
		WithValueString(projectID)

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "projectId"},
		{Name: "assetId"},
		{Name: "chunkId"},
		{Name: "chunkOrder"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "score"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(vector.ClassDataChunk).
		WithHybrid(hybrid).
		WithWhere(where).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var results []retrieval.SearchResult
	data, ok := res.Data["Get"].(map[string]interface{})
	if !ok {
		return results, nil
	}
	chunks, ok := data[vector.ClassDataChunk].([]interface{})
	if !ok {
		return results, nil
	}

	for _, c := range chunks {
		props, ok := c.(map[string]interface{})
		if !ok {
			continue
		}

		result := retrieval.SearchResult{
			Metadata: make(map[string]interface{}),
		}
		if content, ok := props["content"].(string); ok {
			result.Content = content
		}
		if assetID, ok := props["assetId"].(string); ok {
			result.AssetID = assetID
		}
		if chunkID, ok := props["chunkId"].(string); ok {
			result.ChunkID = chunkID
		}
		if order, ok := props["chunkOrder"].(float64); ok {
			result.ChunkOrder = int(order)
		}

		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			// Weaviate returns the hybrid score as a string.
			if score, ok := additional["score"].(string); ok {
				var fScore float64
				fmt.Sscanf(score, "%f", &fScore)
				result.Score = float32(fScore)
			} else if score, ok := additional["score"].(float64); ok {
				result.Score = float32(score)
			}
		}

		results = append(results, result)
	}

	return results, nil
}
