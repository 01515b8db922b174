package retrieval

import (
	"context"
	"time"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

type SearchResult struct {
	Content    string                 `json:"content"`
	Score      float32                `json:"score"`
	ChunkID    string                 `json:"chunk_id,omitempty"`
	AssetID    string                 `json:"asset_id,omitempty"`
	ChunkOrder int                    `json:"chunk_order,omitempty"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	Search(ctx context.Context, query string, queryVector []float32, projectID string, limit int) ([]SearchResult, error)
}

const defaultLimit = 10

// Service answers semantic queries over a project's indexed chunks. Every
// answered query is appended to the query log.
type Service struct {
	embedder Embedder
	store    VectorStore
	logger   *QueryLogger
}

func NewService(e Embedder, s VectorStore, l *QueryLogger) *Service {
	return &Service{embedder: e, store: s, logger: l}
}

func (s *Service) Search(ctx context.Context, projectID, query string, limit int) ([]SearchResult, error) {
	start := time.Now()

	if limit <= 0 {
		limit = defaultLimit
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Search(ctx, query, vec, projectID, limit)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Log(QueryLogEntry{
			Query:         query,
			ProjectID:     projectID,
			NumResults:    len(docs),
			Duration:      time.Since(start),
			CorrelationID: middleware.GetCorrelationID(ctx),
		})
	}

	return docs, nil
}
