package worker

import (
	"context"
)

// Chunk is the vector-store representation of one persisted text chunk.
type Chunk struct {
	ChunkID    string
	ProjectID  string
	AssetID    string
	Content    string
	Vector     []float32
	ChunkOrder int
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	StoreChunk(ctx context.Context, chunk Chunk) error
	DeleteChunksByProject(ctx context.Context, projectID string) error
}

// FailureRecorder dead-letters a payload once retries are exhausted.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, handler string, payload []byte, errMsg string) error
}
