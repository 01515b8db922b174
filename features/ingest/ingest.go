package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/NazzX1/rag-v2/features/asset"
	"github.com/NazzX1/rag-v2/features/project"
)

var (
	ErrAssetNotFound    = errors.New("asset does not belong to the project")
	ErrNoAssets         = errors.New("no assets found for the project")
	ErrProcessingFailed = errors.New("processing produced no chunks")
)

// ProcessRequest drives one processing run. FileID restricts the run to a
// single asset; empty means all FILE assets of the project.
type ProcessRequest struct {
	ProjectID   string
	Email       string
	FileID      string
	ChunkSize   int
	OverlapSize int
	DoReset     bool
}

// ProcessResult aggregates a successful run.
type ProcessResult struct {
	InsertedChunks int `json:"inserted_chunks"`
	ProcessedFiles int `json:"processed_files"`
}

// ChunkRecord is one chunk row as persisted. Order is 1-based and contiguous
// within an asset's chunk sequence.
type ChunkRecord struct {
	ID        string
	ProjectID string
	AssetID   string
	Text      string
	Metadata  map[string]any
	Order     int
	CreatedAt time.Time
}

type ProjectStore interface {
	GetOrCreate(ctx context.Context, projectID, email string) (*project.Project, error)
}

type AssetStore interface {
	GetForProject(ctx context.Context, projectID, assetID string) (*asset.Asset, error)
	ListByProject(ctx context.Context, projectID, assetType string) ([]asset.Asset, error)
}

type ChunkRepository interface {
	InsertMany(ctx context.Context, chunks []ChunkRecord) ([]string, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// ContentReader is the read-side slice of the file storage collaborator.
type ContentReader interface {
	ReadContent(projectID, name string) (string, error)
}

// VectorStore mirrors chunk deletion into the vector index on reset.
type VectorStore interface {
	DeleteChunksByProject(ctx context.Context, projectID string) error
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}
