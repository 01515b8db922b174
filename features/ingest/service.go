package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/NazzX1/rag-v2/features/asset"
	"github.com/NazzX1/rag-v2/internal/config"
	"github.com/NazzX1/rag-v2/internal/middleware"
	"github.com/NazzX1/rag-v2/internal/text"
	"github.com/NazzX1/rag-v2/internal/worker"
)

// Service coordinates one processing run end-to-end: resolve assets,
// optionally reset prior chunks, split file contents and bulk-insert the
// results.
type Service struct {
	projects ProjectStore
	assets   AssetStore
	chunks   ChunkRepository
	files    ContentReader
	vectors  VectorStore
	pub      EventPublisher
	locks    *projectLocks
}

func NewService(projects ProjectStore, assets AssetStore, chunks ChunkRepository, files ContentReader, vectors VectorStore, pub EventPublisher) *Service {
	return &Service{
		projects: projects,
		assets:   assets,
		chunks:   chunks,
		files:    files,
		vectors:  vectors,
		pub:      pub,
		locks:    newProjectLocks(),
	}
}

// Process runs one ingestion request. A file that cannot be read or splits
// into nothing is logged and skipped; the request fails with
// ErrProcessingFailed only when no file at all was processed. When DoReset is
// set, all existing chunks of the project are removed before any insert of
// this run.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if err := text.ValidateParams(req.ChunkSize, req.OverlapSize); err != nil {
		return nil, err
	}

	p, err := s.projects.GetOrCreate(ctx, req.ProjectID, req.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}

	targets, err := s.resolveAssets(ctx, p.ID, req.FileID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrNoAssets
	}

	// One writer per project: reset and insert of concurrent runs must not
	// interleave.
	release := s.locks.Acquire(p.ID)
	defer release()

	if req.DoReset {
		deleted, err := s.chunks.DeleteByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("reset chunks: %w", err)
		}
		slog.InfoContext(ctx, "chunks reset", "project_id", p.ID, "deleted", deleted)

		if s.vectors != nil {
			if err := s.vectors.DeleteChunksByProject(ctx, p.ID); err != nil {
				slog.WarnContext(ctx, "failed to reset chunk vectors", "error", err, "project_id", p.ID)
			}
		}
	}

	result := &ProcessResult{}
	for _, a := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inserted, err := s.processAsset(ctx, req.ProjectID, p.ID, a, req.ChunkSize, req.OverlapSize)
		if err != nil {
			return nil, err
		}
		if inserted == 0 {
			continue
		}

		result.InsertedChunks += inserted
		result.ProcessedFiles++
	}

	if result.ProcessedFiles == 0 {
		return nil, ErrProcessingFailed
	}

	return result, nil
}

func (s *Service) resolveAssets(ctx context.Context, projectID, fileID string) ([]asset.Asset, error) {
	if fileID != "" {
		a, err := s.assets.GetForProject(ctx, projectID, fileID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, fileID)
		}
		return []asset.Asset{*a}, nil
	}

	assets, err := s.assets.ListByProject(ctx, projectID, asset.TypeFile)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// processAsset returns the number of chunks inserted for one asset; zero
// means the asset was skipped.
func (s *Service) processAsset(ctx context.Context, dirID, projectID string, a asset.Asset, chunkSize, overlapSize int) (int, error) {
	// Files live on disk under the client-facing project identifier, not the
	// internal row id.
	content, err := s.files.ReadContent(dirID, a.Name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read asset content, skipping", "error", err, "asset_id", a.ID, "name", a.Name)
		return 0, nil
	}

	chunks, err := text.Split(text.Normalize(content), chunkSize, overlapSize)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		slog.ErrorContext(ctx, "asset produced no chunks, skipping", "asset_id", a.ID, "name", a.Name)
		return 0, nil
	}

	records := make([]ChunkRecord, 0, len(chunks))
	for i, c := range chunks {
		metadata := make(map[string]any, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			metadata[k] = v
		}
		metadata["source"] = a.Name

		records = append(records, ChunkRecord{
			ProjectID: projectID,
			AssetID:   a.ID,
			Text:      c.Text,
			Metadata:  metadata,
			Order:     i + 1,
		})
	}

	ids, err := s.chunks.InsertMany(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}

	s.publishEmbedEvents(ctx, records, ids)

	return len(records), nil
}

// publishEmbedEvents hands the run's chunks to the async embed pipeline.
// Failures are logged, never escalated: vectors can be rebuilt, chunks are
// already durable.
func (s *Service) publishEmbedEvents(ctx context.Context, records []ChunkRecord, ids []string) {
	if s.pub == nil {
		return
	}

	for i, rec := range records {
		chunkID := ""
		if i < len(ids) {
			chunkID = ids[i]
		}

		payload, err := json.Marshal(worker.ChunkEmbedPayload{
			ChunkID:       chunkID,
			ProjectID:     rec.ProjectID,
			AssetID:       rec.AssetID,
			Content:       rec.Text,
			ChunkOrder:    rec.Order,
			CorrelationID: middleware.GetCorrelationID(ctx),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to marshal embed event", "error", err)
			continue
		}

		if err := s.pub.Publish(config.TopicChunkEmbed, payload); err != nil {
			slog.ErrorContext(ctx, "failed to publish embed event", "error", err, "chunk_id", chunkID)
		}
	}
}
