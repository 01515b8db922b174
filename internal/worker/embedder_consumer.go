package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

const embedHandlerName = "chunk.embed"

// EmbedConsumer turns chunk.embed events into stored vectors. Poison messages
// are dropped; transient failures are retried by NSQ until maxAttempts, then
// dead-lettered through the FailureRecorder.
type EmbedConsumer struct {
	embedder    Embedder
	store       VectorStore
	failures    FailureRecorder
	maxAttempts uint16
}

func NewEmbedConsumer(e Embedder, s VectorStore, f FailureRecorder, maxAttempts int) *EmbedConsumer {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &EmbedConsumer{
		embedder:    e,
		store:       s,
		failures:    f,
		maxAttempts: uint16(maxAttempts),
	}
}

func (c *EmbedConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var payload ChunkEmbedPayload
	if err := json.Unmarshal(m.Body, &payload); err != nil {
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if payload.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, payload.CorrelationID)
	}

	workCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	vector, err := c.embedder.Embed(workCtx, payload.Content)
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err, "chunk_id", payload.ChunkID, "attempts", m.Attempts)
		return c.failOrRetry(ctx, m, err)
	}

	chunk := Chunk{
		ChunkID:    payload.ChunkID,
		ProjectID:  payload.ProjectID,
		AssetID:    payload.AssetID,
		Content:    payload.Content,
		Vector:     vector,
		ChunkOrder: payload.ChunkOrder,
	}

	if err := c.store.StoreChunk(workCtx, chunk); err != nil {
		slog.ErrorContext(ctx, "store chunk failed", "error", err, "chunk_id", payload.ChunkID, "attempts", m.Attempts)
		return c.failOrRetry(ctx, m, err)
	}

	slog.InfoContext(ctx, "chunk vector stored", "chunk_id", payload.ChunkID, "chunk_order", payload.ChunkOrder)
	return nil
}

func (c *EmbedConsumer) failOrRetry(ctx context.Context, m *nsq.Message, cause error) error {
	if m.Attempts < c.maxAttempts {
		return cause
	}

	if c.failures != nil {
		if err := c.failures.RecordFailure(ctx, embedHandlerName, m.Body, cause.Error()); err != nil {
			slog.ErrorContext(ctx, "failed to record dead letter", "error", err)
			return cause
		}
		slog.WarnContext(ctx, "embed task dead-lettered", "attempts", m.Attempts)
	}
	return nil
}
