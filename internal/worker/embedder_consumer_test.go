package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NazzX1/rag-v2/internal/worker"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) StoreChunk(ctx context.Context, chunk worker.Chunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockVectorStore) DeleteChunksByProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, handler string, payload []byte, errMsg string) error {
	args := m.Called(ctx, handler, payload, errMsg)
	return args.Error(0)
}

func newEmbedMessage(t *testing.T, payload worker.ChunkEmbedPayload, attempts uint16) *nsq.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	m := nsq.NewMessage(nsq.MessageID{}, body)
	m.Attempts = attempts
	return m
}

func TestEmbedConsumer_HandleMessage(t *testing.T) {
	payload := worker.ChunkEmbedPayload{
		ChunkID:    "chunk-1",
		ProjectID:  "proj-uuid",
		AssetID:    "asset-uuid",
		Content:    "some chunk text",
		ChunkOrder: 3,
	}

	t.Run("Success", func(t *testing.T) {
		embedder := new(MockEmbedder)
		store := new(MockVectorStore)

		embedder.On("Embed", mock.Anything, "some chunk text").Return([]float32{0.1, 0.2}, nil)
		store.On("StoreChunk", mock.Anything, mock.MatchedBy(func(c worker.Chunk) bool {
			return c.ChunkID == "chunk-1" && c.ChunkOrder == 3 && len(c.Vector) == 2
		})).Return(nil)

		consumer := worker.NewEmbedConsumer(embedder, store, nil, 5)
		err := consumer.HandleMessage(newEmbedMessage(t, payload, 1))
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Poison Message Dropped", func(t *testing.T) {
		consumer := worker.NewEmbedConsumer(new(MockEmbedder), new(MockVectorStore), nil, 5)
		m := nsq.NewMessage(nsq.MessageID{}, []byte("{not json"))
		assert.NoError(t, consumer.HandleMessage(m))
	})

	t.Run("Embed Failure Retried", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

		consumer := worker.NewEmbedConsumer(embedder, new(MockVectorStore), new(MockFailureRecorder), 5)
		err := consumer.HandleMessage(newEmbedMessage(t, payload, 1))
		assert.Error(t, err)
	})

	t.Run("Exhausted Attempts Dead-Lettered", func(t *testing.T) {
		embedder := new(MockEmbedder)
		failures := new(MockFailureRecorder)

		embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))
		failures.On("RecordFailure", mock.Anything, "chunk.embed", mock.Anything, "backend down").Return(nil)

		consumer := worker.NewEmbedConsumer(embedder, new(MockVectorStore), failures, 5)
		err := consumer.HandleMessage(newEmbedMessage(t, payload, 5))
		assert.NoError(t, err)
		failures.AssertExpectations(t)
	})

	t.Run("Store Failure Retried", func(t *testing.T) {
		embedder := new(MockEmbedder)
		store := new(MockVectorStore)

		embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
		store.On("StoreChunk", mock.Anything, mock.Anything).Return(errors.New("weaviate down"))

		consumer := worker.NewEmbedConsumer(embedder, store, nil, 5)
		err := consumer.HandleMessage(newEmbedMessage(t, payload, 1))
		assert.Error(t, err)
	})
}
