package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/NazzX1/rag-v2/internal/config"
	"github.com/NazzX1/rag-v2/internal/llm"
	"github.com/NazzX1/rag-v2/internal/llm/openai"
	"github.com/NazzX1/rag-v2/internal/retrieval"
	"github.com/NazzX1/rag-v2/internal/worker"
)

type MockVectorStore struct{ mock.Mock }

func (m *MockVectorStore) StoreChunk(ctx context.Context, chunk worker.Chunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockVectorStore) DeleteChunksByProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockVectorStore) Search(ctx context.Context, query string, queryVector []float32, projectID string, limit int) ([]retrieval.SearchResult, error) {
	args := m.Called(ctx, query, queryVector, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]retrieval.SearchResult), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(topic string, body []byte) error {
	args := m.Called(topic, body)
	return args.Error(0)
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ServerPort:      8081,
		UploadDir:       t.TempDir(),
		MaxUploadSizeMB: 10,
		FileChunkSize:   512000,
		QueryLogPath:    t.TempDir() + "/query.log",
	}

	var provider llm.Provider = openai.NewProvider(openai.Config{APIKey: "test"})

	a, err := New(cfg, db, new(MockVectorStore), new(MockPublisher), provider)
	assert.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.Handler)
	assert.NotNil(t, a.IngestService)
	assert.NotNil(t, a.EmbedConsumer)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRoutes_JobsListWired(t *testing.T) {
	a := newTestApp(t)

	// sqlmock has no expectations, so the repo call fails; the route must
	// still resolve to the jobs handler rather than 404.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/failed", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRoutes_UnknownPath(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
