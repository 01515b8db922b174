package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/NazzX1/rag-v2/features/asset"
	"github.com/NazzX1/rag-v2/features/project"
	"github.com/NazzX1/rag-v2/internal/config"
)

func newProcessRequest(t *testing.T, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/process/a@b.c/p1", &buf)
	req.SetPathValue("email", "a@b.c")
	req.SetPathValue("project_id", "p1")
	return req
}

func decodeSignal(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandler_Process_Success(t *testing.T) {
	svc, projects, assets, chunks, files, _, pub := newTestService()
	handler := NewHandler(svc)

	p := &project.Project{ID: "row-1", ProjectID: "p1", Email: "a@b.c"}
	projects.On("GetOrCreate", mock.Anything, "p1", "a@b.c").Return(p, nil)
	assets.On("ListByProject", mock.Anything, "row-1", asset.TypeFile).
		Return([]asset.Asset{{ID: "as-1", ProjectID: "row-1", Name: "f.txt"}}, nil)
	files.On("ReadContent", "p1", "f.txt").Return("some content to split", nil)
	chunks.On("InsertMany", mock.Anything, mock.Anything).Return([]string{"c1"}, nil)
	pub.On("Publish", config.TopicChunkEmbed, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, map[string]any{
		"chunk_size": 100, "overlap_size": 20, "do_reset": false,
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSignal(t, rec)
	assert.Equal(t, SignalProcessingSuccess, resp["signal"])
	assert.Equal(t, float64(1), resp["inserted_chunks"])
	assert.Equal(t, float64(1), resp["processed_files"])
}

func TestHandler_Process_DefaultsWhenBodyOmitted(t *testing.T) {
	svc, projects, assets, chunks, files, _, pub := newTestService()
	handler := NewHandler(svc)

	p := &project.Project{ID: "row-1", ProjectID: "p1", Email: "a@b.c"}
	projects.On("GetOrCreate", mock.Anything, "p1", "a@b.c").Return(p, nil)
	assets.On("ListByProject", mock.Anything, "row-1", asset.TypeFile).
		Return([]asset.Asset{{ID: "as-1", ProjectID: "row-1", Name: "f.txt"}}, nil)
	files.On("ReadContent", "p1", "f.txt").Return("short", nil)
	chunks.On("InsertMany", mock.Anything, mock.MatchedBy(func(recs []ChunkRecord) bool {
		return len(recs) == 1
	})).Return([]string{"c1"}, nil)
	pub.On("Publish", config.TopicChunkEmbed, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Process_UnknownFileID(t *testing.T) {
	svc, projects, assets, _, _, _, _ := newTestService()
	handler := NewHandler(svc)

	p := &project.Project{ID: "row-1", ProjectID: "p1", Email: "a@b.c"}
	projects.On("GetOrCreate", mock.Anything, "p1", "a@b.c").Return(p, nil)
	assets.On("GetForProject", mock.Anything, "row-1", "foreign").Return(nil, context.DeadlineExceeded)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, map[string]any{
		"file_id": "foreign", "chunk_size": 100, "overlap_size": 20,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, SignalFileIDError, decodeSignal(t, rec)["signal"])
}

func TestHandler_Process_NoFiles(t *testing.T) {
	svc, projects, assets, _, _, _, _ := newTestService()
	handler := NewHandler(svc)

	p := &project.Project{ID: "row-1", ProjectID: "p1", Email: "a@b.c"}
	projects.On("GetOrCreate", mock.Anything, "p1", "a@b.c").Return(p, nil)
	assets.On("ListByProject", mock.Anything, "row-1", asset.TypeFile).Return([]asset.Asset{}, nil)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, map[string]any{
		"chunk_size": 100, "overlap_size": 20,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, SignalNoFilesError, decodeSignal(t, rec)["signal"])
}

func TestHandler_Process_InvalidChunkParams(t *testing.T) {
	svc, _, _, _, _, _, _ := newTestService()
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, map[string]any{
		"chunk_size": 10, "overlap_size": 10,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeSignal(t, rec)
	assert.Equal(t, SignalProcessingFailed, resp["signal"])
	assert.NotEmpty(t, resp["detail"])
}

func TestHandler_Process_MalformedBody(t *testing.T) {
	svc, _, _, _, _, _, _ := newTestService()
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/process/a@b.c/p1", bytes.NewBufferString("{not json"))
	req.SetPathValue("email", "a@b.c")
	req.SetPathValue("project_id", "p1")

	rec := httptest.NewRecorder()
	handler.Process(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Process_AllFilesFailed(t *testing.T) {
	svc, projects, assets, _, files, _, _ := newTestService()
	handler := NewHandler(svc)

	p := &project.Project{ID: "row-1", ProjectID: "p1", Email: "a@b.c"}
	projects.On("GetOrCreate", mock.Anything, "p1", "a@b.c").Return(p, nil)
	assets.On("ListByProject", mock.Anything, "row-1", asset.TypeFile).
		Return([]asset.Asset{{ID: "as-1", ProjectID: "row-1", Name: "gone.txt"}}, nil)
	files.On("ReadContent", "p1", "gone.txt").Return("", assert.AnError)

	rec := httptest.NewRecorder()
	handler.Process(rec, newProcessRequest(t, map[string]any{
		"chunk_size": 100, "overlap_size": 20,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, SignalProcessingFailed, decodeSignal(t, rec)["signal"])
}
