package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/NazzX1/rag-v2/internal/middleware"
	"github.com/NazzX1/rag-v2/internal/text"
)

const (
	SignalProcessingSuccess = "processing_success"
	SignalProcessingFailed  = "processing_failed"
	SignalNoFilesError      = "no_files_error"
	SignalFileIDError       = "file_id_error"
)

type processBody struct {
	FileID      string `json:"file_id"`
	ChunkSize   int    `json:"chunk_size"`
	OverlapSize int    `json:"overlap_size"`
	DoReset     bool   `json:"do_reset"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Process runs the chunking pipeline over a project's uploaded files.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	projectID := r.PathValue("project_id")

	// An omitted body runs with the default window.
	body := processBody{ChunkSize: 100, OverlapSize: 20}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalProcessingFailed, nil)
		return
	}

	result, err := h.service.Process(r.Context(), ProcessRequest{
		ProjectID:   projectID,
		Email:       email,
		FileID:      body.FileID,
		ChunkSize:   body.ChunkSize,
		OverlapSize: body.OverlapSize,
		DoReset:     body.DoReset,
	})
	if err != nil {
		h.writeError(r.Context(), w, err, projectID)
		return
	}

	h.writeSignal(r.Context(), w, http.StatusOK, SignalProcessingSuccess, map[string]interface{}{
		"inserted_chunks": result.InsertedChunks,
		"processed_files": result.ProcessedFiles,
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, projectID string) {
	switch {
	case errors.Is(err, ErrAssetNotFound):
		h.writeSignal(ctx, w, http.StatusBadRequest, SignalFileIDError, nil)
	case errors.Is(err, ErrNoAssets):
		h.writeSignal(ctx, w, http.StatusBadRequest, SignalNoFilesError, nil)
	case errors.Is(err, ErrProcessingFailed):
		h.writeSignal(ctx, w, http.StatusBadRequest, SignalProcessingFailed, nil)
	case errors.Is(err, text.ErrInvalidChunkSize), errors.Is(err, text.ErrInvalidOverlap):
		h.writeSignal(ctx, w, http.StatusBadRequest, SignalProcessingFailed, map[string]interface{}{
			"detail": err.Error(),
		})
	default:
		slog.ErrorContext(ctx, "processing run failed", "error", err, "project_id", projectID)
		h.writeSignal(ctx, w, http.StatusInternalServerError, SignalProcessingFailed, nil)
	}
}

func (h *Handler) writeSignal(ctx context.Context, w http.ResponseWriter, status int, signal string, extra map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"signal":        signal,
		"correlationId": middleware.GetCorrelationID(ctx),
	}
	for k, v := range extra {
		resp[k] = v
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
