package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

const (
	SignalUploadSuccess    = "file_upload_success"
	SignalUploadFailed     = "file_upload_failed"
	SignalTypeNotSupported = "file_type_not_supported"
	SignalSizeExceeded     = "file_size_exceeded"
)

var allowedExtensions = map[string]bool{
	".txt": true, ".md": true, ".pdf": true, ".json": true, ".csv": true,
}

// FileStore is the upload-side slice of the file storage collaborator.
type FileStore interface {
	Write(projectID, name string, r io.Reader) (int64, error)
	Remove(projectID, name string) error
}

type Handler struct {
	service         *Service
	store           FileStore
	maxUploadSizeMB int64
}

func NewHandler(service *Service, store FileStore, maxUploadSizeMB int64) *Handler {
	return &Handler{service: service, store: store, maxUploadSizeMB: maxUploadSizeMB}
}

// Upload accepts a multipart file, streams it into the project's storage
// directory and registers the asset record.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	projectID := r.PathValue("project_id")

	maxBytes := h.maxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalSizeExceeded, nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalUploadFailed, nil)
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !allowedExtensions[ext] {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalTypeNotSupported, nil)
		return
	}

	// The stored name is opaque; the original filename never touches disk.
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	size, err := h.store.Write(projectID, name, file)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write uploaded file", "error", err, "project_id", projectID)
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalUploadFailed, nil)
		return
	}

	a, err := h.service.RegisterUpload(r.Context(), projectID, email, name, size)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to register asset", "error", err, "project_id", projectID)
		if removeErr := h.store.Remove(projectID, name); removeErr != nil {
			slog.WarnContext(r.Context(), "failed to clean up uploaded file", "error", removeErr)
		}
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalUploadFailed, nil)
		return
	}

	h.writeSignal(r.Context(), w, http.StatusOK, SignalUploadSuccess, map[string]interface{}{
		"file_id": a.ID,
	})
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
