package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

type ProjectRepo interface {
	Count(ctx context.Context) (int, error)
}

type AssetRepo interface {
	Count(ctx context.Context) (int, error)
}

type ChunkRepo interface {
	Count(ctx context.Context) (int, error)
}

type JobRepo interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	projectRepo ProjectRepo
	assetRepo   AssetRepo
	chunkRepo   ChunkRepo
	jobRepo     JobRepo
}

func NewHandler(p ProjectRepo, a AssetRepo, c ChunkRepo, j JobRepo) *Handler {
	return &Handler{projectRepo: p, assetRepo: a, chunkRepo: c, jobRepo: j}
}

type StatsResponse struct {
	Projects   int `json:"projects"`
	Assets     int `json:"assets"`
	Chunks     int `json:"chunks"`
	FailedJobs int `json:"failed_jobs"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pCount, err := h.projectRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count projects", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count projects", http.StatusInternalServerError)
		return
	}

	aCount, err := h.assetRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count assets", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count assets", http.StatusInternalServerError)
		return
	}

	cCount, err := h.chunkRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count chunks", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count chunks", http.StatusInternalServerError)
		return
	}

	jCount, err := h.jobRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count jobs", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count jobs", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{
		Projects:   pCount,
		Assets:     aCount,
		Chunks:     cCount,
		FailedJobs: jCount,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": resp}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
