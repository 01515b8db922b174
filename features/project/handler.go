package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

const (
	SignalProjectsFound   = "projects_found"
	SignalNoProjectsError = "no_projects_error"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns the project identifiers owned by an email.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	projects, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list projects", "error", err, "email", email)
		h.writeSignal(r.Context(), w, http.StatusInternalServerError, SignalNoProjectsError, nil)
		return
	}

	if len(projects) == 0 {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalNoProjectsError, nil)
		return
	}

	results := make([]string, 0, len(projects))
	for _, p := range projects {
		results = append(results, p.ProjectID)
	}

	h.writeSignal(r.Context(), w, http.StatusOK, SignalProjectsFound, map[string]interface{}{
		"results": results,
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
