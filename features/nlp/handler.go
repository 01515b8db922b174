package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NazzX1/rag-v2/internal/middleware"
)

const (
	SignalSearchSuccess = "vectordb_search_success"
	SignalSearchError   = "vectordb_search_error"
	SignalAnswerSuccess = "rag_answer_success"
	SignalAnswerError   = "rag_answer_error"
)

type queryBody struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search returns the project chunks most similar to the query text.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	projectID := r.PathValue("project_id")

	var body queryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalSearchError, nil)
		return
	}

	results, err := h.service.Search(r.Context(), SearchRequest{
		ProjectID: projectID,
		Email:     email,
		Query:     body.Text,
		Limit:     body.Limit,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "index search failed", "error", err, "project_id", projectID)
		h.writeSignal(r.Context(), w, http.StatusInternalServerError, SignalSearchError, nil)
		return
	}

	h.writeSignal(r.Context(), w, http.StatusOK, SignalSearchSuccess, map[string]interface{}{
		"results": results,
	})
}

// Answer generates a response grounded on the project's indexed chunks.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	projectID := r.PathValue("project_id")

	var body queryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalAnswerError, nil)
		return
	}

	answer, err := h.service.Answer(r.Context(), AnswerRequest{
		ProjectID: projectID,
		Email:     email,
		Query:     body.Text,
		Limit:     body.Limit,
	})
	if err != nil {
		if errors.Is(err, ErrNoIndexedChunks) {
			h.writeSignal(r.Context(), w, http.StatusBadRequest, SignalAnswerError, nil)
			return
		}
		slog.ErrorContext(r.Context(), "answer generation failed", "error", err, "project_id", projectID)
		h.writeSignal(r.Context(), w, http.StatusInternalServerError, SignalAnswerError, nil)
		return
	}

	h.writeSignal(r.Context(), w, http.StatusOK, SignalAnswerSuccess, map[string]interface{}{
		"answer":  answer.Text,
		"sources": answer.Sources,
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
