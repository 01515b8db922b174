package nlp

import (
	"context"
	"errors"

	"github.com/NazzX1/rag-v2/features/project"
	"github.com/NazzX1/rag-v2/internal/llm"
	"github.com/NazzX1/rag-v2/internal/retrieval"
)

var (
	ErrNoIndexedChunks = errors.New("no indexed chunks matched the query")
)

type SearchRequest struct {
	ProjectID string
	Email     string
	Query     string
	Limit     int
}

type AnswerRequest struct {
	ProjectID string
	Email     string
	Query     string
	Limit     int
}

// Answer is a generated response plus the retrieved context it was grounded
// on.
type Answer struct {
	Text    string                   `json:"answer"`
	Sources []retrieval.SearchResult `json:"sources"`
}

type Searcher interface {
	Search(ctx context.Context, projectID, query string, limit int) ([]retrieval.SearchResult, error)
}

type ProjectStore interface {
	GetOrCreate(ctx context.Context, projectID, email string) (*project.Project, error)
}

// Generator is the text-generation slice of the llm provider.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, history []llm.Message, opts llm.GenerateOptions) (string, error)
	ProcessText(text string) string
}
