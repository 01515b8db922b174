package nlp

import (
	"context"
	"fmt"

	"github.com/NazzX1/rag-v2/internal/llm"
	"github.com/NazzX1/rag-v2/internal/retrieval"
)

// Service answers semantic queries over a project's index, optionally
// augmented with generated answers.
type Service struct {
	projects  ProjectStore
	searcher  Searcher
	generator Generator
}

func NewService(projects ProjectStore, searcher Searcher, generator Generator) *Service {
	return &Service{projects: projects, searcher: searcher, generator: generator}
}

func (s *Service) Search(ctx context.Context, req SearchRequest) ([]retrieval.SearchResult, error) {
	p, err := s.projects.GetOrCreate(ctx, req.ProjectID, req.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}

	return s.searcher.Search(ctx, p.ID, req.Query, req.Limit)
}

// Answer retrieves the project's most relevant chunks and generates a
// grounded response from them.
func (s *Service) Answer(ctx context.Context, req AnswerRequest) (*Answer, error) {
	p, err := s.projects.GetOrCreate(ctx, req.ProjectID, req.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}

	docs, err := s.searcher.Search(ctx, p.ID, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoIndexedChunks
	}

	prompt := buildAnswerPrompt(req.Query, docs, s.generator.ProcessText)
	history := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	text, err := s.generator.GenerateText(ctx, prompt, history, llm.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{Text: text, Sources: docs}, nil
}
