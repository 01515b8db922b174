package llm

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors shared by every provider. Callers match with errors.Is and
// decide whether to retry; providers never panic on malformed backend output.
var (
	ErrClientNotSet          = errors.New("llm: client was not set")
	ErrGenerationModelNotSet = errors.New("llm: generation model was not set")
	ErrEmbeddingModelNotSet  = errors.New("llm: embedding model was not set")
	ErrEmptyResponse         = errors.New("llm: backend returned an empty response")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DocumentType tells embedding backends whether the text is a stored document
// or a search query; backends that don't distinguish ignore it.
type DocumentType string

const (
	DocumentTypeDocument DocumentType = "document"
	DocumentTypeQuery    DocumentType = "query"
)

// GenerateOptions override per-call generation parameters. Zero values fall
// back to the provider's configured defaults.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float32
}

// Provider is the capability contract any generation/embedding backend must
// satisfy. Orchestration code depends only on this interface, never on a
// vendor SDK.
//
// GenerateText appends the prompt as a user message to a copy of history; the
// caller's slice is never mutated.
type Provider interface {
	SetGenerationModel(modelID string)
	SetEmbeddingModel(modelID string, embeddingSize int)
	GenerateText(ctx context.Context, prompt string, history []Message, opts GenerateOptions) (string, error)
	EmbedText(ctx context.Context, text string, docType DocumentType) ([]float32, error)
	ProcessText(text string) string
}

// Truncate limits text to maxChars runes and trims surrounding whitespace.
// Providers use it to implement ProcessText with a shared, deterministic rule.
func Truncate(text string, maxChars int) string {
	if maxChars > 0 {
		runes := []rune(text)
		if len(runes) > maxChars {
			text = string(runes[:maxChars])
		}
	}
	return strings.TrimSpace(text)
}
