package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NazzX1/rag-v2/internal/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config carries construction-time defaults; zero values are replaced with
// sensible fallbacks.
type Config struct {
	APIKey             string
	BaseURL            string
	InputMaxCharacters int
	MaxOutputTokens    int
	Temperature        float32
}

// Provider talks to the OpenAI HTTP API (chat completions + embeddings).
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client

	inputMaxCharacters int
	maxOutputTokens    int
	temperature        float32

	generationModelID string
	embeddingModelID  string
	embeddingSize     int
}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.InputMaxCharacters <= 0 {
		cfg.InputMaxCharacters = 1024
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}

	return &Provider{
		apiKey:             cfg.APIKey,
		baseURL:            cfg.BaseURL,
		client:             &http.Client{Timeout: 60 * time.Second},
		inputMaxCharacters: cfg.InputMaxCharacters,
		maxOutputTokens:    cfg.MaxOutputTokens,
		temperature:        cfg.Temperature,
	}
}

func (p *Provider) SetGenerationModel(modelID string) {
	p.generationModelID = modelID
}

func (p *Provider) SetEmbeddingModel(modelID string, embeddingSize int) {
	p.embeddingModelID = modelID
	p.embeddingSize = embeddingSize
}

func (p *Provider) ProcessText(text string) string {
	return llm.Truncate(text, p.inputMaxCharacters)
}

func (p *Provider) GenerateText(ctx context.Context, prompt string, history []llm.Message, opts llm.GenerateOptions) (string, error) {
	if p.apiKey == "" {
		return "", llm.ErrClientNotSet
	}
	if p.generationModelID == "" {
		return "", llm.ErrGenerationModelNotSet
	}

	maxTokens := p.maxOutputTokens
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}
	temperature := p.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	// Copy: the caller keeps ownership of its history slice.
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: p.ProcessText(prompt)})

	reqBody := map[string]interface{}{
		"model":       p.generationModelID,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := p.post(ctx, "/chat/completions", reqBody, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		slog.Error("openai returned no choices", "model", p.generationModelID)
		return "", llm.ErrEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}

func (p *Provider) EmbedText(ctx context.Context, text string, docType llm.DocumentType) ([]float32, error) {
	if p.apiKey == "" {
		return nil, llm.ErrClientNotSet
	}
	if p.embeddingModelID == "" {
		return nil, llm.ErrEmbeddingModelNotSet
	}

	reqBody := map[string]interface{}{
		"model": p.embeddingModelID,
		"input": text,
	}
	if p.embeddingSize > 0 {
		reqBody["dimensions"] = p.embeddingSize
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := p.post(ctx, "/embeddings", reqBody, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		slog.Error("openai returned no embedding", "model", p.embeddingModelID)
		return nil, llm.ErrEmptyResponse
	}

	return result.Data[0].Embedding, nil
}

func (p *Provider) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai api error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var _ llm.Provider = (*Provider)(nil)
