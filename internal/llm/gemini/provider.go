package gemini

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/NazzX1/rag-v2/internal/llm"
)

// Config carries construction-time defaults; zero values are replaced with
// sensible fallbacks.
type Config struct {
	APIKey             string
	InputMaxCharacters int
	MaxOutputTokens    int
	Temperature        float32
}

// Provider adapts the Gemini SDK to the llm.Provider contract.
type Provider struct {
	client *genai.Client

	inputMaxCharacters int
	maxOutputTokens    int
	temperature        float32

	generationModelID string
	embeddingModelID  string
	embeddingSize     int
}

func NewProvider(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Provider, error) {
	if cfg.InputMaxCharacters <= 0 {
		cfg.InputMaxCharacters = 1024
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:             client,
		inputMaxCharacters: cfg.InputMaxCharacters,
		maxOutputTokens:    cfg.MaxOutputTokens,
		temperature:        cfg.Temperature,
	}, nil
}

func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
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
	if p.client == nil {
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

	model := p.client.GenerativeModel(p.generationModelID)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(temperature)

	session := model.StartChat()
	session.History = toGenaiHistory(history)

	resp, err := session.SendMessage(ctx, genai.Text(p.ProcessText(prompt)))
	if err != nil {
		slog.Error("gemini generation failed", "error", err, "model", p.generationModelID)
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		slog.Error("gemini returned no candidates", "model", p.generationModelID)
		return "", llm.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", llm.ErrEmptyResponse
	}

	return b.String(), nil
}

func (p *Provider) EmbedText(ctx context.Context, text string, docType llm.DocumentType) ([]float32, error) {
	if p.client == nil {
		return nil, llm.ErrClientNotSet
	}
	if p.embeddingModelID == "" {
		return nil, llm.ErrEmbeddingModelNotSet
	}

	em := p.client.EmbeddingModel(p.embeddingModelID)
	if docType == llm.DocumentTypeQuery {
		em.TaskType = genai.TaskTypeRetrievalQuery
	} else {
		em.TaskType = genai.TaskTypeRetrievalDocument
	}

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		slog.Error("gemini embedding failed", "error", err, "model", p.embeddingModelID)
		return nil, err
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		slog.Error("gemini returned an empty embedding", "model", p.embeddingModelID)
		return nil, llm.ErrEmptyResponse
	}

	return res.Embedding.Values, nil
}

func toGenaiHistory(history []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

var _ llm.Provider = (*Provider)(nil)
