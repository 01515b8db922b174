package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"

	"github.com/NazzX1/rag-v2/internal/app"
	"github.com/NazzX1/rag-v2/internal/config"
	"github.com/NazzX1/rag-v2/internal/llm"
	"github.com/NazzX1/rag-v2/internal/llm/gemini"
	"github.com/NazzX1/rag-v2/internal/llm/openai"
	"github.com/NazzX1/rag-v2/internal/logger"
)

func main() {
	slogger := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(slogger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	provider, cleanup, err := buildProvider(ctx, cfg)
	if err != nil {
		slog.Error("failed to build llm provider", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	provider.SetGenerationModel(cfg.GenerationModelID)
	provider.SetEmbeddingModel(cfg.EmbeddingModelID, cfg.EmbeddingSize)

	application, err := app.New(cfg, deps.DB, deps.VectorStore, deps.NSQProducer, provider)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	if cfg.EnableEmbedWorker {
		consumer, err := nsq.NewConsumer(config.TopicChunkEmbed, config.ChannelEmbedWorker, nsq.NewConfig())
		if err != nil {
			slog.Error("failed to create NSQ consumer", "error", err)
			os.Exit(1)
		}
		consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
			return application.EmbedConsumer.HandleMessage(m)
		}))
		if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
			slog.Error("failed to connect to NSQLookupd", "error", err)
		} else {
			slog.Info("embed worker connected", "topic", config.TopicChunkEmbed)
		}
		defer consumer.Stop()
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func buildProvider(ctx context.Context, cfg *config.Config) (llm.Provider, func(), error) {
	switch cfg.LLMBackend {
	case "gemini":
		p, err := gemini.NewProvider(ctx, gemini.Config{
			APIKey:             cfg.GeminiAPIKey,
			InputMaxCharacters: cfg.InputMaxCharacters,
			MaxOutputTokens:    cfg.GenerationMaxOutputTokens,
			Temperature:        cfg.GenerationTemperature,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, func() {
			if err := p.Close(); err != nil {
				slog.Warn("failed to close gemini client", "error", err)
			}
		}, nil
	default:
		p := openai.NewProvider(openai.Config{
			APIKey:             cfg.OpenAIAPIKey,
			BaseURL:            cfg.OpenAIBaseURL,
			InputMaxCharacters: cfg.InputMaxCharacters,
			MaxOutputTokens:    cfg.GenerationMaxOutputTokens,
			Temperature:        cfg.GenerationTemperature,
		})
		return p, func() {}, nil
	}
}
