package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/NazzX1/rag-v2/features/asset"
	"github.com/NazzX1/rag-v2/features/ingest"
	"github.com/NazzX1/rag-v2/features/job"
	"github.com/NazzX1/rag-v2/features/nlp"
	"github.com/NazzX1/rag-v2/features/project"
	"github.com/NazzX1/rag-v2/features/stats"
	"github.com/NazzX1/rag-v2/internal/config"
	"github.com/NazzX1/rag-v2/internal/llm"
	"github.com/NazzX1/rag-v2/internal/middleware"
	"github.com/NazzX1/rag-v2/internal/retrieval"
	"github.com/NazzX1/rag-v2/internal/storage"
	"github.com/NazzX1/rag-v2/internal/worker"
)

// VectorStore is everything the application needs from the vector index.
type VectorStore interface {
	StoreChunk(ctx context.Context, chunk worker.Chunk) error
	DeleteChunksByProject(ctx context.Context, projectID string) error
	Search(ctx context.Context, query string, queryVector []float32, projectID string, limit int) ([]retrieval.SearchResult, error)
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

type App struct {
	Handler       http.Handler
	IngestService *ingest.Service
	EmbedConsumer *worker.EmbedConsumer

	port int
}

// New wires repositories, services and routes. The caller owns the db,
// vector store, publisher and llm provider lifecycles.
func New(
	cfg *config.Config,
	db *sql.DB,
	vecStore VectorStore,
	pub EventPublisher,
	provider llm.Provider,
) (*App, error) {
	store := storage.NewLocalStore(cfg.UploadDir, cfg.FileChunkSize)

	// Feature: Project
	projectRepo := project.NewPostgresRepo(db)
	projectService := project.NewService(projectRepo)
	projectHandler := project.NewHandler(projectService)

	// Feature: Asset
	assetRepo := asset.NewPostgresRepo(db)
	assetService := asset.NewService(assetRepo, projectService)
	assetHandler := asset.NewHandler(assetService, store, cfg.MaxUploadSizeMB)

	// Feature: Ingest
	chunkRepo := ingest.NewPostgresRepo(db)
	ingestService := ingest.NewService(projectService, assetRepo, chunkRepo, store, vecStore, pub)
	ingestHandler := ingest.NewHandler(ingestService)

	// Feature: Job
	jobRepo := job.NewPostgresRepo(db)
	jobService := job.NewService(jobRepo, pub)
	jobHandler := job.NewHandler(jobService)

	// Feature: Stats
	statsHandler := stats.NewHandler(projectRepo, assetRepo, chunkRepo, jobRepo)

	// Feature: Retrieval & NLP
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}

	retrievalService := retrieval.NewService(&queryEmbedder{provider: provider}, vecStore, queryLogger)
	nlpService := nlp.NewService(projectService, retrievalService, provider)
	nlpHandler := nlp.NewHandler(nlpService)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/data/upload/{email}/{project_id}", middleware.CorrelationID(enableCORS(assetHandler.Upload)))
	mux.Handle("POST /api/v1/data/process/{email}/{project_id}", middleware.CorrelationID(enableCORS(ingestHandler.Process)))

	mux.Handle("GET /api/v1/projects/{email}", middleware.CorrelationID(enableCORS(projectHandler.List)))

	mux.Handle("POST /api/v1/nlp/index/search/{email}/{project_id}", middleware.CorrelationID(enableCORS(nlpHandler.Search)))
	mux.Handle("POST /api/v1/nlp/index/answer/{email}/{project_id}", middleware.CorrelationID(enableCORS(nlpHandler.Answer)))

	mux.Handle("GET /api/v1/jobs/failed", middleware.CorrelationID(enableCORS(jobHandler.List)))
	mux.Handle("POST /api/v1/jobs/{id}/retry", middleware.CorrelationID(enableCORS(jobHandler.Retry)))

	mux.Handle("GET /api/v1/stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	embedConsumer := worker.NewEmbedConsumer(&documentEmbedder{provider: provider}, vecStore, jobRepo, cfg.EmbedMaxAttempts)

	return &App{
		Handler:       mux,
		IngestService: ingestService,
		EmbedConsumer: embedConsumer,
		port:          cfg.ServerPort,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// queryEmbedder embeds search queries through the configured provider.
type queryEmbedder struct {
	provider llm.Provider
}

func (e *queryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.provider.EmbedText(ctx, e.provider.ProcessText(text), llm.DocumentTypeQuery)
}

// documentEmbedder embeds stored chunks; some backends index documents and
// queries differently.
type documentEmbedder struct {
	provider llm.Provider
}

func (e *documentEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.provider.EmbedText(ctx, e.provider.ProcessText(text), llm.DocumentTypeDocument)
}
