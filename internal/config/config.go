package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"rag"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"rag"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	ServerPort        int    `envconfig:"SERVER_PORT" default:"8081"`
	MigrationPath     string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	EnableEmbedWorker bool   `envconfig:"ENABLE_EMBED_WORKER" default:"true"`
	QueryLogPath      string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`

	// Uploads
	UploadDir       string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	MaxUploadSizeMB int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"10"`
	FileChunkSize   int    `envconfig:"FILE_CHUNK_SIZE" default:"512000"`

	// LLM provider
	LLMBackend                string  `envconfig:"LLM_BACKEND" default:"openai"`
	OpenAIAPIKey              string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL             string  `envconfig:"OPENAI_BASE_URL"`
	GeminiAPIKey              string  `envconfig:"GEMINI_API_KEY"`
	GenerationModelID         string  `envconfig:"GENERATION_MODEL_ID" default:"gpt-4o-mini"`
	EmbeddingModelID          string  `envconfig:"EMBEDDING_MODEL_ID" default:"text-embedding-3-small"`
	EmbeddingSize             int     `envconfig:"EMBEDDING_SIZE" default:"1536"`
	InputMaxCharacters        int     `envconfig:"INPUT_MAX_CHARACTERS" default:"1024"`
	GenerationMaxOutputTokens int     `envconfig:"GENERATION_MAX_OUTPUT_TOKENS" default:"1000"`
	GenerationTemperature     float32 `envconfig:"GENERATION_TEMPERATURE" default:"0.1"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
	EmbedMaxAttempts           int `envconfig:"EMBED_MAX_ATTEMPTS" default:"5"`
}

func Load() (*Config, error) {
	// Env vars may also be set in the shell; a missing .env is not an error.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.LLMBackend != "openai" && c.LLMBackend != "gemini" {
		return fmt.Errorf("%w: LLM_BACKEND must be openai or gemini", ErrMissingRequired)
	}
	if c.FileChunkSize <= 0 {
		return fmt.Errorf("%w: FILE_CHUNK_SIZE must be positive", ErrMissingRequired)
	}
	return nil
}
