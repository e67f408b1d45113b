package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is built once at process start and passed by reference into the
// services. Core logic never reads the environment on its own.
type Config struct {
	Port      string          `mapstructure:"port"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Weaviate  WeaviateConfig  `mapstructure:"weaviate"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
}

// ChunkingConfig tunes the splitter and assembler.
type ChunkingConfig struct {
	ChunkSizeTokens int    `mapstructure:"chunk_size_tokens"`
	OverlapTokens   int    `mapstructure:"overlap_tokens"`
	TokenizerModel  string `mapstructure:"tokenizer_model"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider       string `mapstructure:"provider"` // openai | local | gemini
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`
	BatchSize      int    `mapstructure:"batch_size"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryBackoffMs int    `mapstructure:"retry_backoff_ms"`
}

// IngestConfig tunes the ingestion orchestrator.
type IngestConfig struct {
	PreviewChunks     int   `mapstructure:"preview_chunks"`
	MaxDocumentBytes  int64 `mapstructure:"max_document_bytes"`
	PurgeBeforeIngest bool  `mapstructure:"purge_before_ingest"`
}

// WeaviateConfig configures the remote vector index.
type WeaviateConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"WEAVIATE_APIKEY"`
	Class     string `mapstructure:"class"`
	Namespace string `mapstructure:"namespace"`
}

// StorageConfig configures the S3 blob store holding source documents.
type StorageConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"AWS_ACCESS_KEY_ID"`
	SecretKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
}

// MongoConfig configures the ingestion registry database.
type MongoConfig struct {
	URI      string `mapstructure:"MONGODB_URI"`
	Database string `mapstructure:"database"`
}

// Defaults applied when the config file leaves a knob unset.
const (
	DefaultChunkSizeTokens  = 800
	DefaultOverlapTokens    = 100
	DefaultTokenizerModel   = "text-embedding-3-small"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultBatchSize        = 16
	DefaultMaxRetries       = 3
	DefaultRetryBackoffMs   = 500
	DefaultPreviewChunks    = 5
	DefaultMaxDocumentBytes = 50 << 20
	DefaultTopK             = 5
	DefaultClass            = "DocumentChunk"
	DefaultNamespace        = "default"
)

// LoadConfig reads the yaml config file and overlays environment
// variables for secrets.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// An explicit overlap_tokens: 0 in the file is respected; only an
	// absent key falls back to the default.
	v.SetDefault("chunking.overlap_tokens", DefaultOverlapTokens)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("embedding.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("embedding.GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("storage.AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	v.BindEnv("storage.AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("mongo.MONGODB_URI", "MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	ApplyDefaults(&config)

	return &config, nil
}

// ApplyDefaults fills in zero-valued knobs.
func ApplyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Chunking.ChunkSizeTokens <= 0 {
		cfg.Chunking.ChunkSizeTokens = DefaultChunkSizeTokens
	}
	if cfg.Chunking.OverlapTokens < 0 {
		cfg.Chunking.OverlapTokens = 0
	}
	if cfg.Chunking.TokenizerModel == "" {
		cfg.Chunking.TokenizerModel = DefaultTokenizerModel
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultEmbeddingModel
	}
	if cfg.Embedding.BatchSize <= 0 {
		cfg.Embedding.BatchSize = DefaultBatchSize
	}
	if cfg.Embedding.MaxRetries <= 0 {
		cfg.Embedding.MaxRetries = DefaultMaxRetries
	}
	if cfg.Embedding.RetryBackoffMs <= 0 {
		cfg.Embedding.RetryBackoffMs = DefaultRetryBackoffMs
	}
	if cfg.Ingest.PreviewChunks <= 0 {
		cfg.Ingest.PreviewChunks = DefaultPreviewChunks
	}
	if cfg.Ingest.MaxDocumentBytes <= 0 {
		cfg.Ingest.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if cfg.Weaviate.Class == "" {
		cfg.Weaviate.Class = DefaultClass
	}
	if cfg.Weaviate.Namespace == "" {
		cfg.Weaviate.Namespace = DefaultNamespace
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "ragdocs"
	}
}
