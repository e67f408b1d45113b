/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"context"
	"log"
	"time"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/database"
	"github.com/abhijeet-gautam-07/rag-docs/repository"
	"github.com/abhijeet-gautam-07/rag-docs/service"
)

// pipeline bundles the services every command needs wired together.
type pipeline struct {
	cfg       *config.Config
	storage   service.ObjectStorage
	embedder  service.EmbeddingService
	vectors   database.VectorStore
	registry  database.DocumentRegistry
	documents repository.DocumentRepo
	ingest    *service.IngestService
	query     *service.QueryService
}

// buildPipeline loads config and connects every backing service. The
// mongo registry is optional; everything else is required.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	storage, err := service.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	embedder, err := service.NewEmbeddingService(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	backoff := time.Duration(cfg.Embedding.RetryBackoffMs) * time.Millisecond
	vectors, err := database.NewWeaviateStore(cfg.Weaviate, cfg.Embedding.MaxRetries, backoff)
	if err != nil {
		return nil, err
	}

	var registry database.DocumentRegistry
	var documents repository.DocumentRepo
	if cfg.Mongo.URI != "" {
		mongoClient, err := database.NewMongoClient(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		collection := mongoClient.Database(cfg.Mongo.Database).Collection("documents")
		documents = repository.NewDocumentRepo(collection)
		registry = documents
	} else {
		log.Println("MONGODB_URI not set, ingestion registry disabled")
	}

	ingestService := service.NewIngestService(
		storage,
		service.NewPDFService(),
		embedder,
		vectors,
		registry,
		cfg.Chunking,
		cfg.Ingest,
		cfg.Embedding.BatchSize,
	)
	queryService := service.NewQueryService(embedder, vectors, config.DefaultTopK)

	return &pipeline{
		cfg:       cfg,
		storage:   storage,
		embedder:  embedder,
		vectors:   vectors,
		registry:  registry,
		documents: documents,
		ingest:    ingestService,
		query:     queryService,
	}, nil
}

func (p *pipeline) Close() {
	if err := p.embedder.Close(); err != nil {
		log.Println("Failed to close embedder:", err)
	}
}
