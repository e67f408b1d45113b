package database

import (
	"context"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// VectorStore defines the remote vector index operations the pipeline
// needs. Namespaces keep tenants separated; records within one namespace
// are addressed by their deterministic record id, so re-upserting the
// same id overwrites rather than duplicates.
type VectorStore interface {
	// Upsert writes a batch of records into the namespace.
	Upsert(ctx context.Context, namespace string, records []types.VectorRecord) error

	// Query returns the topK nearest matches for the vector, scored by
	// similarity, best first.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]types.Match, error)

	// DeleteByDocument removes every record belonging to one source
	// document from the namespace.
	DeleteByDocument(ctx context.Context, namespace, bucket, path string) error
}

// DocumentRegistry records the ingestion lifecycle of each document.
type DocumentRegistry interface {
	MarkProcessing(ctx context.Context, bucket, path string) error
	MarkReady(ctx context.Context, bucket, path string, pages, chunks, vectors int) error
	MarkFailed(ctx context.Context, bucket, path string, cause error) error
}
