package service

import (
	"context"
	"fmt"
	"log"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/database"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

// ProgressFunc receives per-page updates while an ingestion runs. It is
// called from the ingestion goroutine; implementations must not block
// for long.
type ProgressFunc func(types.IngestProgress)

// IngestService runs the full pipeline for one document: fetch, extract
// pages, split, assemble chunks, embed in batches, upsert vectors.
type IngestService struct {
	storage   ObjectStorage
	pages     PageSource
	embedder  EmbeddingService
	vectors   database.VectorStore
	registry  database.DocumentRegistry // optional
	chunking  config.ChunkingConfig
	ingest    config.IngestConfig
	batchSize int

	newTokenizer func(model string) (Tokenizer, error)
}

func NewIngestService(
	storage ObjectStorage,
	pages PageSource,
	embedder EmbeddingService,
	vectors database.VectorStore,
	registry database.DocumentRegistry,
	chunking config.ChunkingConfig,
	ingest config.IngestConfig,
	batchSize int,
) *IngestService {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &IngestService{
		storage:   storage,
		pages:     pages,
		embedder:  embedder,
		vectors:   vectors,
		registry:  registry,
		chunking:  chunking,
		ingest:    ingest,
		batchSize: batchSize,

		newTokenizer: NewTokenizer,
	}
}

// IngestDocument processes one document end to end and returns the
// ingestion summary. Chunks already upserted before a failure stay in
// the index; the registry records the failure and a later re-ingest
// overwrites them.
func (s *IngestService) IngestDocument(ctx context.Context, bucket, path, namespace string, progress ProgressFunc) (*types.IngestResult, error) {
	if progress == nil {
		progress = func(types.IngestProgress) {}
	}

	s.markProcessing(ctx, bucket, path)
	result, err := s.run(ctx, bucket, path, namespace, progress)
	if err != nil {
		s.markFailed(ctx, bucket, path, err)
		return nil, err
	}
	s.markReady(ctx, bucket, path, result)
	return result, nil
}

func (s *IngestService) run(ctx context.Context, bucket, path, namespace string, progress ProgressFunc) (*types.IngestResult, error) {
	body, size, err := s.storage.GetObjectReader(ctx, bucket, path)
	if err != nil {
		return nil, fmt.Errorf("fetch document %s/%s: %w", bucket, path, err)
	}
	defer body.Close()

	if s.ingest.MaxDocumentBytes > 0 && size > s.ingest.MaxDocumentBytes {
		return nil, &types.OversizedDocumentError{Size: size, Limit: s.ingest.MaxDocumentBytes}
	}

	filePath, cleanup, err := utils.SpoolToTempFile(body, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tokenizer, err := s.newTokenizer(s.chunking.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	defer tokenizer.Close()

	splitter := NewSplitter(tokenizer, s.chunking.ChunkSizeTokens)
	assembler := NewChunkAssembler(tokenizer, s.chunking.ChunkSizeTokens, s.chunking.OverlapTokens)

	// Drop any vectors a previous version of this document left behind so
	// a shrinking document cannot strand stale chunks in the index.
	if s.ingest.PurgeBeforeIngest {
		if err := s.vectors.DeleteByDocument(ctx, namespace, bucket, path); err != nil {
			return nil, fmt.Errorf("purge stale vectors for %s/%s: %w", bucket, path, err)
		}
	}

	result := &types.IngestResult{
		Bucket: bucket,
		Path:   path,
	}
	// pending records wait for their batch to be embedded; the full chunk
	// text rides alongside in pendingTexts with matching indices.
	var pending []types.VectorRecord
	var pendingTexts []string

	flushBatch := func() error {
		if len(pending) == 0 {
			return nil
		}
		vectors, err := s.embedder.EmbedTexts(ctx, pendingTexts)
		if err != nil {
			return fmt.Errorf("embed batch of %d chunks: %w", len(pendingTexts), err)
		}
		for i := range pending {
			pending[i].Values = vectors[i]
		}
		if err := s.vectors.Upsert(ctx, namespace, pending); err != nil {
			return fmt.Errorf("upsert batch of %d vectors: %w", len(pending), err)
		}
		result.Vectors += len(pending)
		result.Batches++
		pending = pending[:0]
		pendingTexts = pendingTexts[:0]
		return nil
	}

	err = s.pages.Pages(ctx, filePath, func(page types.Page) error {
		result.Pages++
		segments := splitter.Split(page.Text)
		chunks := assembler.Assemble(segments)
		for i, chunk := range chunks {
			id := types.RecordID(bucket, path, page.Number, i)
			record := types.VectorRecord{
				ID: id,
				Metadata: types.ChunkMetadata{
					Bucket:      bucket,
					Path:        path,
					Page:        page.Number,
					ChunkIndex:  i,
					TokenCount:  chunk.TokenCount,
					TextPreview: types.TruncateString(chunk.Text, 200),
				},
			}
			if len(result.Preview) < s.ingest.PreviewChunks {
				result.Preview = append(result.Preview, types.PreviewRecord{
					ID:          id,
					Page:        page.Number,
					ChunkIndex:  i,
					TokenCount:  chunk.TokenCount,
					TextPreview: record.Metadata.TextPreview,
				})
			}
			pending = append(pending, record)
			pendingTexts = append(pendingTexts, chunk.Text)
			result.Chunks++
			if len(pending) >= s.batchSize {
				if err := flushBatch(); err != nil {
					return err
				}
			}
		}
		update := types.IngestProgress{
			Status:         "processing",
			Message:        fmt.Sprintf("processed page %d", page.Number),
			TotalPages:     page.Total,
			ProcessedPages: result.Pages,
			Chunks:         result.Chunks,
		}
		if page.Total > 0 {
			update.Progress = float64(result.Pages) / float64(page.Total)
		}
		progress(update)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := flushBatch(); err != nil {
		return nil, err
	}

	log.Printf("Ingested %s/%s: %d pages, %d chunks, %d vectors in %d batches",
		bucket, path, result.Pages, result.Chunks, result.Vectors, result.Batches)
	return result, nil
}

func (s *IngestService) markProcessing(ctx context.Context, bucket, path string) {
	if s.registry == nil {
		return
	}
	if err := s.registry.MarkProcessing(ctx, bucket, path); err != nil {
		log.Printf("Warning: failed to mark %s/%s processing: %v", bucket, path, err)
	}
}

func (s *IngestService) markReady(ctx context.Context, bucket, path string, result *types.IngestResult) {
	if s.registry == nil {
		return
	}
	if err := s.registry.MarkReady(ctx, bucket, path, result.Pages, result.Chunks, result.Vectors); err != nil {
		log.Printf("Warning: failed to mark %s/%s ready: %v", bucket, path, err)
	}
}

func (s *IngestService) markFailed(ctx context.Context, bucket, path string, cause error) {
	if s.registry == nil {
		return
	}
	if err := s.registry.MarkFailed(ctx, bucket, path, cause); err != nil {
		log.Printf("Warning: failed to mark %s/%s failed: %v", bucket, path, err)
	}
}
