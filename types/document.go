package types

import "fmt"

// Document identifies a source file in the external blob store.
// Documents are immutable once uploaded; the pipeline only reads their bytes.
type Document struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

// Page is one page of extracted text, produced per ingestion run and
// discarded afterwards. Numbers are 1-based; Total is the page count of
// the whole document, 0 when the source cannot tell.
type Page struct {
	Number int
	Total  int
	Text   string
}

// Chunk is a bounded-size unit of document text, the atomic object that
// gets embedded and stored.
type Chunk struct {
	Text       string
	TokenCount int
}

// ChunkMetadata is the provenance stored alongside each vector so a match
// can be traced back to its source without re-reading the document.
type ChunkMetadata struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	Page        int    `json:"page"`
	ChunkIndex  int    `json:"chunk_index"`
	TokenCount  int    `json:"token_count"`
	TextPreview string `json:"text_preview"`
}

// VectorRecord is one (id, vector, metadata) row persisted in the remote
// vector index.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata ChunkMetadata
}

// Match is a query result from the vector index. Score is whatever
// similarity value the index reports; only its relative ordering matters.
type Match struct {
	ID       string        `json:"id"`
	Score    float32       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RecordID derives the deterministic vector record id for a chunk.
// Re-ingesting the same document at the same chunk boundaries produces the
// same ids, so upserts overwrite instead of duplicating.
func RecordID(bucket, path string, page, chunkIndex int) string {
	return fmt.Sprintf("%s::%s::p%d::c%d", bucket, path, page, chunkIndex)
}
