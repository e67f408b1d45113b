package types

// IngestRequest asks for one blob-store document to be chunked, embedded
// and upserted into the vector index.
type IngestRequest struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	Namespace string `json:"namespace,omitempty"`
}

// UploadRequest accompanies a multipart file upload. The file is written
// to the blob store under Path and then ingested like any other document.
type UploadRequest struct {
	Path      string `json:"path"`
	Namespace string `json:"namespace,omitempty"`
}

// QueryRequest asks for the TopK nearest chunks to Query.
type QueryRequest struct {
	Query     string `json:"query"`
	TopK      int    `json:"top_k,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}
