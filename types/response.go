package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PreviewRecord is one entry of the bounded ingestion preview sample.
type PreviewRecord struct {
	ID          string `json:"id"`
	Page        int    `json:"page"`
	ChunkIndex  int    `json:"chunk_index"`
	TokenCount  int    `json:"token_count"`
	TextPreview string `json:"text_preview"`
}

// IngestResult summarizes one completed ingestion.
type IngestResult struct {
	Bucket  string          `json:"bucket"`
	Path    string          `json:"path"`
	Pages   int             `json:"pages"`
	Chunks  int             `json:"chunks"`
	Vectors int             `json:"vectors"`
	Batches int             `json:"batches"`
	Preview []PreviewRecord `json:"preview"`
}

// IngestProgress is a per-page status update streamed to the caller while
// an ingestion runs.
type IngestProgress struct {
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
	Progress       float64 `json:"progress"`
	TotalPages     int     `json:"total_pages"`
	ProcessedPages int     `json:"processed_pages"`
	Chunks         int     `json:"chunks"`
}

// QueryResponse carries the ranked matches for a query.
type QueryResponse struct {
	Matches []Match `json:"matches"`
}

// Websocket frame types for the ingestion socket.
const (
	TypeWebsocketProcessing = "processing"
	TypeWebsocketResult     = "result"
	TypeWebsocketError      = "error"
)

// WebSocketResponse is one frame pushed over the ingestion websocket.
type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
