package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	services "github.com/abhijeet-gautam-07/rag-docs/service"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// Ingester runs the ingestion pipeline for one stored document.
type Ingester interface {
	IngestDocument(ctx context.Context, bucket, path, namespace string, progress services.ProgressFunc) (*types.IngestResult, error)
}

type IngestHandler struct {
	ingester Ingester
}

func NewIngestHandler(ingester Ingester) *IngestHandler {
	return &IngestHandler{
		ingester: ingester,
	}
}

// HandleIngest ingests a document already present in the blob store,
// streaming per-page progress as server-sent events. The final event is
// either the ingestion summary or an error.
func (h *IngestHandler) HandleIngest() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Bucket == "" || req.Path == "" {
			sendError(w, "bucket and path are required", http.StatusBadRequest)
			return
		}

		streamIngest(w, r, h.ingester, req)
	})
}

// streamIngest runs the ingestion in a goroutine and relays progress
// updates to the client as they arrive.
func streamIngest(w http.ResponseWriter, r *http.Request, ingester Ingester, req types.IngestRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	statusChan := make(chan types.IngestProgress, 8)
	type outcome struct {
		result *types.IngestResult
		err    error
	}
	doneChan := make(chan outcome, 1)

	go func() {
		result, err := ingester.IngestDocument(ctx, req.Bucket, req.Path, req.Namespace, func(update types.IngestProgress) {
			select {
			case statusChan <- update:
			case <-ctx.Done():
			}
		})
		doneChan <- outcome{result: result, err: err}
	}()

	for {
		select {
		case <-ctx.Done():
			return // client disconnected
		case status := <-statusChan:
			writeSSEvent(w, status)
			flusher.Flush()
		case out := <-doneChan:
			if out.err != nil {
				writeSSEvent(w, types.DataResponse{
					Status:  "error",
					Message: out.err.Error(),
				})
			} else {
				writeSSEvent(w, types.DataResponse{
					Status: "success",
					Data:   out.result,
				})
			}
			flusher.Flush()
			return
		}
	}
}

func writeSSEvent(w http.ResponseWriter, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  "error",
		Message: message,
	})
}
