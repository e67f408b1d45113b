package handler

import (
	"encoding/json"
	"net/http"

	services "github.com/abhijeet-gautam-07/rag-docs/service"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

type UploadHandler struct {
	storage  services.ObjectStorage
	ingester Ingester
	bucket   string
	maxBytes int64
}

func NewUploadHandler(storage services.ObjectStorage, ingester Ingester, bucket string, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		storage:  storage,
		ingester: ingester,
		bucket:   bucket,
		maxBytes: maxBytes,
	}
}

// HandleUpload stores an uploaded PDF in the blob store and then ingests
// it, streaming progress as server-sent events like HandleIngest.
func (h *UploadHandler) HandleUpload() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			sendError(w, "Invalid file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		var req types.UploadRequest
		if metadata := r.FormValue("metadata"); metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &req); err != nil {
				sendError(w, "Invalid metadata", http.StatusBadRequest)
				return
			}
		}
		if req.Path == "" {
			req.Path = utils.SanitizeFileName(header.Filename)
		}

		if h.maxBytes > 0 && header.Size > h.maxBytes {
			sendError(w, "File too large", http.StatusBadRequest)
			return
		}

		if err := h.storage.UploadFile(r.Context(), h.bucket, req.Path, file, "application/pdf"); err != nil {
			sendError(w, "Upload failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		streamIngest(w, r, h.ingester, types.IngestRequest{
			Bucket:    h.bucket,
			Path:      req.Path,
			Namespace: req.Namespace,
		})
	})
}
