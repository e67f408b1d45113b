package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/abhijeet-gautam-07/rag-docs/repository"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// DocumentHandler exposes the ingestion registry: which documents have
// been ingested and how each attempt ended.
type DocumentHandler struct {
	documents     repository.DocumentRepo
	defaultBucket string
}

func NewDocumentHandler(documents repository.DocumentRepo, defaultBucket string) *DocumentHandler {
	return &DocumentHandler{
		documents:     documents,
		defaultBucket: defaultBucket,
	}
}

// HandleDocuments lists the registry entries for a bucket, or returns a
// single entry when a path is given.
func (h *DocumentHandler) HandleDocuments() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodGet {
			h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		bucket := r.URL.Query().Get("bucket")
		if bucket == "" {
			bucket = h.defaultBucket
		}

		if path := r.URL.Query().Get("path"); path != "" {
			record, err := h.documents.GetDocument(r.Context(), bucket, path)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					h.sendError(w, "Document not found", http.StatusNotFound)
					return
				}
				h.sendError(w, "Failed to load document: "+err.Error(), http.StatusInternalServerError)
				return
			}
			h.sendSuccess(w, record)
			return
		}

		records, err := h.documents.ListDocuments(r.Context(), bucket)
		if err != nil {
			h.sendError(w, "Failed to list documents: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.sendSuccess(w, records)
	})
}

func (h *DocumentHandler) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  "error",
		Message: message,
	})
}

func (h *DocumentHandler) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status: "success",
		Data:   data,
	})
}
