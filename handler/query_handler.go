package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// Querier answers semantic search queries against the vector index.
type Querier interface {
	Query(ctx context.Context, query string, topK int, namespace string) ([]types.Match, error)
}

type QueryHandler struct {
	querier Querier
}

func NewQueryHandler(querier Querier) *QueryHandler {
	return &QueryHandler{
		querier: querier,
	}
}

func (h *QueryHandler) HandleQuery() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		matches, err := h.querier.Query(r.Context(), req.Query, req.TopK, req.Namespace)
		if err != nil {
			h.sendError(w, "Query failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.sendSuccess(w, matches)
	})
}

func (h *QueryHandler) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  "error",
		Message: message,
	})
}

func (h *QueryHandler) sendSuccess(w http.ResponseWriter, matches []types.Match) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status: "success",
		Data: types.QueryResponse{
			Matches: matches,
		},
	})
}
