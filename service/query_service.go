package service

import (
	"context"
	"strings"

	"github.com/abhijeet-gautam-07/rag-docs/database"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// QueryService embeds a query string and searches the vector index.
type QueryService struct {
	embedder    EmbeddingService
	vectors     database.VectorStore
	defaultTopK int
}

func NewQueryService(embedder EmbeddingService, vectors database.VectorStore, defaultTopK int) *QueryService {
	return &QueryService{
		embedder:    embedder,
		vectors:     vectors,
		defaultTopK: defaultTopK,
	}
}

// Query returns the topK best matches for the query text, best first. An
// empty or whitespace-only query returns no matches without calling the
// embedding provider.
func (s *QueryService) Query(ctx context.Context, query string, topK int, namespace string) ([]types.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.vectors.Query(ctx, namespace, vector, topK)
}
