package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

type stubQuerier struct {
	matches   []types.Match
	err       error
	query     string
	topK      int
	namespace string
}

func (s *stubQuerier) Query(ctx context.Context, query string, topK int, namespace string) ([]types.Match, error) {
	s.query, s.topK, s.namespace = query, topK, namespace
	return s.matches, s.err
}

func TestHandleQuery_Success(t *testing.T) {
	querier := &stubQuerier{
		matches: []types.Match{{ID: "docs::a.pdf::p1::c0", Score: 0.9}},
	}
	h := NewQueryHandler(querier)

	body := `{"query":"what is chunking","top_k":3,"namespace":"default"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleQuery().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "what is chunking", querier.query)
	assert.Equal(t, 3, querier.topK)
	assert.Equal(t, "default", querier.namespace)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}

func TestHandleQuery_MethodNotAllowed(t *testing.T) {
	h := NewQueryHandler(&stubQuerier{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query", nil)
	rec := httptest.NewRecorder()

	h.HandleQuery().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleQuery_InvalidBody(t *testing.T) {
	h := NewQueryHandler(&stubQuerier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.HandleQuery().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_QuerierError(t *testing.T) {
	h := NewQueryHandler(&stubQuerier{err: errors.New("index unavailable")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"query":"x"}`))
	rec := httptest.NewRecorder()

	h.HandleQuery().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "index unavailable")
}
