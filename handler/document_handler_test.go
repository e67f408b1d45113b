package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/abhijeet-gautam-07/rag-docs/repository"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

type stubDocumentRepo struct {
	records    []*repository.DocumentRecord
	listBucket string
	getBucket  string
	getPath    string
}

func (s *stubDocumentRepo) MarkProcessing(ctx context.Context, bucket, path string) error {
	return nil
}

func (s *stubDocumentRepo) MarkReady(ctx context.Context, bucket, path string, pages, chunks, vectors int) error {
	return nil
}

func (s *stubDocumentRepo) MarkFailed(ctx context.Context, bucket, path string, cause error) error {
	return nil
}

func (s *stubDocumentRepo) GetDocument(ctx context.Context, bucket, path string) (*repository.DocumentRecord, error) {
	s.getBucket, s.getPath = bucket, path
	for _, record := range s.records {
		if record.Bucket == bucket && record.Path == path {
			return record, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubDocumentRepo) ListDocuments(ctx context.Context, bucket string) ([]*repository.DocumentRecord, error) {
	s.listBucket = bucket
	return s.records, nil
}

func TestHandleDocuments_ListsDefaultBucket(t *testing.T) {
	repo := &stubDocumentRepo{
		records: []*repository.DocumentRecord{
			{ID: "docs::a.pdf", Bucket: "docs", Path: "a.pdf", Status: repository.StatusReady},
			{ID: "docs::b.pdf", Bucket: "docs", Path: "b.pdf", Status: repository.StatusFailed},
		},
	}
	h := NewDocumentHandler(repo, "docs")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()

	h.HandleDocuments().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs", repo.listBucket)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	entries, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestHandleDocuments_SingleDocument(t *testing.T) {
	repo := &stubDocumentRepo{
		records: []*repository.DocumentRecord{
			{ID: "docs::a.pdf", Bucket: "docs", Path: "a.pdf", Status: repository.StatusReady, Pages: 4},
		},
	}
	h := NewDocumentHandler(repo, "docs")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?path=a.pdf", nil)
	rec := httptest.NewRecorder()

	h.HandleDocuments().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs", repo.getBucket)
	assert.Equal(t, "a.pdf", repo.getPath)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}

func TestHandleDocuments_NotFound(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentRepo{}, "docs")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?path=missing.pdf", nil)
	rec := httptest.NewRecorder()

	h.HandleDocuments().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDocuments_MethodNotAllowed(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentRepo{}, "docs")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()

	h.HandleDocuments().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
