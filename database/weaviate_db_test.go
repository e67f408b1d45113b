package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

func TestObjectID_Deterministic(t *testing.T) {
	a := objectID("default", "docs::report.pdf::p1::c0")
	b := objectID("default", "docs::report.pdf::p1::c0")
	assert.Equal(t, a, b)
}

func TestObjectID_NamespaceSeparation(t *testing.T) {
	recordID := "docs::report.pdf::p1::c0"
	assert.NotEqual(t, objectID("tenant-a", recordID), objectID("tenant-b", recordID))
	assert.NotEqual(t, objectID("default", recordID), objectID("default", "docs::report.pdf::p1::c1"))
}

func TestParseMatches(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"DocumentChunk": []interface{}{
				map[string]interface{}{
					"record_id":    "docs::report.pdf::p2::c1",
					"bucket":       "docs",
					"path":         "report.pdf",
					"page":         float64(2),
					"chunk_index":  float64(1),
					"token_count":  float64(512),
					"text_preview": "some preview text",
					"_additional": map[string]interface{}{
						"certainty": 0.91,
						"id":        "00000000-0000-0000-0000-000000000001",
					},
				},
			},
		},
	}

	matches := parseMatches(data, "DocumentChunk")
	require.Len(t, matches, 1)

	match := matches[0]
	assert.Equal(t, "docs::report.pdf::p2::c1", match.ID)
	assert.InDelta(t, 0.91, float64(match.Score), 1e-6)
	assert.Equal(t, "docs", match.Metadata.Bucket)
	assert.Equal(t, "report.pdf", match.Metadata.Path)
	assert.Equal(t, 2, match.Metadata.Page)
	assert.Equal(t, 1, match.Metadata.ChunkIndex)
	assert.Equal(t, 512, match.Metadata.TokenCount)
	assert.Equal(t, "some preview text", match.Metadata.TextPreview)
}

func TestParseMatches_EmptyPayload(t *testing.T) {
	assert.Nil(t, parseMatches(map[string]models.JSONObject{}, "DocumentChunk"))
	assert.Nil(t, parseMatches(map[string]models.JSONObject{
		"Get": map[string]interface{}{},
	}, "DocumentChunk"))
}

func TestClassifyWeaviateError_ClientError(t *testing.T) {
	err := classifyWeaviateError(&fault.WeaviateClientError{
		StatusCode: 429,
		Msg:        "rate limited",
	})

	var serviceErr *types.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 429, serviceErr.StatusCode)
	assert.True(t, serviceErr.Transient())
}

func TestClassifyWeaviateError_Transport(t *testing.T) {
	err := classifyWeaviateError(errors.New("connection refused"))

	var serviceErr *types.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 503, serviceErr.StatusCode)
	assert.True(t, serviceErr.Transient())
}
