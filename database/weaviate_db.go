package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

// recordIDSpace is the fixed UUID namespace for deriving object ids.
// Weaviate addresses objects by UUID, so the deterministic record id is
// hashed into one; the same record id always maps to the same object,
// which makes writes idempotent.
var recordIDSpace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// WeaviateStore implements VectorStore on a Weaviate class with external
// vectors (vectorizer "none").
type WeaviateStore struct {
	client     *weaviate.Client
	class      string
	maxRetries int
	backoff    time.Duration
}

func classSchema(class string) *models.Class {
	return &models.Class{
		Class: class,
		Properties: []*models.Property{
			{Name: "record_id", DataType: []string{"text"}},
			{Name: "bucket", DataType: []string{"text"}},
			{Name: "path", DataType: []string{"text"}},
			{Name: "namespace", DataType: []string{"text"}},
			{Name: "text_preview", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "chunk_index", DataType: []string{"int"}},
			{Name: "token_count", DataType: []string{"int"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

// NewWeaviateStore connects, then creates the class if it is missing.
func NewWeaviateStore(cfg config.WeaviateConfig, maxRetries int, backoff time.Duration) (*WeaviateStore, error) {
	if cfg.Host == "" {
		return nil, &types.ConfigError{Field: "weaviate.host"}
	}
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	hasClass := false
	for _, class := range schema.Classes {
		if class.Class == cfg.Class {
			hasClass = true
			break
		}
	}
	if !hasClass {
		err = client.Schema().ClassCreator().WithClass(classSchema(cfg.Class)).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create %s class: %w", cfg.Class, err)
		}
	}

	return &WeaviateStore{
		client:     client,
		class:      cfg.Class,
		maxRetries: maxRetries,
		backoff:    backoff,
	}, nil
}

// objectID derives the stable Weaviate UUID for a record in a namespace.
func objectID(namespace, recordID string) strfmt.UUID {
	id := uuid.NewSHA1(recordIDSpace, []byte(namespace+"/"+recordID))
	return strfmt.UUID(id.String())
}

func (s *WeaviateStore) Upsert(ctx context.Context, namespace string, records []types.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	objects := make([]*models.Object, 0, len(records))
	for _, rec := range records {
		objects = append(objects, &models.Object{
			Class: s.class,
			ID:    objectID(namespace, rec.ID),
			Properties: map[string]interface{}{
				"record_id":    rec.ID,
				"bucket":       rec.Metadata.Bucket,
				"path":         rec.Metadata.Path,
				"namespace":    namespace,
				"text_preview": rec.Metadata.TextPreview,
				"page":         rec.Metadata.Page,
				"chunk_index":  rec.Metadata.ChunkIndex,
				"token_count":  rec.Metadata.TokenCount,
			},
			Vector: models.C11yVector(rec.Values),
		})
	}

	return utils.WithRetry(ctx, s.maxRetries, s.backoff, func() error {
		resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
		if err != nil {
			return classifyWeaviateError(err)
		}
		for _, obj := range resp {
			if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
				return &types.ServiceError{
					Service:    "weaviate",
					StatusCode: 500,
					Message:    obj.Result.Errors.Error[0].Message,
				}
			}
		}
		return nil
	})
}

func (s *WeaviateStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]types.Match, error) {
	fields := []graphql.Field{
		{Name: "record_id"},
		{Name: "bucket"},
		{Name: "path"},
		{Name: "page"},
		{Name: "chunk_index"},
		{Name: "token_count"},
		{Name: "text_preview"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	where := filters.Where().
		WithPath([]string{"namespace"}).
		WithOperator(filters.Equal).
		WithValueString(namespace)

	// Queries are user-facing and fail fast; only writes get the retry
	// treatment.
	resp, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, classifyWeaviateError(err)
	}
	if len(resp.Errors) > 0 {
		return nil, &types.ServiceError{
			Service:    "weaviate",
			StatusCode: 500,
			Message:    resp.Errors[0].Message,
		}
	}
	return parseMatches(resp.Data, s.class), nil
}

// parseMatches flattens the GraphQL Get payload into matches, best first.
// Score is Weaviate's certainty (cosine similarity rescaled to [0,1]).
func parseMatches(data map[string]models.JSONObject, class string) []types.Match {
	var matches []types.Match
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	items, ok := get[class].([]interface{})
	if !ok {
		return nil
	}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		match := types.Match{
			Metadata: types.ChunkMetadata{
				Bucket:      asString(obj["bucket"]),
				Path:        asString(obj["path"]),
				Page:        asInt(obj["page"]),
				ChunkIndex:  asInt(obj["chunk_index"]),
				TokenCount:  asInt(obj["token_count"]),
				TextPreview: asString(obj["text_preview"]),
			},
		}
		match.ID = asString(obj["record_id"])
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				match.Score = float32(certainty)
			}
		}
		matches = append(matches, match)
	}
	return matches
}

func (s *WeaviateStore) DeleteByDocument(ctx context.Context, namespace, bucket, path string) error {
	where := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().WithPath([]string{"namespace"}).WithOperator(filters.Equal).WithValueString(namespace),
			filters.Where().WithPath([]string{"bucket"}).WithOperator(filters.Equal).WithValueString(bucket),
			filters.Where().WithPath([]string{"path"}).WithOperator(filters.Equal).WithValueString(path),
		})

	return utils.WithRetry(ctx, s.maxRetries, s.backoff, func() error {
		_, err := s.client.Batch().ObjectsBatchDeleter().
			WithClassName(s.class).
			WithWhere(where).
			WithOutput("minimal").
			Do(ctx)
		if err != nil {
			return classifyWeaviateError(err)
		}
		return nil
	})
}

// classifyWeaviateError maps client errors onto the transient taxonomy.
func classifyWeaviateError(err error) error {
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) && clientErr.StatusCode > 0 {
		return &types.ServiceError{
			Service:    "weaviate",
			StatusCode: clientErr.StatusCode,
			Message:    clientErr.Msg,
		}
	}
	return &types.ServiceError{
		Service:    "weaviate",
		StatusCode: 503,
		Message:    err.Error(),
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}
