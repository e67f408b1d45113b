package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Ingestion lifecycle states.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// DocumentRecord is the registry entry for one source document.
type DocumentRecord struct {
	ID        string    `bson:"_id" json:"id"` // bucket::path
	Bucket    string    `bson:"bucket" json:"bucket"`
	Path      string    `bson:"path" json:"path"`
	Status    string    `bson:"status" json:"status"`
	Pages     int       `bson:"pages" json:"pages"`
	Chunks    int       `bson:"chunks" json:"chunks"`
	Vectors   int       `bson:"vectors" json:"vectors"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DocumentRepo tracks which documents have been ingested and how each
// attempt ended.
type DocumentRepo interface {
	MarkProcessing(ctx context.Context, bucket, path string) error
	MarkReady(ctx context.Context, bucket, path string, pages, chunks, vectors int) error
	MarkFailed(ctx context.Context, bucket, path string, cause error) error
	GetDocument(ctx context.Context, bucket, path string) (*DocumentRecord, error)
	ListDocuments(ctx context.Context, bucket string) ([]*DocumentRecord, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(collection *mongo.Collection) DocumentRepo {
	return &documentRepo{
		collection: collection,
	}
}

func documentID(bucket, path string) string {
	return bucket + "::" + path
}

func (r *documentRepo) upsertStatus(ctx context.Context, bucket, path string, set bson.M) error {
	set["bucket"] = bucket
	set["path"] = path
	set["updated_at"] = time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": documentID(bucket, path)},
		bson.M{"$set": set},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *documentRepo) MarkProcessing(ctx context.Context, bucket, path string) error {
	return r.upsertStatus(ctx, bucket, path, bson.M{
		"status": StatusProcessing,
		"error":  "",
	})
}

func (r *documentRepo) MarkReady(ctx context.Context, bucket, path string, pages, chunks, vectors int) error {
	return r.upsertStatus(ctx, bucket, path, bson.M{
		"status":  StatusReady,
		"pages":   pages,
		"chunks":  chunks,
		"vectors": vectors,
		"error":   "",
	})
}

func (r *documentRepo) MarkFailed(ctx context.Context, bucket, path string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.upsertStatus(ctx, bucket, path, bson.M{
		"status": StatusFailed,
		"error":  msg,
	})
}

func (r *documentRepo) GetDocument(ctx context.Context, bucket, path string) (*DocumentRecord, error) {
	var record DocumentRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": documentID(bucket, path)}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *documentRepo) ListDocuments(ctx context.Context, bucket string) ([]*DocumentRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"bucket": bucket})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*DocumentRecord
	for cursor.Next(ctx) {
		var record DocumentRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
