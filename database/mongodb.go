package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// NewMongoClient connects to the ingestion registry database.
func NewMongoClient(cfg config.MongoConfig) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, &types.ConfigError{Field: "MONGODB_URI"}
	}
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(
			&options.BSONOptions{
				ObjectIDAsHexString: true,
			},
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client, nil
}
