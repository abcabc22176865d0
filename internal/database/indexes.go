package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedbackRetention bounds how long feedback outlives the report it
// judges
const feedbackRetention = 90 * 24 * time.Hour

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	collection := db.GetCollection(CollectionFeedback)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}},
			Options: options.Index().SetName("idx_job_id"),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().
				SetName("idx_created_at_ttl").
				SetExpireAfterSeconds(int32(feedbackRetention.Seconds())),
		},
	}

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(indexCtx, indexes); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}
