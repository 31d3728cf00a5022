package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the queries depend on. CreateOne is
// idempotent for an identical spec, so this runs unconditionally at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			// Registration uniqueness is enforced here, not just by the
			// pre-insert lookup.
			collection: "users",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "otps",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "email", Value: 1}, {Key: "type", Value: 1}},
			},
		},
		{
			collection: "otps",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "expiresAt", Value: 1}},
			},
		},
		{
			collection: "bookings",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
		},
		{
			collection: "notifications",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}
