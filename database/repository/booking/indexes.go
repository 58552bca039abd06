package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"salonflow/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureBookingIndexes creates the indexes the booking engine relies on:
// a lookup index for slot-conflict queries, unique booking/order ids, and
// the partial unique slot_key index that is the authoritative guard against
// two active bookings claiming the same slot.
func EnsureBookingIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.MongoClient.Database(database.DBName).Collection("bookings")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Bookings are inserted before the gateway order exists, so the
			// uniqueness constraint only covers populated order ids.
			Keys: bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"order_id": bson.M{"$gt": ""}}),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "employee", Value: 1},
				{Key: "date", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "slot_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slot_active": true}),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
