package couponRepo

import (
	"context"
	"fmt"
	"time"

	"salonflow/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCouponIndexes creates the unique code index that enforces global
// coupon-code uniqueness, plus the unique per-customer index that makes the
// first-booking claim a one-shot (the collection only ever holds
// first-booking coupons; loyalty codes live on the customer record).
func EnsureCouponIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.MongoClient.Database(database.DBName).Collection("coupons")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "customer_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create coupon indexes: %w", err)
	}
	return nil
}
