package couponRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salonflow/database"
	"salonflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCouponRepo implements CouponRepository using MongoDB.
type MongoCouponRepo struct {
	coll *mongo.Collection
}

// NewMongoCouponRepo constructs a new instance of MongoCouponRepo.
func NewMongoCouponRepo() CouponRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoCouponRepo{
		coll: db.Collection("coupons"),
	}
}

// Insert creates a coupon record. The unique indexes surface collisions:
// a customer_id clash means the customer already claimed, a code clash
// means the generated code is taken.
func (repo *MongoCouponRepo) Insert(ctx context.Context, coupon *models.Coupon) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, coupon); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "customer_id") {
				return ErrDuplicateCustomer
			}
			return ErrDuplicateCode
		}
		return fmt.Errorf("error creating coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code.
func (repo *MongoCouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var coupon models.Coupon
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching coupon %s: %w", code, err)
	}
	return &coupon, nil
}

// CountByCustomer counts all coupon records a customer ever received.
func (repo *MongoCouponRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctxWithTimeout, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("error counting coupons for customer %s: %w", customerID, err)
	}
	return count, nil
}

// MarkUsed consumes the coupon. The is_used filter makes consumption a
// conditional update, so two concurrent bookings cannot both spend it.
func (repo *MongoCouponRepo) MarkUsed(ctx context.Context, code, customerID string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"code": code, "customer_id": customerID, "is_used": false}
	update := bson.M{"$set": bson.M{"is_used": true}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error consuming coupon %s: %w", code, err)
	}
	return res.MatchedCount > 0, nil
}
