package customerRepo

import (
	"context"
	"fmt"
	"time"

	"salonflow/database"
	"salonflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo constructs a new instance of MongoCustomerRepo.
func NewMongoCustomerRepo() CustomerRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoCustomerRepo{
		coll: db.Collection("customers"),
	}
}

// GetByID retrieves a customer by ID.
func (repo *MongoCustomerRepo) GetByID(ctx context.Context, customerID string) (*models.Customer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": customerID}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching customer %s: %w", customerID, err)
	}
	return &customer, nil
}

// SetCouponCode stores the customer's single active loyalty code.
func (repo *MongoCustomerRepo) SetCouponCode(ctx context.Context, customerID, code string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": customerID,
		"$or": bson.A{
			bson.M{"coupon_code": ""},
			bson.M{"coupon_code": bson.M{"$exists": false}},
		},
	}
	update := bson.M{"$set": bson.M{"coupon_code": code, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error setting coupon code for customer %s: %w", customerID, err)
	}
	return res.MatchedCount > 0, nil
}

// ClearCouponCode consumes the active loyalty code conditionally.
func (repo *MongoCustomerRepo) ClearCouponCode(ctx context.Context, customerID, code string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": customerID, "coupon_code": code}
	update := bson.M{"$set": bson.M{"coupon_code": "", "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error clearing coupon code for customer %s: %w", customerID, err)
	}
	return res.MatchedCount > 0, nil
}

// DeductLoyaltyPoints takes points only when the balance covers them.
func (repo *MongoCustomerRepo) DeductLoyaltyPoints(ctx context.Context, customerID string, points int) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": customerID, "loyalty_points": bson.M{"$gte": points}}
	update := bson.M{
		"$inc": bson.M{"loyalty_points": -points},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error deducting loyalty points for customer %s: %w", customerID, err)
	}
	return res.MatchedCount > 0, nil
}
