package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"salonflow/database"
	"salonflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}

// Create inserts a new booking document. The partial unique index on
// slot_key turns a concurrent claim of the same slot into ErrSlotTaken.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// GetByOrderID retrieves the booking created for a gateway order.
func (repo *MongoBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"order_id": orderID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking for order %s: %w", orderID, err)
	}
	return &booking, nil
}

// ListByCustomer returns all bookings owned by a customer.
func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"customer_id": customerID})
}

// ListForSlot returns all bookings for a provider's employee on a date,
// served by the (provider_id, employee, date) index.
func (repo *MongoBookingRepo) ListForSlot(ctx context.Context, providerID, employee, date string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"provider_id": providerID, "employee": employee, "date": date})
}

func (repo *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	for cursor.Next(ctxWithTimeout) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// CountByCustomer counts every booking record a customer owns, regardless of
// payment outcome. The first-booking coupon rule depends on this count.
func (repo *MongoBookingRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctxWithTimeout, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("error counting bookings for customer %s: %w", customerID, err)
	}
	return count, nil
}

// SetOrderID stores the gateway order id on a freshly created booking.
func (repo *MongoBookingRepo) SetOrderID(ctx context.Context, bookingID, orderID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"order_id": orderID, "updated_at": time.Now()}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error storing order id for booking %s: %w", bookingID, err)
	}
	return nil
}

// RecordCapture applies a gateway payment to the booking. The filter keeps
// replays out: a payment id already present in payment_ids matches nothing.
func (repo *MongoBookingRepo) RecordCapture(ctx context.Context, params CaptureParams) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             params.BookingID,
		"payment_ids":    bson.M{"$ne": params.PaymentID},
		"payment_status": bson.M{"$in": bson.A{models.PaymentPending, models.PaymentPaid}},
	}

	set := bson.M{
		"payment_id":     params.PaymentID,
		"payment_status": models.PaymentPaid,
		"confirmed":      models.ConfirmedYes,
		"updated_at":     time.Now(),
	}
	if params.Method != "" {
		set["payment_method"] = params.Method
	}
	if params.PIN != "" {
		set["pin"] = params.PIN
	}
	if params.UPIID != "" {
		set["refund_upi"] = params.UPIID
	}

	update := bson.M{
		"$set":      set,
		"$addToSet": bson.M{"payment_ids": params.PaymentID},
		"$inc":      bson.M{"version": int64(1)},
	}
	if params.Replace {
		set["amount"] = params.Amount
	} else {
		update["$inc"] = bson.M{"version": int64(1), "amount": params.Amount}
	}

	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error recording capture for booking %s: %w", params.BookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkFailed moves a PENDING booking to FAILED and releases its slot claim.
func (repo *MongoBookingRepo) MarkFailed(ctx context.Context, bookingID, reason string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "payment_status": models.PaymentPending}
	update := bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentFailed,
			"failure_reason": reason,
			"slot_active":    false,
			"updated_at":     time.Now(),
		},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking booking %s failed: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// Cancel transitions a captured booking to CANCELLED together with its
// refund decision. Conditional on the booking still being cancellable.
func (repo *MongoBookingRepo) Cancel(ctx context.Context, params CancelParams) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             params.BookingID,
		"customer_id":    params.CustomerID,
		"payment_status": models.PaymentPaid,
		"confirmed":      bson.M{"$ne": models.ConfirmedCancelled},
	}
	set := bson.M{
		"payment_status":  models.PaymentCancelled,
		"confirmed":       models.ConfirmedCancelled,
		"refund_status":   params.RefundStatus,
		"refunded_amount": params.RefundAmount,
		"slot_active":     false,
		"updated_at":      time.Now(),
	}
	if params.UPIID != "" {
		set["refund_upi"] = params.UPIID
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": int64(1)}}

	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling booking %s: %w", params.BookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// ResolveRefund finalizes a pending refund decision exactly once.
func (repo *MongoBookingRepo) ResolveRefund(ctx context.Context, bookingID, providerID, status string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":            bookingID,
		"provider_id":   providerID,
		"refund_status": models.RefundPending,
	}
	update := bson.M{
		"$set": bson.M{"refund_status": status, "updated_at": time.Now()},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error resolving refund for booking %s: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// UpdateSchedule moves the booking to a new slot. The version filter makes
// this a compare-and-swap so concurrent reschedules cannot both win.
func (repo *MongoBookingRepo) UpdateSchedule(ctx context.Context, params ScheduleParams) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": params.BookingID, "version": params.ExpectedVersion}
	update := bson.M{
		"$set": bson.M{
			"date":       params.Date,
			"time_slot":  params.TimeSlot,
			"employee":   params.Employee,
			"slot_key":   params.SlotKey,
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrSlotTaken
		}
		return false, fmt.Errorf("error rescheduling booking %s: %w", params.BookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// SetReview stores a rating/review or complaint on an owned booking.
func (repo *MongoBookingRepo) SetReview(ctx context.Context, bookingID, customerID string, review models.ReviewRequest) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if review.Rating > 0 {
		set["rating"] = review.Rating
	}
	if review.Review != "" {
		set["review"] = review.Review
	}
	if review.Complaint != "" {
		set["complaint"] = review.Complaint
	}

	filter := bson.M{"id": bookingID, "customer_id": customerID}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating review for booking %s: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}

// SweepStalePending reconciles abandoned checkouts: PENDING bookings created
// before cutoff become FAILED and stop holding their slots. A callback
// racing the sweep wins because both updates are conditional on PENDING.
func (repo *MongoBookingRepo) SweepStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_status": models.PaymentPending,
		"created_at":     bson.M{"$lt": cutoff},
	}
	update := bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentFailed,
			"failure_reason": "payment window expired",
			"slot_active":    false,
			"updated_at":     time.Now(),
		},
		"$inc": bson.M{"version": int64(1)},
	}
	res, err := repo.coll.UpdateMany(ctxWithTimeout, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error sweeping stale pending bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
