package couponRepo

import (
	"context"
	"errors"

	"salonflow/models"
)

// ErrDuplicateCode is returned when a generated code collides with an
// existing coupon. Codes are globally unique across customers.
var ErrDuplicateCode = errors.New("coupon code already exists")

// ErrDuplicateCustomer is returned when the customer already holds a coupon
// record. The unique customer_id index makes concurrent claims lose here
// instead of double-issuing.
var ErrDuplicateCustomer = errors.New("customer already has a coupon")

// ErrNotFound is returned when no coupon matches the lookup.
var ErrNotFound = errors.New("coupon not found")

// CouponRepository is the storage contract for the coupon ledger.
type CouponRepository interface {
	Insert(ctx context.Context, coupon *models.Coupon) error
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	// MarkUsed flips is_used false -> true conditionally; returns false when
	// the coupon was already consumed (or is not this customer's).
	MarkUsed(ctx context.Context, code, customerID string) (bool, error)
}
