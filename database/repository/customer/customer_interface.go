package customerRepo

import (
	"context"
	"errors"

	"salonflow/models"
)

// ErrNotFound is returned when no customer matches the lookup.
var ErrNotFound = errors.New("customer not found")

// CustomerRepository is the narrow read/update surface of the customer
// directory this engine consumes. Profile CRUD lives elsewhere.
type CustomerRepository interface {
	GetByID(ctx context.Context, customerID string) (*models.Customer, error)
	// SetCouponCode stores the single active loyalty coupon code on the
	// customer, conditional on no other code being active.
	SetCouponCode(ctx context.Context, customerID, code string) (bool, error)
	// ClearCouponCode consumes the loyalty code; returns false when the code
	// on record no longer matches (already consumed or replaced).
	ClearCouponCode(ctx context.Context, customerID, code string) (bool, error)
	// DeductLoyaltyPoints takes points conditionally on the balance covering
	// them; returns false when it does not.
	DeductLoyaltyPoints(ctx context.Context, customerID string, points int) (bool, error)
}
