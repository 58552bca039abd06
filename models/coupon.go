package models

import "time"

// CouponDiscountFraction is the flat discount every coupon carries.
const CouponDiscountFraction = 0.10

// CouponValidity is how long an issued coupon can be redeemed.
const CouponValidity = 30 * 24 * time.Hour

// Coupon is a single-use discount code bound to one customer. It is marked
// used exactly once, when the booking paid with it is confirmed captured.
type Coupon struct {
	ID         string    `bson:"id" json:"id"`
	CustomerID string    `bson:"customer_id" json:"customer_id"`
	Code       string    `bson:"code" json:"code"`
	Discount   float64   `bson:"discount" json:"discount"` // fraction, e.g. 0.10
	IsUsed     bool      `bson:"is_used" json:"is_used"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the coupon can no longer be redeemed at t.
func (c *Coupon) Expired(t time.Time) bool {
	return !c.ExpiresAt.After(t)
}
