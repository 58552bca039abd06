package models

import "time"

// Customer is the read-mostly directory record for a booking customer.
// Bookings live in their own collection; only the single active
// loyalty-redeemed coupon code is held here.
type Customer struct {
	ID            string    `bson:"id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CouponCode    string    `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	LoyaltyPoints int       `bson:"loyalty_points" json:"loyalty_points"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
