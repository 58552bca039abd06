package models

import "time"

// Payment status values for a booking.
const (
	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentFailed    = "FAILED"
	PaymentCancelled = "CANCELLED"
)

// Confirmation status values.
const (
	ConfirmedPending   = "Pending"
	ConfirmedYes       = "Confirmed"
	ConfirmedCancelled = "Cancelled"
)

// Refund status values.
const (
	RefundNone     = "NONE"
	RefundPending  = "PENDING"
	RefundApproved = "APPROVED"
	RefundRejected = "REJECTED"
)

// Booking is a first-class booking record. Slot conflicts are guarded at
// commit time by a partial unique index on slot_key (active bookings only);
// reschedules bump version as a compare-and-swap.
type Booking struct {
	ID        string `bson:"id" json:"id"`
	OrderID   string `bson:"order_id" json:"order_id"`                         // payment-gateway order id
	PaymentID string `bson:"payment_id,omitempty" json:"payment_id,omitempty"` // last gateway payment id, set on capture

	// PaymentIDs records every gateway payment already applied to this
	// booking, so replayed callbacks never double-credit Amount.
	PaymentIDs []string `bson:"payment_ids,omitempty" json:"-"`

	CustomerID    string `bson:"customer_id" json:"customer_id"`
	ProviderID    string `bson:"provider_id" json:"provider_id"`
	ProviderEmail string `bson:"provider_email,omitempty" json:"provider_email,omitempty"`

	Employee        string   `bson:"employee" json:"employee"`
	Date            string   `bson:"date" json:"date"`           // "2006-01-02"
	TimeSlot        string   `bson:"time_slot" json:"time_slot"` // "15:04"
	Service         string   `bson:"service" json:"service"`
	RelatedServices []string `bson:"related_services,omitempty" json:"related_services,omitempty"`
	DurationMins    int      `bson:"duration_mins" json:"duration_mins"` // 60 + 30 per related service

	TotalAmount    float64 `bson:"total_amount" json:"total_amount"`
	DiscountAmount float64 `bson:"discount_amount" json:"discount_amount"`
	Amount         float64 `bson:"amount" json:"amount"` // captured so far, never exceeds TotalAmount
	Currency       string  `bson:"currency" json:"currency"`
	CouponCode     string  `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`

	PaymentStatus  string  `bson:"payment_status" json:"payment_status"`
	Confirmed      string  `bson:"confirmed" json:"confirmed"`
	RefundStatus   string  `bson:"refund_status" json:"refund_status"`
	RefundedAmount float64 `bson:"refunded_amount" json:"refunded_amount"`
	RefundUPI      string  `bson:"refund_upi,omitempty" json:"refund_upi,omitempty"`
	PaymentMethod  string  `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	FailureReason  string  `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	// PIN is the 5-digit in-person verification token issued on capture.
	PIN       string `bson:"pin,omitempty" json:"pin,omitempty"`
	Complaint string `bson:"complaint,omitempty" json:"complaint,omitempty"`
	Rating    int    `bson:"rating,omitempty" json:"rating,omitempty"`
	Review    string `bson:"review,omitempty" json:"review,omitempty"`

	SlotKey    string `bson:"slot_key" json:"-"`
	SlotActive bool   `bson:"slot_active" json:"-"`
	Version    int64  `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Occupies reports whether this booking blocks its slot for availability
// purposes. Only captured, non-cancelled bookings do.
func (b *Booking) Occupies() bool {
	return b.PaymentStatus == PaymentPaid && b.Confirmed != ConfirmedCancelled
}
