package models

// BookingRequest is the input for creating a booking plus payment order.
type BookingRequest struct {
	CustomerID      string   `json:"-"`
	ProviderID      string   `json:"provider_id"`
	ProviderEmail   string   `json:"provider_email"`
	Employee        string   `json:"employee"` // favorite employee, required
	Date            string   `json:"date"`
	TimeSlot        string   `json:"time_slot"`
	Service         string   `json:"service"`
	RelatedServices []string `json:"related_services"`
	TotalAmount     float64  `json:"total_amount"`
	DiscountAmount  float64  `json:"discount_amount"`
	Amount          float64  `json:"amount"` // amount to collect now (advance or full)
	CouponCode      string   `json:"coupon_code"`
}

// RescheduleRequest moves an existing booking to a new slot.
type RescheduleRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Employee string `json:"employee"`
}

// CancelRequest cancels a booking; UPIID is mandatory for fully paid
// bookings since that is where the refund is paid out.
type CancelRequest struct {
	UPIID string `json:"upi_id"`
}

// CancelResult reports the refund decision computed at cancellation.
type CancelResult struct {
	RefundAmount float64 `json:"refund_amount"`
	RefundStatus string  `json:"refund_status"`
}

// ReviewRequest attaches a rating/review or complaint to a booking.
type ReviewRequest struct {
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
	Complaint string `json:"complaint"`
}

// CouponValidation is the outcome of validating a coupon code.
type CouponValidation struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"` // fraction
}
