package models

// Payment types a gateway callback can carry. An initial capture replaces
// the booking amount; a remaining capture is added to it.
const (
	PaymentTypeInitial   = "initial"
	PaymentTypeRemaining = "remaining"
)

// GatewayStatusCaptured is the gateway-side state that confirms money has
// actually been taken, not merely authorized.
const GatewayStatusCaptured = "captured"

// PaymentOrder is the payment intent created with the gateway before the
// customer checks out.
type PaymentOrder struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"` // currency units
	Currency string  `json:"currency"`
}

// GatewayCallback is the asynchronous, partially-trusted payload the gateway
// posts after a payment attempt. A gateway-reported failure carries no
// signature.
type GatewayCallback struct {
	OrderID     string  `json:"razorpay_order_id"`
	PaymentID   string  `json:"razorpay_payment_id"`
	Signature   string  `json:"razorpay_signature"`
	Status      string  `json:"status"`       // gateway payment state, "captured" on success
	Amount      float64 `json:"amount"`       // captured amount in currency units
	PaymentType string  `json:"payment_type"` // "initial" or "remaining"
	UPIID       string  `json:"upi_id,omitempty"`
	Reason      string  `json:"reason,omitempty"` // gateway failure description, if any
}
