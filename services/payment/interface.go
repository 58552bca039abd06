package payment

import (
	"context"
	"errors"

	"salonflow/models"
)

// ErrGatewayUnavailable is returned when the remote gateway call errors or
// times out. Callers must treat it as retryable, never as success.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Gateway is the payment-gateway adapter: order creation, callback
// authenticity, and best-effort payment metadata.
type Gateway interface {
	// CreateOrder registers a payment intent for the given amount in
	// currency units and returns the gateway order.
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]interface{}) (*models.PaymentOrder, error)

	// VerifyCallbackSignature recomputes the callback HMAC and compares it
	// constant-time. An empty signature always fails: the gateway's own
	// failure path sends none.
	VerifyCallbackSignature(orderID, paymentID, signature string) bool

	// FetchPaymentMethod looks up how a payment was made. Best effort.
	FetchPaymentMethod(ctx context.Context, paymentID string) (string, error)
}
