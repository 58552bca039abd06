package payment

import (
	"context"
	"fmt"
	"time"

	"salonflow/models"
	"salonflow/monitoring"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RazorpayGateway implements Gateway against the Razorpay API.
type RazorpayGateway struct {
	client        *razorpay.Client
	webhookSecret []byte
	timeout       time.Duration
	logger        *zap.Logger
}

// NewRazorpayGateway constructs the gateway adapter. The client is injected
// at process start; nothing here reads ambient globals.
func NewRazorpayGateway(keyID, keySecret, webhookSecret string, logger *zap.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		webhookSecret: []byte(webhookSecret),
		timeout:       10 * time.Second,
		logger:        logger,
	}
}

// call bounds an SDK call with the caller's context; the SDK itself is not
// context-aware.
func (g *RazorpayGateway) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		body map[string]interface{}
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := fn()
		ch <- result{body, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, r.err)
		}
		return r.body, nil
	}
}

// CreateOrder registers a payment intent with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]interface{}) (*models.PaymentOrder, error) {
	amountMinor := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	started := time.Now()
	body, err := g.call(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Create(data, nil)
	})
	monitoring.ObserveGatewayCall("order_create", time.Since(started), err == nil)
	if err != nil {
		g.logger.Error("gateway order creation failed",
			zap.String("receipt", receipt), zap.Error(err))
		return nil, err
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order response missing id", ErrGatewayUnavailable)
	}
	return &models.PaymentOrder{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
	}, nil
}

// VerifyCallbackSignature checks the callback HMAC with the shared secret.
func (g *RazorpayGateway) VerifyCallbackSignature(orderID, paymentID, signature string) bool {
	return VerifyCallbackSignature(orderID, paymentID, signature, g.webhookSecret)
}

// FetchPaymentMethod looks up the payment method for a captured payment.
func (g *RazorpayGateway) FetchPaymentMethod(ctx context.Context, paymentID string) (string, error) {
	started := time.Now()
	body, err := g.call(ctx, func() (map[string]interface{}, error) {
		return g.client.Payment.Fetch(paymentID, nil, nil)
	})
	monitoring.ObserveGatewayCall("payment_fetch", time.Since(started), err == nil)
	if err != nil {
		return "", err
	}
	method, _ := body["method"].(string)
	if method == "" {
		return "", fmt.Errorf("payment %s has no method field", paymentID)
	}
	return method, nil
}
