package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonflow/models"
	"salonflow/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingService returns canned results per operation.
type stubBookingService struct {
	booking.BookingService

	createResult   *models.Booking
	createErr      error
	callbackResult *models.Booking
	callbackErr    error
	cancelResult   *models.CancelResult
	cancelErr      error
	refundStatus   string
	refundErr      error
}

func (s *stubBookingService) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	return s.createResult, s.createErr
}

func (s *stubBookingService) ApplyGatewayCallback(ctx context.Context, cb models.GatewayCallback) (*models.Booking, error) {
	return s.callbackResult, s.callbackErr
}

func (s *stubBookingService) Cancel(ctx context.Context, bookingID, customerID string, req models.CancelRequest) (*models.CancelResult, error) {
	return s.cancelResult, s.cancelErr
}

func (s *stubBookingService) ResolveRefund(ctx context.Context, bookingID, providerID, decision string) (string, error) {
	return s.refundStatus, s.refundErr
}

func setIdentity(key, value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, value)
		c.Next()
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingOrderResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubBookingService{
		createResult: &models.Booking{
			ID:            "b-1",
			OrderID:       "order_b-1",
			Currency:      "INR",
			PaymentStatus: models.PaymentPending,
		},
	}
	h := NewBookingHandler(stub)

	router := gin.New()
	router.POST("/api/bookings/order", setIdentity("customerID", "cust-1"), h.CreateBookingOrder)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/order", models.BookingRequest{
		ProviderID: "prov-1",
		Amount:     250,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp["booking_id"])
	assert.Equal(t, "order_b-1", resp["order_id"])
	assert.Equal(t, 250.0, resp["amount"], "amount to collect, not amount captured")
	assert.Equal(t, "PENDING", resp["status"])
}

func TestCreateBookingOrderRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(&stubBookingService{})

	router := gin.New()
	router.POST("/api/bookings/order", h.CreateBookingOrder)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/order", models.BookingRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingOrderErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", booking.NewValidationError("bad"), http.StatusBadRequest},
		{"slot conflict", booking.ErrSlotUnavailable, http.StatusConflict},
		{"not found", booking.NewNotFoundError("missing"), http.StatusNotFound},
		{"unauthorized", booking.NewUnauthorizedError("not yours"), http.StatusForbidden},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookingService{createErr: tt.err})
			router := gin.New()
			router.POST("/api/bookings/order", setIdentity("customerID", "cust-1"), h.CreateBookingOrder)

			w := performJSON(t, router, http.MethodPost, "/api/bookings/order", models.BookingRequest{})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGatewayCallbackAcknowledgesFailedPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubBookingService{
		callbackResult: &models.Booking{
			ID:            "b-1",
			PaymentStatus: models.PaymentFailed,
			FailureReason: "gateway reported payment failure",
		},
	}
	h := NewBookingHandler(stub)

	router := gin.New()
	router.POST("/api/bookings/order/callback", h.GatewayCallback)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/order/callback", models.GatewayCallback{
		OrderID:   "order_b-1",
		PaymentID: "pay_1",
	})
	// A processed callback is a 200 even when the payment itself failed.
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FAILED", resp["payment_status"])
	assert.Equal(t, "gateway reported payment failure", resp["reason"])
}

func TestGatewayCallbackUnknownOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(&stubBookingService{callbackErr: booking.NewNotFoundError("no booking")})

	router := gin.New()
	router.POST("/api/bookings/order/callback", h.GatewayCallback)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/order/callback", models.GatewayCallback{
		OrderID: "order_missing",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelBookingResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubBookingService{
		cancelResult: &models.CancelResult{RefundAmount: 750, RefundStatus: models.RefundPending},
	}
	h := NewBookingHandler(stub)

	router := gin.New()
	router.POST("/api/bookings/:id/cancel", setIdentity("customerID", "cust-1"), h.CancelBooking)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/b-1/cancel", models.CancelRequest{UPIID: "a@bank"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CancelResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 750.0, resp.RefundAmount)
	assert.Equal(t, models.RefundPending, resp.RefundStatus)
}

func TestRefundDecisionResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubBookingService{refundStatus: models.RefundApproved}
	h := NewBookingHandler(stub)

	router := gin.New()
	router.POST("/api/bookings/:id/refund-decision", setIdentity("providerID", "prov-1"), h.RefundDecision)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/b-1/refund-decision",
		map[string]string{"decision": "accept"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RefundApproved, resp["refund_status"])
}

func TestRefundDecisionAlreadyResolved(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(&stubBookingService{refundErr: booking.ErrAlreadyResolved})

	router := gin.New()
	router.POST("/api/bookings/:id/refund-decision", setIdentity("providerID", "prov-1"), h.RefundDecision)

	w := performJSON(t, router, http.MethodPost, "/api/bookings/b-1/refund-decision",
		map[string]string{"decision": "accept"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
