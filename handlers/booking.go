package handlers

import (
	"net/http"

	"salonflow/models"
	"salonflow/services/booking"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBookingOrder creates a PENDING booking and its gateway payment
// order. The caller's identity comes from the auth middleware, never the
// request body.
func (h *BookingHandler) CreateBookingOrder(c *gin.Context) {
	customerID := c.GetString("customerID")
	if customerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing customer identity.")
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	req.CustomerID = customerID

	b, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Amount on the booking is captured-so-far (zero until the callback);
	// the checkout needs the amount the order was created for.
	c.JSON(http.StatusCreated, gin.H{
		"booking_id": b.ID,
		"order_id":   b.OrderID,
		"amount":     req.Amount,
		"currency":   b.Currency,
		"status":     b.PaymentStatus,
	})
}

// GatewayCallback receives the gateway's asynchronous payment result. The
// response acknowledges receipt; a failed payment is still a 200 because the
// callback itself was processed.
func (h *BookingHandler) GatewayCallback(c *gin.Context) {
	var cb models.GatewayCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid callback payload", err.Error())
		return
	}

	b, err := h.Service.ApplyGatewayCallback(c.Request.Context(), cb)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := gin.H{
		"booking_id":     b.ID,
		"payment_status": b.PaymentStatus,
	}
	if b.PaymentStatus == models.PaymentFailed && b.FailureReason != "" {
		resp["reason"] = b.FailureReason
	}
	c.JSON(http.StatusOK, resp)
}

// GetBooking returns one booking owned by the caller.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetByID(c.Request.Context(), c.Param("id"), c.GetString("customerID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings returns the caller's bookings, newest first.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Service.ListByCustomer(c.Request.Context(), c.GetString("customerID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// RescheduleBooking moves a booking to a new slot.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Service.Reschedule(c.Request.Context(), c.Param("id"), c.GetString("customerID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking cancels a paid booking and reports the refund outcome.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), c.GetString("customerID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RefundDecision records the provider's accept/reject call on a pending
// refund.
func (h *BookingHandler) RefundDecision(c *gin.Context) {
	providerID := c.GetString("providerID")
	if providerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing provider identity.")
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	status, err := h.Service.ResolveRefund(c.Request.Context(), c.Param("id"), providerID, req.Decision)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund_status": status})
}

// ReviewBooking attaches a rating and review or complaint to a booking.
func (h *BookingHandler) ReviewBooking(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if err := h.Service.Review(c.Request.Context(), c.Param("id"), c.GetString("customerID"), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review recorded."})
}

// ProviderAvailability returns the occupied minute intervals for an
// employee's day so clients can render free slots.
func (h *BookingHandler) ProviderAvailability(c *gin.Context) {
	intervals, err := h.Service.ProviderDaySchedule(
		c.Request.Context(),
		c.Param("providerId"),
		c.Query("employee"),
		c.Query("date"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	occupied := make([]gin.H, 0, len(intervals))
	for _, iv := range intervals {
		occupied = append(occupied, gin.H{"start_mins": iv[0], "end_mins": iv[1]})
	}
	c.JSON(http.StatusOK, gin.H{"occupied": occupied})
}
