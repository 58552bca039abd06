package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/monitoring"
	"salonflow/utils"

	"go.uber.org/zap"
)

// ApplyGatewayCallback applies the gateway's asynchronous payment result to
// the booking. Verification failures and gateway-declared failures are
// normal terminal outcomes (FAILED), not errors. The handler is idempotent:
// replaying a callback with an already-applied payment id changes nothing.
func (s *DefaultBookingService) ApplyGatewayCallback(ctx context.Context, cb models.GatewayCallback) (*models.Booking, error) {
	if cb.OrderID == "" {
		return nil, NewValidationError("order id is required")
	}

	b, err := s.Repo.GetByOrderID(ctx, cb.OrderID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("no booking for order " + cb.OrderID)
		}
		return nil, fmt.Errorf("failed to load booking for callback: %w", err)
	}

	// Replay of a payment we already applied: acknowledge without touching
	// the booking again.
	for _, pid := range b.PaymentIDs {
		if pid != "" && pid == cb.PaymentID {
			monitoring.RecordPaymentCallback("replay")
			return b, nil
		}
	}

	verified := cb.Signature != "" && s.Gateway.VerifyCallbackSignature(cb.OrderID, cb.PaymentID, cb.Signature)
	captured := verified && cb.Status == models.GatewayStatusCaptured

	if !captured {
		return s.failBooking(ctx, b, failureReason(cb, verified))
	}

	if cb.Amount <= 0 {
		return nil, NewValidationError("captured amount must be positive")
	}
	replace := cb.PaymentType != models.PaymentTypeRemaining
	newTotal := cb.Amount
	if !replace {
		newTotal = b.Amount + cb.Amount
	}
	if !amountsEqual(newTotal, b.TotalAmount) && newTotal > b.TotalAmount {
		return nil, NewConflictError("captured amount exceeds booking total")
	}

	pin := ""
	if b.PIN == "" {
		pin, err = utils.GenerateBookingPIN()
		if err != nil {
			return nil, fmt.Errorf("failed to issue booking PIN: %w", err)
		}
	}

	method, err := s.Gateway.FetchPaymentMethod(ctx, cb.PaymentID)
	if err != nil {
		// Best effort only; the transition must not block on metadata.
		s.Logger.Warn("payment method lookup failed",
			zap.String("paymentID", cb.PaymentID), zap.Error(err))
		method = "UNKNOWN"
	}

	applied, err := s.Repo.RecordCapture(ctx, bookingRepo.CaptureParams{
		BookingID: b.ID,
		PaymentID: cb.PaymentID,
		Amount:    cb.Amount,
		Replace:   replace,
		Method:    method,
		PIN:       pin,
		UPIID:     cb.UPIID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record capture: %w", err)
	}
	if !applied {
		// Lost a race with a concurrent delivery of the same callback.
		monitoring.RecordPaymentCallback("replay")
		return s.Repo.GetByID(ctx, b.ID)
	}

	// The payment is captured; the coupon is spent now and only now.
	if b.CouponCode != "" {
		if err := s.Coupons.Consume(ctx, b.CouponCode, b.CustomerID); err != nil {
			s.Logger.Error("coupon consumption failed after capture",
				zap.String("bookingID", b.ID),
				zap.String("coupon", b.CouponCode),
				zap.Error(err))
		} else {
			monitoring.RecordCouponConsumed()
		}
	}

	updated, err := s.Repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	monitoring.RecordPaymentCallback("paid")
	s.Logger.Info("booking payment captured",
		zap.String("bookingID", updated.ID),
		zap.String("paymentID", cb.PaymentID),
		zap.Float64("amount", updated.Amount))
	s.notify(ctx, updated, notificationEventFor(updated.PaymentStatus))
	return updated, nil
}

// failBooking records a failed payment attempt. Only PENDING bookings move;
// a booking already captured is never clobbered by a bad callback.
func (s *DefaultBookingService) failBooking(ctx context.Context, b *models.Booking, reason string) (*models.Booking, error) {
	moved, err := s.Repo.MarkFailed(ctx, b.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to mark booking failed: %w", err)
	}

	updated, err := s.Repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	monitoring.RecordPaymentCallback("failed")
	if moved {
		s.Logger.Info("booking payment failed",
			zap.String("bookingID", b.ID), zap.String("reason", reason))
		s.notify(ctx, updated, notificationEventFor(updated.PaymentStatus))
	}
	return updated, nil
}

func failureReason(cb models.GatewayCallback, verified bool) string {
	switch {
	case cb.Reason != "":
		return cb.Reason
	case cb.Signature == "":
		return "gateway reported payment failure"
	case !verified:
		return "callback signature verification failed"
	default:
		return "payment not captured by gateway"
	}
}
