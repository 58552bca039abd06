package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/monitoring"
	"salonflow/services/notification"

	"go.uber.org/zap"
)

// Refund decisions a provider can make on a pending refund.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Cancel cancels a captured, future booking and computes the refund. A full
// payment gets 75% back (refund pending the provider's decision) and needs
// a UPI payout id; an advance payment is forfeited.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, customerID string, req models.CancelRequest) (*models.CancelResult, error) {
	b, err := s.getOwned(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	if b.Confirmed == models.ConfirmedCancelled || b.PaymentStatus == models.PaymentCancelled {
		return nil, NewConflictError("booking is already cancelled")
	}
	if b.PaymentStatus != models.PaymentPaid {
		return nil, NewConflictError("only captured bookings can be cancelled")
	}

	day, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid date %q: %w", b.ID, b.Date, err)
	}
	today, _ := time.Parse(DateLayout, s.now().Format(DateLayout))
	if !day.After(today) {
		return nil, NewConflictError("past or same-day bookings cannot be cancelled")
	}

	refundAmount := 0.0
	refundStatus := models.RefundNone
	if amountsEqual(b.Amount, b.TotalAmount) {
		// Full payment: refund minus the cancellation fee, pending review.
		if req.UPIID == "" {
			return nil, NewValidationError("upi id is required to refund a full payment")
		}
		refundAmount = RefundAmount(b.Amount)
		refundStatus = models.RefundPending
	}

	ok, err := s.Repo.Cancel(ctx, bookingRepo.CancelParams{
		BookingID:    b.ID,
		CustomerID:   customerID,
		RefundStatus: refundStatus,
		RefundAmount: refundAmount,
		UPIID:        req.UPIID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !ok {
		return nil, NewConflictError("booking is no longer cancellable")
	}

	monitoring.RecordCancellation(refundStatus)
	s.Logger.Info("booking cancelled",
		zap.String("bookingID", b.ID),
		zap.Float64("refundAmount", refundAmount),
		zap.String("refundStatus", refundStatus))

	if updated, loadErr := s.Repo.GetByID(ctx, b.ID); loadErr == nil {
		s.notify(ctx, updated, notificationEventFor(updated.PaymentStatus))
	}
	return &models.CancelResult{RefundAmount: refundAmount, RefundStatus: refundStatus}, nil
}

// ResolveRefund records the provider's accept/reject decision on a pending
// refund. The decision is terminal. Money movement is the gateway's job.
func (s *DefaultBookingService) ResolveRefund(ctx context.Context, bookingID, providerID, decision string) (string, error) {
	var status string
	switch decision {
	case DecisionAccept:
		status = models.RefundApproved
	case DecisionReject:
		status = models.RefundRejected
	default:
		return "", NewValidationError("decision must be accept or reject")
	}

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return "", NewNotFoundError("booking not found")
		}
		return "", fmt.Errorf("failed to load booking: %w", err)
	}
	if b.ProviderID != providerID {
		return "", NewUnauthorizedError("refund belongs to another provider")
	}
	if b.RefundStatus != models.RefundPending {
		return "", ErrAlreadyResolved
	}

	ok, err := s.Repo.ResolveRefund(ctx, bookingID, providerID, status)
	if err != nil {
		return "", fmt.Errorf("failed to resolve refund: %w", err)
	}
	if !ok {
		return "", ErrAlreadyResolved
	}

	monitoring.RecordRefundDecision(decision)
	s.Logger.Info("refund resolved",
		zap.String("bookingID", bookingID), zap.String("status", status))

	if updated, loadErr := s.Repo.GetByID(ctx, bookingID); loadErr == nil {
		s.notify(ctx, updated, notification.EventRefund)
	}
	return status, nil
}
