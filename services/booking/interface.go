package booking

import (
	"context"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/services/notification"
	"salonflow/services/payment"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CouponLedger is the slice of the coupon service this engine consumes.
// Consume must only be called after a payment is confirmed captured.
type CouponLedger interface {
	Validate(ctx context.Context, code, customerID string) (*models.CouponValidation, error)
	Consume(ctx context.Context, code, customerID string) error
}

// BookingService drives the booking lifecycle from creation to terminal
// state, synchronized with the payment gateway callback.
type BookingService interface {
	Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ApplyGatewayCallback(ctx context.Context, cb models.GatewayCallback) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID, customerID string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	Reschedule(ctx context.Context, bookingID, customerID string, req models.RescheduleRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, customerID string, req models.CancelRequest) (*models.CancelResult, error)
	ResolveRefund(ctx context.Context, bookingID, providerID, decision string) (string, error)
	Review(ctx context.Context, bookingID, customerID string, req models.ReviewRequest) error
	ProviderDaySchedule(ctx context.Context, providerID, employee, date string) ([][2]int, error)
	SweepStalePending(ctx context.Context) (int64, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Coupons    CouponLedger
	Gateway    payment.Gateway
	Notifier   notification.Dispatcher
	Cache      *redis.Client // optional, availability pre-check only
	Logger     *zap.Logger
	Currency   string
	PendingTTL time.Duration

	// Now is the clock, injectable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func notificationEventFor(paymentStatus string) string {
	switch paymentStatus {
	case models.PaymentPaid:
		return notification.EventPaid
	case models.PaymentCancelled:
		return notification.EventCancelled
	default:
		return notification.EventFailed
	}
}

// notify fires a booking event without letting delivery problems reach the
// caller.
func (s *DefaultBookingService) notify(ctx context.Context, b *models.Booking, event string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.BookingEvent(ctx, b, event); err != nil {
		s.Logger.Warn("booking event dispatch failed",
			zap.String("event", event), zap.String("bookingID", b.ID), zap.Error(err))
	}
}
