package bookingRepo

import (
	"context"
	"errors"
	"time"

	"salonflow/models"
)

// ErrSlotTaken is returned when the commit-time slot guard rejects a write
// because another active booking already holds the slot key.
var ErrSlotTaken = errors.New("slot already taken")

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// CaptureParams applies one captured gateway payment to a booking. The
// update is conditional on PaymentID not having been applied before, which
// is what makes callback replays safe. Failed payments go through MarkFailed
// instead.
type CaptureParams struct {
	BookingID string
	PaymentID string
	Amount    float64
	Replace   bool // initial payment replaces the amount, remaining adds
	Method    string
	PIN       string // set only on the first successful capture
	UPIID     string
}

// CancelParams finalizes a cancellation together with its refund decision.
type CancelParams struct {
	BookingID    string
	CustomerID   string
	RefundStatus string
	RefundAmount float64
	UPIID        string
}

// ScheduleParams moves a booking to a new slot, guarded by a version CAS.
type ScheduleParams struct {
	BookingID       string
	ExpectedVersion int64
	Date            string
	TimeSlot        string
	Employee        string
	SlotKey         string
}

// BookingRepository is the storage contract for booking records.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListForSlot(ctx context.Context, providerID, employee, date string) ([]models.Booking, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)

	// SetOrderID stores the gateway order id once the order is created.
	SetOrderID(ctx context.Context, bookingID, orderID string) error
	// RecordCapture returns false when the payment id was already applied.
	RecordCapture(ctx context.Context, params CaptureParams) (bool, error)
	MarkFailed(ctx context.Context, bookingID, reason string) (bool, error)
	// Cancel returns false when the booking is not in a cancellable state.
	Cancel(ctx context.Context, params CancelParams) (bool, error)
	// ResolveRefund returns false when the refund is not pending anymore.
	ResolveRefund(ctx context.Context, bookingID, providerID, status string) (bool, error)
	// UpdateSchedule returns false on a version mismatch.
	UpdateSchedule(ctx context.Context, params ScheduleParams) (bool, error)
	SetReview(ctx context.Context, bookingID, customerID string, review models.ReviewRequest) (bool, error)

	// SweepStalePending fails PENDING bookings created before cutoff and
	// releases their slot claims. Returns how many were reconciled.
	SweepStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
