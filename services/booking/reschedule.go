package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/services/notification"

	"go.uber.org/zap"
)

// Reschedule moves a booking to a new date/time/employee after re-checking
// availability against every other customer's occupying bookings for that
// provider. Payment state is untouched. A version compare-and-swap keeps
// concurrent reschedules from both winning.
func (s *DefaultBookingService) Reschedule(ctx context.Context, bookingID, customerID string, req models.RescheduleRequest) (*models.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}
	if b.Confirmed == models.ConfirmedCancelled || b.PaymentStatus == models.PaymentCancelled {
		return nil, NewConflictError("cancelled bookings cannot be rescheduled")
	}

	if req.Employee == "" {
		req.Employee = b.Employee
	}
	if req.Date == "" || req.TimeSlot == "" {
		return nil, NewValidationError("date and time slot are required")
	}
	day, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	today, _ := time.Parse(DateLayout, s.now().Format(DateLayout))
	if day.Before(today) {
		return nil, NewValidationError("date cannot be in the past")
	}
	startMins, err := ParseSlotMinutes(req.TimeSlot)
	if err != nil {
		return nil, NewValidationError("time slot must be formatted as HH:MM")
	}

	others, err := s.Repo.ListForSlot(ctx, b.ProviderID, req.Employee, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for slot check: %w", err)
	}
	filtered := others[:0]
	for _, other := range others {
		if other.ID != b.ID {
			filtered = append(filtered, other)
		}
	}
	if !IsSlotFree(s.now(), req.Date, startMins, b.DurationMins, filtered) {
		return nil, ErrSlotUnavailable
	}

	ok, err := s.Repo.UpdateSchedule(ctx, bookingRepo.ScheduleParams{
		BookingID:       b.ID,
		ExpectedVersion: b.Version,
		Date:            req.Date,
		TimeSlot:        req.TimeSlot,
		Employee:        req.Employee,
		SlotKey:         SlotKey(b.ProviderID, req.Employee, req.Date, startMins),
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}
	if !ok {
		return nil, NewConflictError("booking was modified concurrently, retry")
	}

	updated, err := s.Repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.Logger.Info("booking rescheduled",
		zap.String("bookingID", b.ID),
		zap.String("slot", updated.Date+" "+updated.TimeSlot),
		zap.String("employee", updated.Employee))
	s.notify(ctx, updated, notification.EventRescheduled)
	return updated, nil
}
