package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/monitoring"

	"go.uber.org/zap"
)

const (
	availabilityCacheTTL = 30 * time.Second
	defaultPendingTTL    = 30 * time.Minute
)

// getOwned loads a booking and checks that customerID owns it.
func (s *DefaultBookingService) getOwned(ctx context.Context, bookingID, customerID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.CustomerID != customerID {
		return nil, NewUnauthorizedError("booking belongs to another customer")
	}
	return b, nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID, customerID string) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID, customerID)
}

func (s *DefaultBookingService) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	bookings, err := s.Repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Review attaches a rating and optional review or complaint to a completed
// booking. Only paid bookings can be reviewed.
func (s *DefaultBookingService) Review(ctx context.Context, bookingID, customerID string, req models.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return NewValidationError("rating must be between 1 and 5")
	}

	b, err := s.getOwned(ctx, bookingID, customerID)
	if err != nil {
		return err
	}
	if b.PaymentStatus != models.PaymentPaid {
		return NewConflictError("only paid bookings can be reviewed")
	}

	ok, err := s.Repo.SetReview(ctx, b.ID, customerID, req)
	if err != nil {
		return fmt.Errorf("failed to store review: %w", err)
	}
	if !ok {
		return NewNotFoundError("booking not found")
	}
	s.Logger.Info("booking reviewed",
		zap.String("bookingID", b.ID), zap.Int("rating", req.Rating))
	return nil
}

// ProviderDaySchedule returns the occupied [start, end) minute intervals for
// a provider's employee on a date, so clients can grey out taken slots before
// attempting a booking. Results are cached briefly; the cache is advisory and
// commit-time checks remain authoritative.
func (s *DefaultBookingService) ProviderDaySchedule(ctx context.Context, providerID, employee, date string) ([][2]int, error) {
	if providerID == "" || employee == "" {
		return nil, NewValidationError("provider and employee are required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, NewValidationError("date must be formatted as YYYY-MM-DD")
	}

	cacheKey := "availability:" + SlotKey(providerID, employee, date, 0)
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var intervals [][2]int
			if json.Unmarshal([]byte(raw), &intervals) == nil {
				return intervals, nil
			}
		}
	}

	bookings, err := s.Repo.ListForSlot(ctx, providerID, employee, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider schedule: %w", err)
	}
	intervals := OccupiedIntervals(bookings)

	if s.Cache != nil {
		if raw, err := json.Marshal(intervals); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, raw, availabilityCacheTTL).Err(); err != nil {
				s.Logger.Warn("availability cache write failed", zap.Error(err))
			}
		}
	}
	return intervals, nil
}

// SweepStalePending fails PENDING bookings whose payment window has elapsed,
// releasing their slot claims.
func (s *DefaultBookingService) SweepStalePending(ctx context.Context) (int64, error) {
	ttl := s.PendingTTL
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	cutoff := s.now().Add(-ttl)

	swept, err := s.Repo.SweepStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale bookings: %w", err)
	}
	if swept > 0 {
		monitoring.RecordSweptBookings(swept)
		s.Logger.Info("stale pending bookings failed",
			zap.Int64("count", swept), zap.Time("cutoff", cutoff))
	}
	return swept, nil
}
