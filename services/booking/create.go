package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"
	"salonflow/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create validates the request, pre-checks the slot against the customer's
// own bookings with this provider, persists a PENDING booking that claims
// the slot, and registers the payment order with the gateway. The booking
// never looks paid before a verified callback arrives.
func (s *DefaultBookingService) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	startMins, err := s.validateCreate(&req)
	if err != nil {
		return nil, err
	}

	discountFraction := 0.0
	if req.CouponCode != "" {
		validation, err := s.Coupons.Validate(ctx, req.CouponCode, req.CustomerID)
		if err != nil {
			return nil, err
		}
		discountFraction = validation.Discount
		if !DiscountMatches(req.TotalAmount, req.DiscountAmount, discountFraction) {
			return nil, ErrDiscountMismatch
		}
	} else if req.DiscountAmount != 0 {
		return nil, NewValidationError("discount requires a coupon code")
	}

	duration := ServiceDuration(len(req.RelatedServices))

	// Pre-check against this customer's own commitments with the provider.
	// The slot_key index is the authoritative cross-customer guard.
	own, err := s.Repo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer bookings: %w", err)
	}
	sameProvider := make([]models.Booking, 0, len(own))
	for _, b := range own {
		if b.ProviderID == req.ProviderID {
			sameProvider = append(sameProvider, b)
		}
	}
	if !IsSlotFree(s.now(), req.Date, startMins, duration, sameProvider) {
		return nil, ErrSlotUnavailable
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		ProviderID:      req.ProviderID,
		ProviderEmail:   req.ProviderEmail,
		Employee:        req.Employee,
		Date:            req.Date,
		TimeSlot:        req.TimeSlot,
		Service:         req.Service,
		RelatedServices: req.RelatedServices,
		DurationMins:    duration,
		TotalAmount:     req.TotalAmount,
		DiscountAmount:  req.DiscountAmount,
		Currency:        s.currency(),
		CouponCode:      req.CouponCode,
		PaymentStatus:   models.PaymentPending,
		Confirmed:       models.ConfirmedPending,
		RefundStatus:    models.RefundNone,
		SlotKey:         SlotKey(req.ProviderID, req.Employee, req.Date, startMins),
		SlotActive:      true,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	order, err := s.Gateway.CreateOrder(ctx, req.Amount, b.Currency, b.ID, map[string]interface{}{
		"booking_id":  b.ID,
		"customer_id": b.CustomerID,
		"provider_id": b.ProviderID,
	})
	if err != nil {
		// Release the slot claim; the customer can retry cleanly.
		if _, failErr := s.Repo.MarkFailed(ctx, b.ID, "payment order creation failed"); failErr != nil {
			s.Logger.Error("failed to release booking after gateway error",
				zap.String("bookingID", b.ID), zap.Error(failErr))
		}
		return nil, err
	}

	if err := s.Repo.SetOrderID(ctx, b.ID, order.OrderID); err != nil {
		return nil, fmt.Errorf("failed to store order id: %w", err)
	}
	b.OrderID = order.OrderID

	monitoring.RecordBookingCreated()
	s.Logger.Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("orderID", order.OrderID),
		zap.String("providerID", b.ProviderID),
		zap.String("slot", b.Date+" "+b.TimeSlot))
	return b, nil
}

func (s *DefaultBookingService) validateCreate(req *models.BookingRequest) (int, error) {
	switch {
	case req.CustomerID == "":
		return 0, NewValidationError("customer id is required")
	case req.ProviderID == "":
		return 0, NewValidationError("provider is required")
	case req.Service == "":
		return 0, NewValidationError("service is required")
	case req.Employee == "":
		return 0, NewValidationError("favorite employee is required")
	case req.Date == "":
		return 0, NewValidationError("date is required")
	case req.TimeSlot == "":
		return 0, NewValidationError("time slot is required")
	case req.Amount <= 0:
		return 0, NewValidationError("amount must be positive")
	case req.TotalAmount <= 0:
		return 0, NewValidationError("total amount must be positive")
	case req.Amount > req.TotalAmount:
		return 0, NewValidationError("amount cannot exceed total amount")
	case req.DiscountAmount < 0:
		return 0, NewValidationError("discount cannot be negative")
	}

	day, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return 0, NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	today, _ := time.Parse(DateLayout, s.now().Format(DateLayout))
	if day.Before(today) {
		return 0, NewValidationError("date cannot be in the past")
	}

	startMins, err := ParseSlotMinutes(req.TimeSlot)
	if err != nil {
		return 0, NewValidationError("time slot must be formatted as HH:MM")
	}
	return startMins, nil
}

func (s *DefaultBookingService) currency() string {
	if s.Currency == "" {
		return "INR"
	}
	return s.Currency
}
