package notification

import (
	"context"

	"salonflow/models"
)

// Booking lifecycle events the dispatcher announces.
const (
	EventPaid        = "booking_paid"
	EventFailed      = "booking_failed"
	EventCancelled   = "booking_cancelled"
	EventRescheduled = "booking_rescheduled"
	EventRefund      = "refund_decided"
)

// TypeBookingNotify is the asynq task type carrying a booking event.
const TypeBookingNotify = "notification:booking"

// BookingEventPayload is the queued notification payload.
type BookingEventPayload struct {
	Event         string  `json:"event"`
	BookingID     string  `json:"booking_id"`
	CustomerID    string  `json:"customer_id"`
	ProviderID    string  `json:"provider_id"`
	ProviderEmail string  `json:"provider_email,omitempty"`
	Service       string  `json:"service"`
	Date          string  `json:"date"`
	TimeSlot      string  `json:"time_slot"`
	Amount        float64 `json:"amount"`
	RefundStatus  string  `json:"refund_status,omitempty"`
}

// Dispatcher announces booking lifecycle events to the outside world.
// Dispatch is fire-and-forget: a failure never rolls a booking back.
type Dispatcher interface {
	BookingEvent(ctx context.Context, booking *models.Booking, event string) error
}
