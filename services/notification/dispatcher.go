package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonflow/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher queues booking events for the notification worker.
type AsynqDispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

// NewAsynqDispatcher constructs the dispatcher around an injected asynq
// client with explicit lifecycle (created at process start).
func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{client: client, logger: logger}
}

// BookingEvent enqueues the event. Callers treat errors as log-only.
func (d *AsynqDispatcher) BookingEvent(ctx context.Context, booking *models.Booking, event string) error {
	payload, err := json.Marshal(BookingEventPayload{
		Event:         event,
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		ProviderID:    booking.ProviderID,
		ProviderEmail: booking.ProviderEmail,
		Service:       booking.Service,
		Date:          booking.Date,
		TimeSlot:      booking.TimeSlot,
		Amount:        booking.Amount,
		RefundStatus:  booking.RefundStatus,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	task := asynq.NewTask(TypeBookingNotify, payload)
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)); err != nil {
		d.logger.Error("failed to enqueue booking event",
			zap.String("event", event), zap.String("bookingID", booking.ID), zap.Error(err))
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	return nil
}
