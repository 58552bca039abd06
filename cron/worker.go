package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"salonflow/config"
	"salonflow/services/booking"
	"salonflow/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingSweep is the scheduled task that fails stale PENDING bookings.
const TypeBookingSweep = "booking:sweep"

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient creates the asynq client the dispatcher enqueues through.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(queueRedisOpts())
}

// InitBookingWorker runs the async worker in background: it delivers queued
// booking notifications and executes the periodic stale-booking sweep.
func InitBookingWorker(bookingSvc booking.BookingService, logger *zap.Logger) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingNotify, handleBookingNotify(logger))
	mux.HandleFunc(TypeBookingSweep, handleBookingSweep(bookingSvc, logger))

	go func() {
		log.Println("[BookingWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BookingWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// InitSweepScheduler enqueues the sweep task on a fixed interval.
func InitSweepScheduler(logger *zap.Logger) {
	interval := config.AppConfig.SweepIntervalMinutes
	if interval <= 0 {
		interval = 10
	}

	scheduler := asynq.NewScheduler(queueRedisOpts(), &asynq.SchedulerOpts{})
	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeBookingSweep, nil)); err != nil {
		logger.Error("failed to register booking sweep", zap.Error(err))
		return
	}

	go func() {
		log.Println("[BookingWorker] Starting sweep scheduler...")
		if err := scheduler.Run(); err != nil {
			logger.Error("sweep scheduler stopped", zap.Error(err))
		}
	}()
}

func handleBookingNotify(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.BookingEventPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid booking event payload", zap.Error(err))
			return err
		}

		// Delivery target integrations (push, email) hang off this point;
		// the structured log is the audit trail either way.
		logger.Info("booking event delivered",
			zap.String("event", p.Event),
			zap.String("bookingID", p.BookingID),
			zap.String("customerID", p.CustomerID),
			zap.String("providerID", p.ProviderID),
			zap.String("slot", p.Date+" "+p.TimeSlot))
		return nil
	}
}

func handleBookingSweep(bookingSvc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		swept, err := bookingSvc.SweepStalePending(ctx)
		if err != nil {
			logger.Error("stale booking sweep failed", zap.Error(err))
			return err
		}
		if swept > 0 {
			logger.Info("stale booking sweep completed", zap.Int64("swept", swept))
		}
		return nil
	}
}
