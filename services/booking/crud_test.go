package booking

import (
	"context"
	"testing"
	"time"

	"salonflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDOwnership(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	b, err := env.svc.GetByID(context.Background(), "b-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", b.ID)

	_, err = env.svc.GetByID(context.Background(), "b-1", "cust-2")
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	_, err = env.svc.GetByID(context.Background(), "b-missing", "cust-1")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestReview(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	err := env.svc.Review(context.Background(), "b-1", "cust-1", models.ReviewRequest{
		Rating: 4,
		Review: "great cut",
	})
	require.NoError(t, err)

	b, _ := env.repo.GetByID(context.Background(), "b-1")
	assert.Equal(t, 4, b.Rating)
	assert.Equal(t, "great cut", b.Review)
}

func TestReviewGuards(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	err := env.svc.Review(context.Background(), "b-1", "cust-1", models.ReviewRequest{Rating: 0})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	err = env.svc.Review(context.Background(), "b-1", "cust-1", models.ReviewRequest{Rating: 6})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	pending := paidCustomerBooking(250, 1000)
	pending.ID = "b-2"
	pending.PaymentStatus = models.PaymentPending
	pending.Confirmed = models.ConfirmedPending
	env.repo.put(pending)

	err = env.svc.Review(context.Background(), "b-2", "cust-1", models.ReviewRequest{Rating: 5})
	require.Error(t, err)
	assert.Equal(t, CodeConflict, CodeOf(err))
}

func TestProviderDaySchedule(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000)) // 11:00 for 60 mins

	pending := paidCustomerBooking(250, 1000)
	pending.ID = "b-2"
	pending.CustomerID = "cust-2"
	pending.TimeSlot = "14:00"
	pending.PaymentStatus = models.PaymentPending
	pending.Confirmed = models.ConfirmedPending
	env.repo.put(pending)

	intervals, err := env.svc.ProviderDaySchedule(context.Background(), "prov-1", "asha", "2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{660, 720}}, intervals, "pending bookings do not occupy")

	_, err = env.svc.ProviderDaySchedule(context.Background(), "", "asha", "2026-03-12")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = env.svc.ProviderDaySchedule(context.Background(), "prov-1", "asha", "yesterday")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestSweepStalePending(t *testing.T) {
	env := newTestEnv()
	env.svc.PendingTTL = 30 * time.Minute

	stale := paidCustomerBooking(250, 1000)
	stale.ID = "b-stale"
	stale.PaymentStatus = models.PaymentPending
	stale.Confirmed = models.ConfirmedPending
	stale.CreatedAt = testClock.Add(-45 * time.Minute)
	env.repo.put(stale)

	fresh := paidCustomerBooking(250, 1000)
	fresh.ID = "b-fresh"
	fresh.PaymentStatus = models.PaymentPending
	fresh.Confirmed = models.ConfirmedPending
	fresh.TimeSlot = "15:00"
	fresh.CreatedAt = testClock.Add(-5 * time.Minute)
	env.repo.put(fresh)

	paid := paidCustomerBooking(1000, 1000)
	paid.ID = "b-paid"
	paid.CreatedAt = testClock.Add(-2 * time.Hour)
	env.repo.put(paid)

	swept, err := env.svc.SweepStalePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	b, _ := env.repo.GetByID(context.Background(), "b-stale")
	assert.Equal(t, models.PaymentFailed, b.PaymentStatus)
	assert.Equal(t, "payment window expired", b.FailureReason)
	assert.False(t, b.SlotActive)

	b, _ = env.repo.GetByID(context.Background(), "b-fresh")
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)

	b, _ = env.repo.GetByID(context.Background(), "b-paid")
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
}

func TestRefundInvariantAfterCancel(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{UPIID: "a@bank"})
	require.NoError(t, err)

	b, _ := env.repo.GetByID(context.Background(), "b-1")
	if b.RefundStatus != models.RefundNone {
		assert.Equal(t, models.PaymentCancelled, b.PaymentStatus,
			"a refund can only exist on a cancelled booking")
	}
}
