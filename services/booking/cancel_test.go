package booking

import (
	"context"
	"testing"

	"salonflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidCustomerBooking(amount, total float64) *models.Booking {
	return &models.Booking{
		ID:            "b-1",
		CustomerID:    "cust-1",
		ProviderID:    "prov-1",
		Employee:      "asha",
		Date:          "2026-03-12",
		TimeSlot:      "11:00",
		DurationMins:  60,
		TotalAmount:   total,
		Amount:        amount,
		PaymentStatus: models.PaymentPaid,
		Confirmed:     models.ConfirmedYes,
		RefundStatus:  models.RefundNone,
		SlotKey:       SlotKey("prov-1", "asha", "2026-03-12", 660),
		SlotActive:    true,
		Version:       2,
	}
}

func TestCancelAdvancePaymentForfeited(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(250, 1000))

	result, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.RefundAmount)
	assert.Equal(t, models.RefundNone, result.RefundStatus)

	b, _ := env.repo.GetByID(context.Background(), "b-1")
	assert.Equal(t, models.PaymentCancelled, b.PaymentStatus)
	assert.Equal(t, models.ConfirmedCancelled, b.Confirmed)
	assert.False(t, b.SlotActive)
}

func TestCancelFullPaymentRefunds75Percent(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	result, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{UPIID: "a@bank"})
	require.NoError(t, err)

	assert.Equal(t, 750.0, result.RefundAmount)
	assert.Equal(t, models.RefundPending, result.RefundStatus)

	b, _ := env.repo.GetByID(context.Background(), "b-1")
	assert.Equal(t, models.PaymentCancelled, b.PaymentStatus)
	assert.Equal(t, 750.0, b.RefundedAmount)
	assert.Equal(t, "a@bank", b.RefundUPI)
}

func TestCancelFullPaymentRequiresUPI(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestCancelRefundRounding(t *testing.T) {
	env := newTestEnv()
	b := paidCustomerBooking(333.33, 333.33)
	env.repo.put(b)

	result, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{UPIID: "a@bank"})
	require.NoError(t, err)
	assert.Equal(t, 250.0, result.RefundAmount) // 249.9975 rounds to 250.00
}

func TestCancelGuards(t *testing.T) {
	t.Run("pending booking", func(t *testing.T) {
		env := newTestEnv()
		b := paidCustomerBooking(250, 1000)
		b.PaymentStatus = models.PaymentPending
		b.Confirmed = models.ConfirmedPending
		env.repo.put(b)

		_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
		require.Error(t, err)
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("same-day booking", func(t *testing.T) {
		env := newTestEnv()
		b := paidCustomerBooking(250, 1000)
		b.Date = testClock.Format(DateLayout)
		env.repo.put(b)

		_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
		require.Error(t, err)
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("already cancelled", func(t *testing.T) {
		env := newTestEnv()
		env.repo.put(paidCustomerBooking(250, 1000))
		_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
		require.NoError(t, err)

		_, err = env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
		require.Error(t, err)
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("foreign booking", func(t *testing.T) {
		env := newTestEnv()
		env.repo.put(paidCustomerBooking(250, 1000))

		_, err := env.svc.Cancel(context.Background(), "b-1", "cust-2", models.CancelRequest{})
		require.Error(t, err)
		assert.Equal(t, CodeUnauthorized, CodeOf(err))
	})
}

func TestResolveRefund(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))

	_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{UPIID: "a@bank"})
	require.NoError(t, err)

	status, err := env.svc.ResolveRefund(context.Background(), "b-1", "prov-1", DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.RefundApproved, status)

	// Decisions are terminal.
	_, err = env.svc.ResolveRefund(context.Background(), "b-1", "prov-1", DecisionReject)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestResolveRefundGuards(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(1000, 1000))
	_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{UPIID: "a@bank"})
	require.NoError(t, err)

	_, err = env.svc.ResolveRefund(context.Background(), "b-1", "prov-1", "maybe")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = env.svc.ResolveRefund(context.Background(), "b-1", "prov-2", DecisionAccept)
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	_, err = env.svc.ResolveRefund(context.Background(), "b-missing", "prov-1", DecisionAccept)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestResolveRefundRejectsWithoutPendingRefund(t *testing.T) {
	env := newTestEnv()
	env.repo.put(paidCustomerBooking(250, 1000))
	_, err := env.svc.Cancel(context.Background(), "b-1", "cust-1", models.CancelRequest{})
	require.NoError(t, err)

	// Advance-payment cancellation carries no refund to decide on.
	_, err = env.svc.ResolveRefund(context.Background(), "b-1", "prov-1", DecisionAccept)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}
