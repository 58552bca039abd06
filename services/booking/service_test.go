package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "salonflow/database/repository/booking"
	"salonflow/models"

	"go.uber.org/zap"
)

// fakeBookingRepo is an in-memory BookingRepository mirroring the conditional
// update semantics of the Mongo implementation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	// forceScheduleConflict makes the next UpdateSchedule lose its CAS, as
	// if a concurrent writer bumped the version first.
	forceScheduleConflict bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) put(b *models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.SlotActive && b.SlotActive && existing.SlotKey == b.SlotKey {
			return bookingRepo.ErrSlotTaken
		}
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.OrderID == orderID && orderID != "" {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListForSlot(ctx context.Context, providerID, employee, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Employee == employee && b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	list, _ := r.ListByCustomer(ctx, customerID)
	return int64(len(list)), nil
}

func (r *fakeBookingRepo) SetOrderID(ctx context.Context, bookingID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[bookingID]; ok {
		b.OrderID = orderID
	}
	return nil
}

func (r *fakeBookingRepo) RecordCapture(ctx context.Context, params bookingRepo.CaptureParams) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[params.BookingID]
	if !ok {
		return false, nil
	}
	for _, pid := range b.PaymentIDs {
		if pid == params.PaymentID {
			return false, nil
		}
	}
	if b.PaymentStatus != models.PaymentPending && b.PaymentStatus != models.PaymentPaid {
		return false, nil
	}
	b.PaymentID = params.PaymentID
	b.PaymentIDs = append(b.PaymentIDs, params.PaymentID)
	b.PaymentStatus = models.PaymentPaid
	b.Confirmed = models.ConfirmedYes
	if params.Replace {
		b.Amount = params.Amount
	} else {
		b.Amount += params.Amount
	}
	if params.Method != "" {
		b.PaymentMethod = params.Method
	}
	if params.PIN != "" {
		b.PIN = params.PIN
	}
	if params.UPIID != "" {
		b.RefundUPI = params.UPIID
	}
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) MarkFailed(ctx context.Context, bookingID, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	b.PaymentStatus = models.PaymentFailed
	b.FailureReason = reason
	b.SlotActive = false
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, params bookingRepo.CancelParams) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[params.BookingID]
	if !ok || b.CustomerID != params.CustomerID {
		return false, nil
	}
	if b.PaymentStatus != models.PaymentPaid || b.Confirmed == models.ConfirmedCancelled {
		return false, nil
	}
	b.PaymentStatus = models.PaymentCancelled
	b.Confirmed = models.ConfirmedCancelled
	b.RefundStatus = params.RefundStatus
	b.RefundedAmount = params.RefundAmount
	if params.UPIID != "" {
		b.RefundUPI = params.UPIID
	}
	b.SlotActive = false
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) ResolveRefund(ctx context.Context, bookingID, providerID, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.ProviderID != providerID || b.RefundStatus != models.RefundPending {
		return false, nil
	}
	b.RefundStatus = status
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) UpdateSchedule(ctx context.Context, params bookingRepo.ScheduleParams) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceScheduleConflict {
		r.forceScheduleConflict = false
		return false, nil
	}
	b, ok := r.bookings[params.BookingID]
	if !ok || b.Version != params.ExpectedVersion {
		return false, nil
	}
	for _, other := range r.bookings {
		if other.ID != b.ID && other.SlotActive && other.SlotKey == params.SlotKey {
			return false, bookingRepo.ErrSlotTaken
		}
	}
	b.Date = params.Date
	b.TimeSlot = params.TimeSlot
	b.Employee = params.Employee
	b.SlotKey = params.SlotKey
	b.Version++
	return true, nil
}

func (r *fakeBookingRepo) SetReview(ctx context.Context, bookingID, customerID string, review models.ReviewRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.CustomerID != customerID {
		return false, nil
	}
	b.Rating = review.Rating
	b.Review = review.Review
	b.Complaint = review.Complaint
	return true, nil
}

func (r *fakeBookingRepo) SweepStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var swept int64
	for _, b := range r.bookings {
		if b.PaymentStatus == models.PaymentPending && b.CreatedAt.Before(cutoff) {
			b.PaymentStatus = models.PaymentFailed
			b.FailureReason = "payment window expired"
			b.SlotActive = false
			b.Version++
			swept++
		}
	}
	return swept, nil
}

// fakeLedger validates any code with the flat 10% discount and records
// consumption calls.
type fakeLedger struct {
	mu          sync.Mutex
	consumed    []string
	validateErr error
	consumeErr  error
	discount    float64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{discount: models.CouponDiscountFraction}
}

func (l *fakeLedger) Validate(ctx context.Context, code, customerID string) (*models.CouponValidation, error) {
	if l.validateErr != nil {
		return nil, l.validateErr
	}
	return &models.CouponValidation{Valid: true, Discount: l.discount}, nil
}

func (l *fakeLedger) Consume(ctx context.Context, code, customerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.consumeErr != nil {
		return l.consumeErr
	}
	l.consumed = append(l.consumed, code)
	return nil
}

func (l *fakeLedger) consumedCodes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.consumed...)
}

// fakeGateway implements payment.Gateway with deterministic signatures.
type fakeGateway struct {
	secret    []byte
	orderSeq  int
	orderErr  error
	methodErr error
	method    string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{secret: []byte("test-webhook-secret"), method: "upi"}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]interface{}) (*models.PaymentOrder, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orderSeq++
	return &models.PaymentOrder{
		OrderID:  "order_" + receipt,
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) VerifyCallbackSignature(orderID, paymentID, signature string) bool {
	return signature == g.sign(orderID, paymentID)
}

func (g *fakeGateway) FetchPaymentMethod(ctx context.Context, paymentID string) (string, error) {
	if g.methodErr != nil {
		return "", g.methodErr
	}
	return g.method, nil
}

func (g *fakeGateway) sign(orderID, paymentID string) string {
	return "sig:" + orderID + "|" + paymentID
}

// fakeNotifier records dispatched events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) BookingEvent(ctx context.Context, b *models.Booking, event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// testClock is a fixed moment: 2026-03-10 10:00 local.
var testClock = time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

type testEnv struct {
	svc      *DefaultBookingService
	repo     *fakeBookingRepo
	ledger   *fakeLedger
	gateway  *fakeGateway
	notifier *fakeNotifier
}

func newTestEnv() *testEnv {
	repo := newFakeBookingRepo()
	ledger := newFakeLedger()
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}
	svc := &DefaultBookingService{
		Repo:     repo,
		Coupons:  ledger,
		Gateway:  gateway,
		Notifier: notifier,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return testClock },
	}
	return &testEnv{svc: svc, repo: repo, ledger: ledger, gateway: gateway, notifier: notifier}
}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		CustomerID:  "cust-1",
		ProviderID:  "prov-1",
		Employee:    "asha",
		Date:        "2026-03-12",
		TimeSlot:    "11:00",
		Service:     "haircut",
		TotalAmount: 1000,
		Amount:      250,
	}
}
