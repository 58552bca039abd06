package coupon

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	couponRepo "salonflow/database/repository/coupon"
	customerRepo "salonflow/database/repository/customer"
	"salonflow/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoyaltyRedemptionPoints is the loyalty balance one coupon costs.
const LoyaltyRedemptionPoints = 100

// Code prefixes distinguish the two issuance paths in support tickets.
const (
	firstBookingPrefix = "FIRST10"
	loyaltyPrefix      = "LOYAL10"
)

// codeAlphabet drops ambiguous characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeSuffixLen = 6

// BookingCounter is the slice of the booking store the ledger needs to judge
// first-booking eligibility.
type BookingCounter interface {
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
}

// LedgerService issues, validates, and consumes discount coupons.
type LedgerService interface {
	IssueFirstBookingCoupon(ctx context.Context, customerID string) (*models.Coupon, error)
	RedeemLoyaltyCoupon(ctx context.Context, customerID string) (*models.Coupon, error)
	Validate(ctx context.Context, code, customerID string) (*models.CouponValidation, error)
	Consume(ctx context.Context, code, customerID string) error
}

// DefaultLedgerService implements LedgerService.
type DefaultLedgerService struct {
	Repo      couponRepo.CouponRepository
	Customers customerRepo.CustomerRepository
	Bookings  BookingCounter
	Logger    *zap.Logger

	// Now is the clock, injectable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultLedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueFirstBookingCoupon grants the one-time 10% welcome coupon. Only
// customers with no bookings and no prior coupon qualify.
func (s *DefaultLedgerService) IssueFirstBookingCoupon(ctx context.Context, customerID string) (*models.Coupon, error) {
	if customerID == "" {
		return nil, NewValidationError("customer id is required")
	}

	claimed, err := s.Repo.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count coupons: %w", err)
	}
	if claimed > 0 {
		return nil, ErrAlreadyClaimed
	}

	bookings, err := s.Bookings.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if bookings > 0 {
		return nil, ErrNotEligible
	}

	coupon, err := s.insertWithFreshCode(ctx, customerID, firstBookingPrefix)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("first-booking coupon issued",
		zap.String("customerID", customerID), zap.String("code", coupon.Code))
	return coupon, nil
}

// RedeemLoyaltyCoupon trades loyalty points for a 10% coupon. The code is
// stored on the customer record, not the ledger, and only one can be active
// at a time. The code is reserved before points are taken so a deduction
// failure cannot leave a paid-for code missing.
func (s *DefaultLedgerService) RedeemLoyaltyCoupon(ctx context.Context, customerID string) (*models.Coupon, error) {
	if customerID == "" {
		return nil, NewValidationError("customer id is required")
	}

	customer, err := s.Customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrNotFound) {
			return nil, &Error{Code: CodeNotFound, Message: "customer not found"}
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer.LoyaltyPoints < LoyaltyRedemptionPoints {
		return nil, ErrLowBalance
	}

	code, err := generateCode(loyaltyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coupon code: %w", err)
	}

	reserved, err := s.Customers.SetCouponCode(ctx, customerID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve coupon code: %w", err)
	}
	if !reserved {
		return nil, ErrCodeActive
	}

	deducted, err := s.Customers.DeductLoyaltyPoints(ctx, customerID, LoyaltyRedemptionPoints)
	if err == nil && !deducted {
		err = ErrLowBalance
	}
	if err != nil {
		if _, clearErr := s.Customers.ClearCouponCode(ctx, customerID, code); clearErr != nil {
			s.Logger.Error("failed to roll back loyalty coupon reservation",
				zap.String("customerID", customerID), zap.Error(clearErr))
		}
		if errors.Is(err, ErrLowBalance) {
			return nil, ErrLowBalance
		}
		return nil, fmt.Errorf("failed to deduct loyalty points: %w", err)
	}

	now := s.now()
	s.Logger.Info("loyalty coupon redeemed",
		zap.String("customerID", customerID), zap.String("code", code))
	return &models.Coupon{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Code:       code,
		Discount:   models.CouponDiscountFraction,
		CreatedAt:  now,
		ExpiresAt:  now.Add(models.CouponValidity),
	}, nil
}

// Validate reports whether the code can discount a booking for this customer
// right now. Loyalty codes live on the customer record, ledger codes in the
// coupon collection; both grant the flat discount fraction.
func (s *DefaultLedgerService) Validate(ctx context.Context, code, customerID string) (*models.CouponValidation, error) {
	if code == "" {
		return nil, NewValidationError("coupon code is required")
	}

	c, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, couponRepo.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		return s.validateLoyaltyCode(ctx, code, customerID)
	}

	if c.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	if c.IsUsed {
		return nil, ErrAlreadyUsed
	}
	if c.Expired(s.now()) {
		return nil, ErrExpired
	}
	return &models.CouponValidation{Valid: true, Discount: c.Discount}, nil
}

func (s *DefaultLedgerService) validateLoyaltyCode(ctx context.Context, code, customerID string) (*models.CouponValidation, error) {
	customer, err := s.Customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer.CouponCode == "" || customer.CouponCode != code {
		return nil, ErrNotFound
	}
	return &models.CouponValidation{Valid: true, Discount: models.CouponDiscountFraction}, nil
}

// Consume spends the coupon after a payment capture. Consumption is
// idempotent: a code already spent is a no-op, so a replayed capture cannot
// surface an error here.
func (s *DefaultLedgerService) Consume(ctx context.Context, code, customerID string) error {
	if code == "" {
		return NewValidationError("coupon code is required")
	}

	ok, err := s.Repo.MarkUsed(ctx, code, customerID)
	if err != nil {
		return fmt.Errorf("failed to consume coupon: %w", err)
	}
	if ok {
		s.Logger.Info("coupon consumed",
			zap.String("customerID", customerID), zap.String("code", code))
		return nil
	}

	// Not in the ledger: try the loyalty code on the customer record.
	cleared, err := s.Customers.ClearCouponCode(ctx, customerID, code)
	if err != nil {
		return fmt.Errorf("failed to consume loyalty coupon: %w", err)
	}
	if cleared {
		s.Logger.Info("loyalty coupon consumed",
			zap.String("customerID", customerID), zap.String("code", code))
	}
	return nil
}

// insertWithFreshCode retries on the rare code collision; the unique indexes
// are the arbiters. A customer_id clash means a concurrent claim won.
func (s *DefaultLedgerService) insertWithFreshCode(ctx context.Context, customerID, prefix string) (*models.Coupon, error) {
	for attempt := 0; attempt < 3; attempt++ {
		code, err := generateCode(prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate coupon code: %w", err)
		}
		now := s.now()
		c := &models.Coupon{
			ID:         uuid.New().String(),
			CustomerID: customerID,
			Code:       code,
			Discount:   models.CouponDiscountFraction,
			CreatedAt:  now,
			ExpiresAt:  now.Add(models.CouponValidity),
		}
		err = s.Repo.Insert(ctx, c)
		if err == nil {
			return c, nil
		}
		if errors.Is(err, couponRepo.ErrDuplicateCustomer) {
			return nil, ErrAlreadyClaimed
		}
		if !errors.Is(err, couponRepo.ErrDuplicateCode) {
			return nil, fmt.Errorf("failed to store coupon: %w", err)
		}
	}
	return nil, &Error{Code: CodeConflict, Message: "coupon code space exhausted, retry"}
}

func generateCode(prefix string) (string, error) {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
