package booking

import "github.com/shopspring/decimal"

// BaseDurationMins is the base service length; each related add-on service
// extends it by AddOnDurationMins.
const (
	BaseDurationMins  = 60
	AddOnDurationMins = 30
)

// DiscountTolerance is how far a submitted discount may deviate from the
// coupon-computed one, in currency units.
const DiscountTolerance = "0.01"

// refundRate is what a fully paid booking gets back on cancellation; the
// remaining 25% is the cancellation fee.
var refundRate = decimal.NewFromFloat(0.75)

// ServiceDuration derives the slot length from the add-on count.
func ServiceDuration(relatedServices int) int {
	return BaseDurationMins + AddOnDurationMins*relatedServices
}

// DiscountMatches checks the submitted discount against
// total x fraction within DiscountTolerance.
func DiscountMatches(total, submitted, fraction float64) bool {
	expected := decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(fraction))
	diff := expected.Sub(decimal.NewFromFloat(submitted)).Abs()
	return diff.LessThanOrEqual(decimal.RequireFromString(DiscountTolerance))
}

// RefundAmount computes the payout for a fully paid, cancelled booking:
// 75% of the captured amount, rounded to two decimal places.
func RefundAmount(captured float64) float64 {
	return decimal.NewFromFloat(captured).Mul(refundRate).Round(2).InexactFloat64()
}

// amountsEqual compares two monetary amounts to the cent.
func amountsEqual(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
