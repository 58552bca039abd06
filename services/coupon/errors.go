package coupon

import (
	"errors"
	"fmt"
)

// Error codes the handlers map onto HTTP statuses.
const (
	CodeValidation   = "validation"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal"
)

// Error is a coded coupon-ledger error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrAlreadyClaimed = &Error{Code: CodeConflict, Message: "first-booking coupon already claimed"}
	ErrNotEligible    = &Error{Code: CodeConflict, Message: "customer has booked before"}
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "coupon not found"}
	ErrAlreadyUsed    = &Error{Code: CodeConflict, Message: "coupon already used"}
	ErrExpired        = &Error{Code: CodeConflict, Message: "coupon expired"}
	ErrNotOwner       = &Error{Code: CodeUnauthorized, Message: "coupon belongs to another customer"}
	ErrLowBalance     = &Error{Code: CodeConflict, Message: "not enough loyalty points"}
	ErrCodeActive     = &Error{Code: CodeConflict, Message: "a loyalty coupon is already active"}
)

func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

// CodeOf extracts the error code, defaulting to internal.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
