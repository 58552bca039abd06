package booking

import (
	"errors"
	"fmt"
)

// Error codes the handlers map onto HTTP statuses.
const (
	CodeValidation         = "validation"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeUnauthorized       = "unauthorized"
	CodeGatewayUnavailable = "gateway_unavailable"
	CodeInternal           = "internal"
)

// Error is a coded booking-engine error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Conflict outcomes with fixed meanings.
var (
	ErrSlotUnavailable  = &Error{Code: CodeConflict, Message: "requested slot is unavailable"}
	ErrDiscountMismatch = &Error{Code: CodeConflict, Message: "discount does not match the coupon"}
	ErrAlreadyResolved  = &Error{Code: CodeConflict, Message: "refund decision already made"}
)

func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// CodeOf extracts the error code, defaulting to internal.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
