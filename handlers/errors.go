package handlers

import (
	"errors"
	"net/http"

	"salonflow/services/booking"
	"salonflow/services/coupon"
	"salonflow/services/payment"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer error codes onto HTTP statuses. Codes
// the map does not know, and plain errors, are reported as 500 without the
// underlying detail.
func writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, payment.ErrGatewayUnavailable) {
		utils.JSONError(c, http.StatusBadGateway, "Payment gateway unavailable", "Please retry shortly.")
		return
	}

	code := ""
	var be *booking.Error
	var ce *coupon.Error
	switch {
	case errors.As(err, &be):
		code = be.Code
	case errors.As(err, &ce):
		code = ce.Code
	}

	switch code {
	case booking.CodeValidation:
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case booking.CodeNotFound:
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case booking.CodeConflict:
		utils.JSONError(c, http.StatusConflict, "Conflict", err.Error())
	case booking.CodeUnauthorized:
		utils.JSONError(c, http.StatusForbidden, "Forbidden", err.Error())
	case booking.CodeGatewayUnavailable:
		utils.JSONError(c, http.StatusBadGateway, "Payment gateway unavailable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred.")
	}
}
