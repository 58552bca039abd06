package handlers

import (
	"net/http"

	"salonflow/services/coupon"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// CouponHandler exposes the coupon ledger over HTTP.
type CouponHandler struct {
	Ledger coupon.LedgerService
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(ledger coupon.LedgerService) *CouponHandler {
	return &CouponHandler{Ledger: ledger}
}

// ClaimFirstBookingCoupon grants the one-time welcome coupon to a customer
// with no booking history.
func (h *CouponHandler) ClaimFirstBookingCoupon(c *gin.Context) {
	customerID := c.GetString("customerID")
	if customerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing customer identity.")
		return
	}

	issued, err := h.Ledger.IssueFirstBookingCoupon(c.Request.Context(), customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":       issued.Code,
		"discount":   issued.Discount,
		"expires_at": issued.ExpiresAt,
	})
}

// RedeemLoyaltyCoupon trades loyalty points for a discount coupon.
func (h *CouponHandler) RedeemLoyaltyCoupon(c *gin.Context) {
	customerID := c.GetString("customerID")
	if customerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing customer identity.")
		return
	}

	issued, err := h.Ledger.RedeemLoyaltyCoupon(c.Request.Context(), customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":       issued.Code,
		"discount":   issued.Discount,
		"expires_at": issued.ExpiresAt,
	})
}

// ValidateCoupon checks whether a code can discount a booking right now.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	validation, err := h.Ledger.Validate(c.Request.Context(), req.Code, c.GetString("customerID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, validation)
}
