package routes

import (
	"net/http"
	"time"

	"salonflow/handlers"
	"salonflow/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		// The gateway posts here without a user token; the callback payload
		// carries its own HMAC signature.
		api.POST("/order/callback", bh.GatewayCallback)

		customer := api.Group("")
		customer.Use(middleware.CustomerAuthMiddleware())
		customer.POST("/order", bh.CreateBookingOrder)
		customer.GET("", bh.ListBookings)
		customer.GET("/:id", bh.GetBooking)
		customer.POST("/:id/reschedule", bh.RescheduleBooking)
		customer.POST("/:id/cancel", bh.CancelBooking)
		customer.POST("/:id/review", bh.ReviewBooking)

		provider := api.Group("")
		provider.Use(middleware.ProviderAuthMiddleware())
		provider.POST("/:id/refund-decision", bh.RefundDecision)
	}
}

// RegisterCouponRoutes registers coupon ledger endpoints.
func RegisterCouponRoutes(r *gin.Engine, ch *handlers.CouponHandler) {
	api := r.Group("/api/coupons")
	{
		api.Use(middleware.CustomerAuthMiddleware())
		api.POST("/claim", ch.ClaimFirstBookingCoupon)
		api.POST("/validate", ch.ValidateCoupon)
		api.POST("/redeem", ch.RedeemLoyaltyCoupon)
	}
}

// RegisterProviderRoutes registers the public availability pre-check.
func RegisterProviderRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/providers")
	{
		api.GET("/:providerId/availability", bh.ProviderAvailability)
	}
}

// RegisterSystemRoutes registers health and metrics endpoints.
func RegisterSystemRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// CORSConfig is the cross-origin policy applied to the whole engine.
func CORSConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
