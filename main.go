package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonflow/config"
	"salonflow/cron"
	"salonflow/database"
	bookingRepoPkg "salonflow/database/repository/booking"
	couponRepoPkg "salonflow/database/repository/coupon"
	customerRepoPkg "salonflow/database/repository/customer"
	"salonflow/handlers"
	"salonflow/middleware"
	"salonflow/routes"
	"salonflow/services/booking"
	"salonflow/services/coupon"
	"salonflow/services/notification"
	"salonflow/services/payment"
	"salonflow/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	if err := bookingRepoPkg.EnsureBookingIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := couponRepoPkg.EnsureCouponIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create coupon indexes: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(routes.CORSConfig()))

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	couponRepo := couponRepoPkg.NewMongoCouponRepo()
	customerRepo := customerRepoPkg.NewMongoCustomerRepo()

	// gateway and queue plumbing.
	gateway := payment.NewRazorpayGateway(
		config.AppConfig.GatewayKeyID,
		config.AppConfig.GatewayKeySecret,
		config.AppConfig.GatewayWebhookSecret,
		logger,
	)
	queueClient := cron.NewQueueClient()
	defer queueClient.Close()
	dispatcher := notification.NewAsynqDispatcher(queueClient, logger)

	// services.
	ledgerService := &coupon.DefaultLedgerService{
		Repo:      couponRepo,
		Customers: customerRepo,
		Bookings:  bookingRepo,
		Logger:    logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:       bookingRepo,
		Coupons:    ledgerService,
		Gateway:    gateway,
		Notifier:   dispatcher,
		Cache:      utils.GetCacheClient(),
		Logger:     logger,
		Currency:   config.AppConfig.Currency,
		PendingTTL: time.Duration(config.AppConfig.PendingTTLMinutes) * time.Minute,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService)
	couponHandler := handlers.NewCouponHandler(ledgerService)

	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterCouponRoutes(router, couponHandler)
	routes.RegisterProviderRoutes(router, bookingHandler)
	routes.RegisterSystemRoutes(router)

	// background worker and sweep scheduler.
	cron.InitBookingWorker(bookingService, logger)
	cron.InitSweepScheduler(logger)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}
}
