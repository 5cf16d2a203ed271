package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metro/config"
	"metro/cron"
	"metro/database"
	bookingRepo "metro/database/repository/booking"
	memoryRepo "metro/database/repository/memory"
	reviewRepo "metro/database/repository/review"
	userRepo "metro/database/repository/user"
	"metro/handlers"
	"metro/middleware"
	"metro/routes"
	"metro/services/assignment"
	"metro/services/booking"
	"metro/services/invoice"
	"metro/services/notification"
	"metro/services/partner"
	"metro/services/payment"
	"metro/services/payout"
	"metro/services/review"
	"metro/services/storage"
	"metro/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	cfg := &config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if cfg.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is required")
	}
	if cfg.PaymentKeySecret == "" {
		logger.Fatal("main: PAYMENT_KEY_SECRET is required")
	}
	utils.InitJWT(cfg.JWTSecret)

	rootCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()

	// Push delivery falls back to logged SMS when Firebase is not configured.
	var pusher notification.Pusher
	if cfg.FirebaseCredentialsPath != "" {
		fcm, err := utils.NewFCMClient(rootCtx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize FCM: %v", err)
		}
		pusher = fcm
	}

	// repositories.
	var (
		bookings    bookingRepo.BookingRepository
		users       userRepo.UserRepository
		reviews     reviewRepo.ReviewRepository
		locker      payout.Locker
		notifier    notification.Sender
		lockClient  *redis.Client
		queueClient *asynq.Client
		worker      *cron.NotificationWorker
	)

	switch cfg.StorageBackend {
	case "memory":
		logger.Warn("main: using in-memory storage; data is lost on restart")
		bookings = memoryRepo.NewBookingStore()
		users = memoryRepo.NewUserStore()
		reviews = memoryRepo.NewReviewStore()
		locker = payout.NewLocalLocker()
		notifier = notification.NewDispatcher(users, pusher, logger)
	case "mongo":
		database.InitDB()
		db := database.Database()

		var err error
		if bookings, err = bookingRepo.NewMongoBookingRepo(db); err != nil {
			logger.Sugar().Fatalf("main: booking repository: %v", err)
		}
		if users, err = userRepo.NewMongoUserRepo(db); err != nil {
			logger.Sugar().Fatalf("main: user repository: %v", err)
		}
		if reviews, err = reviewRepo.NewMongoReviewRepo(db); err != nil {
			logger.Sugar().Fatalf("main: review repository: %v", err)
		}

		lockClient = utils.GetLockClient()
		locker = payout.NewRedisLocker(lockClient, cfg.PayoutLockTTL)

		queueClient = asynq.NewClient(cron.RedisOpt(cfg))
		notifier = notification.NewQueueSender(queueClient, logger)

		worker = cron.NewNotificationWorker(cfg, notification.NewDispatcher(users, pusher, logger), logger)
		worker.Start()
	default:
		logger.Sugar().Fatalf("main: unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	utils.StartHealthMonitor(rootCtx, lockClient, database.MongoClient, 30*time.Second)

	// services.
	ledger := payment.NewLedger(payment.NewHMACVerifier(cfg.PaymentKeySecret))
	bookingService := booking.NewBookingService(bookings, reviews, ledger, notifier, logger, cfg.BookingCodePrefix)
	assignmentService := assignment.NewAssignmentService(bookings, users, logger, cfg.PartnerShare)
	payoutService := payout.NewPayoutService(
		bookings,
		users,
		payout.NewStripeProvider(cfg.StripeKey, cfg.PayoutCountry, cfg.PayoutCurrency),
		locker,
		logger,
		cfg.PartnerShare,
		cfg.PayoutCurrency,
	)
	reviewService := review.NewReviewService(reviews, bookings, users, logger)
	partnerService := partner.NewPartnerService(users, logger)
	renderer := invoice.NewRenderer(cfg.InvoiceCompany)

	var uploads storage.StorageService
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorageService(rootCtx, cfg.GCSServiceAccountPath, cfg.GCSBucket, cfg.UploadURLTTL)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize storage: %v", err)
		}
		defer gcs.Close()
		uploads = gcs
	} else {
		logger.Warn("main: GCS_BUCKET not set; upload URLs are disabled")
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Customer: handlers.NewCustomerHandler(bookingService, reviewService, renderer, uploads),
		Partner:  handlers.NewPartnerHandler(assignmentService, payoutService, partnerService, reviewService, uploads),
		Admin:    handlers.NewAdminHandler(bookingService, assignmentService, payoutService, reviewService),
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSOriginList())

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Sugar().Warnf("main: closing queue client: %v", err)
		}
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: closing database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
