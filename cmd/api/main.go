package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"glambook/internal/config"
	"glambook/internal/database"
	"glambook/internal/dispatch"
	"glambook/internal/domain/booking"
	"glambook/internal/domain/chat"
	"glambook/internal/domain/notification"
	"glambook/internal/domain/payment"
	"glambook/internal/domain/review"
	"glambook/internal/domain/user"
	"glambook/internal/middleware"
	"glambook/internal/pkg/jwt"
	"glambook/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	dispatcher := dispatch.New(log,
		dispatch.WithQueueSize(cfg.DispatchQueueSize),
		dispatch.WithTaskTimeout(cfg.DispatchTaskTimeout),
	)
	defer dispatcher.Close()

	// Repositories
	userRepo := user.NewRepository(db)
	bookingRepo := booking.NewBookingRepository(db)
	notificationRepo := notification.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	// Services
	userSvc := user.NewService(userRepo, jwtService, log)
	notificationSvc := notification.NewService(
		notificationRepo,
		notification.NewExpoTransport(cfg.ExpoPushURL),
		dispatcher,
		log,
	)
	chatHub := chat.NewHub(log)
	chatSvc := chat.NewService(chatRepo, userRepo, notificationSvc, dispatcher, chatHub, log)
	paymentSvc := payment.NewService(paymentRepo, log)
	bookingSvc := booking.NewService(bookingRepo, paymentSvc, notificationSvc, chatSvc, dispatcher, log)
	reviewSvc := review.NewService(reviewRepo, bookingRepo)

	// Handlers
	userHandler := user.NewHandler(userSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	notificationHandler := notification.NewHandler(notificationSvc)
	chatHandler := chat.NewHandler(chatSvc, chatHub)
	paymentHandler := payment.NewHandler(paymentSvc, bookingSvc)
	reviewHandler := review.NewHandler(reviewSvc)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	userHandler.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtService))
	{
		userHandler.RegisterRoutes(authed)
		bookingHandler.RegisterRoutes(authed)
		notificationHandler.RegisterRoutes(authed)
		chatHandler.RegisterRoutes(authed)
		reviewHandler.RegisterRoutes(authed)
	}

	// Gateway callbacks authenticate with a shared token, not a user JWT.
	internal := api.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
	{
		paymentHandler.RegisterRoutes(internal)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
	{
		bookingHandler.RegisterAdminRoutes(admin)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

func migrate(db *gorm.DB) error {
	if err := booking.Migrate(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&user.User{},
		&notification.Notification{},
		&notification.Preferences{},
		&notification.DeviceToken{},
		&chat.Conversation{},
		&chat.Message{},
		&payment.Payment{},
		&review.Review{},
	)
}
