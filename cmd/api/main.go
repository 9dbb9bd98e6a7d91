package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scheduleandpay/internal/config"
	"scheduleandpay/internal/database"
	"scheduleandpay/internal/middleware"
	"scheduleandpay/internal/modules/auth"
	"scheduleandpay/internal/modules/booking"
	"scheduleandpay/internal/modules/hours"
	"scheduleandpay/internal/modules/live"
	"scheduleandpay/internal/modules/schedule"
	"scheduleandpay/internal/notification"
	jwtsvc "scheduleandpay/internal/pkg/jwt"
	"scheduleandpay/internal/pkg/logger"
	"scheduleandpay/internal/repository"
	"scheduleandpay/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// reservationStore is what the calendar and the recorder need from storage.
type reservationStore interface {
	booking.ReservationRepository
	schedule.BookingReader
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	reservations, hoursRepo, closeStore, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	gate := auth.NewGate(cfg.AdminEmail)
	tokens := jwtsvc.New(cfg.SessionSecret, cfg.SessionTTL)
	hub := live.NewHub()
	defer hub.Close()

	hoursService := hours.NewService(hoursRepo, gate, hub)
	if err := hoursService.Load(context.Background()); err != nil {
		return err
	}

	sender, err := notification.NewSender(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := notification.NewDispatcher(sender, notification.DispatcherConfig{
		AdminEmail:   cfg.AdminEmail,
		BusinessName: cfg.BusinessName,
		Timeout:      cfg.NotifyTimeout,
	}, log)
	defer dispatcher.Wait()

	scheduleService := schedule.NewService(hoursService, reservations, cfg.Location, time.Now)
	bookingService := booking.NewService(reservations, hoursService, dispatcher, hub, cfg.PaymentLink)

	var provider auth.IdentityProvider
	if cfg.GoogleLoginEnabled() {
		provider = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}
	authService := auth.NewService(gate, provider, tokens, cfg.AdminPasswordHash)

	render := web.NewRenderer(gate, cfg.BusinessName)
	limiter := middleware.NewIPRateLimiter(cfg.ReserveRate, cfg.ReserveBurst)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go limiter.RunCleanup(cleanupCtx, time.Minute)

	scheduleHandler := schedule.NewHandler(scheduleService, render)
	bookingHandler := booking.NewHandler(bookingService, render, limiter, scheduleService.Today)
	hoursHandler := hours.NewHandler(hoursService, render)
	authHandler := auth.NewHandler(authService, render, auth.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: auth.SameSiteMode(cfg.CookieSameSite),
	})
	liveHandler := live.NewHandler(hub, log)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.ErrorLogger(log), gin.Logger(), middleware.Session(tokens))
	if err := web.Install(r); err != nil {
		return err
	}

	liveHandler.RegisterRoutes(r)

	pages := r.Group("/", middleware.CSRF([]byte(cfg.CSRFKey), cfg.CookieSecure))
	{
		scheduleHandler.RegisterRoutes(pages)
		bookingHandler.RegisterRoutes(pages)
		authHandler.RegisterRoutes(pages)

		admin := pages.Group("/admin", middleware.RequireAdmin(gate))
		hoursHandler.RegisterRoutes(admin)
		bookingHandler.RegisterAdminRoutes(admin)
	}

	v1 := r.Group("/api/v1", middleware.CORS())
	{
		scheduleHandler.RegisterAPIRoutes(v1)
		bookingHandler.RegisterAPIRoutes(v1)

		admin := v1.Group("/admin", middleware.RequireAdminAPI(gate))
		hoursHandler.RegisterAPIRoutes(admin)
		bookingHandler.RegisterAdminAPIRoutes(admin)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	log.Info("shutting down, waiting for pending requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	hub.Close()
	return server.Shutdown(shutdownCtx)
}

// openStorage returns the reservation and hours stores for DATABASE_URL:
// a JSON document for *.json, otherwise PostgreSQL or SQLite through gorm.
func openStorage(cfg *config.Config, log *zap.Logger) (reservationStore, hours.Repository, func(), error) {
	if path, ok := database.FileStorePath(cfg.DatabaseURL); ok {
		log.Info("using JSON file store", zap.String("path", path))
		store := repository.NewFileStore(path)
		return store, store, func() {}, nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		return nil, nil, nil, err
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewReservationRepository(db), repository.NewHoursRepository(db), closeFn, nil
}
