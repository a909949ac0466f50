package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IFernandes27/barbershop-platform/internal/api/router"
	appbootstrap "github.com/IFernandes27/barbershop-platform/internal/app/bootstrap"
	"github.com/IFernandes27/barbershop-platform/internal/booking"
	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	appconfig "github.com/IFernandes27/barbershop-platform/internal/config"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/internal/notify"
	"github.com/IFernandes27/barbershop-platform/internal/observability/metrics"
	"github.com/IFernandes27/barbershop-platform/internal/reporting"
	"github.com/IFernandes27/barbershop-platform/internal/schedule"
	"github.com/IFernandes27/barbershop-platform/internal/wizard"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

func main() {
	// Load .env for local development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barbershop-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool := appbootstrap.BuildPGXPool(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}
	redisClient := appbootstrap.BuildRedisClient(ctx, cfg, logger, true)
	location := appbootstrap.BuildLocation(cfg, logger)

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		userRepo    identity.Repository
		serviceRepo catalog.ServiceRepository
		proRepo     catalog.ProfessionalRepository
		bookingRepo booking.Repository
	)
	if pool != nil {
		userRepo = identity.NewPostgresRepository(pool)
		serviceRepo = catalog.NewPostgresServiceRepository(pool)
		proRepo = catalog.NewPostgresProfessionalRepository(pool)
		bookingRepo = booking.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not configured, using in-memory repositories")
		memServices := catalog.NewInMemoryServiceRepository()
		userRepo = identity.NewInMemoryRepository()
		serviceRepo = memServices
		proRepo = catalog.NewInMemoryProfessionalRepository()
		bookingRepo = booking.NewInMemoryRepository(memServices)
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	envelope, err := schedule.ParseEnvelope(cfg.WorkDayStart, cfg.WorkDayEnd, location)
	if err != nil {
		logger.Warn("invalid work day envelope, using defaults", "error", err)
		envelope = schedule.DefaultEnvelope(location)
	}
	generator := schedule.NewGenerator(envelope, time.Duration(cfg.SlotStepMinutes)*time.Minute)

	flashStore := notify.NewFlashStore(redisClient, logger)
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}

	identityService := identity.NewService(userRepo, cfg.AuthJWTSecret, cfg.AuthTokenTTL, logger)
	bookingService := booking.NewService(booking.ServiceConfig{
		Repo:          bookingRepo,
		Services:      serviceRepo,
		Professionals: proRepo,
		Users:         userRepo,
		Flashes:       flashStore,
		Email:         emailSender,
		Generator:     generator,
		Location:      location,
		Metrics:       bookingMetrics,
		Logger:        logger,
	})

	var draftStore wizard.Store
	if redisClient != nil {
		draftStore = wizard.NewRedisStore(redisClient, cfg.DraftTTL)
	} else {
		logger.Warn("redis not configured, wizard drafts are in-memory")
		draftStore = wizard.NewInMemoryStore()
	}

	routerCfg := &router.Config{
		Logger:             logger,
		TokenParser:        identityService,
		IdentityHandler:    identity.NewHandler(identityService, logger),
		CatalogHandler:     catalog.NewHandler(serviceRepo, proRepo, logger),
		BookingHandler:     booking.NewHandler(bookingService, logger),
		NotifyHandler:      notify.NewHandler(flashStore, logger),
		WizardOrchestrator: wizard.NewOrchestrator(serviceRepo, proRepo, bookingService, draftStore, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if pool != nil {
		routerCfg.AdminDashboard = reporting.NewDashboardHandler(
			reporting.NewDashboardRepository(pool),
			prometheus.DefaultGatherer,
			logger,
		)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
