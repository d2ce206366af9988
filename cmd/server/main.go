package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"sponsorregistration/config"
	authadapter "sponsorregistration/internal/adapters/auth"
	emailadapter "sponsorregistration/internal/adapters/email"
	"sponsorregistration/internal/adapters/storage"
	delivery "sponsorregistration/internal/delivery/http"
	"sponsorregistration/internal/delivery/http/controllers"
	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/delivery/http/middleware"
	"sponsorregistration/internal/repository/postgres"
	"sponsorregistration/internal/services"
)

const (
	dbPingAttempts = 10
	dbPingDelay    = 2 * time.Second
)

// @title Sponsorship Registration API
// @version 1.0
// @description JSON endpoints for the sponsorship registration site.
// @BasePath /
func main() {
	ctx := context.Background()
	logger := config.NewLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger.Info("starting sponsorship registration service", "environment", cfg.Environment, "debug", cfg.Debug)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := waitForDB(ctx, db); err != nil {
		logger.Error("database unreachable", "err", err)
		os.Exit(1)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)

	// Adapters
	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	sessions := authadapter.NewJWTSessionCodec(cfg.SessionSecret)
	photoStore, err := storage.NewDiskPhotoStore(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "err", err)
		os.Exit(1)
	}
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.Mail.SESRegion,
			AccessKeyID:        cfg.Mail.SESAccessKeyID,
			SecretAccessKey:    cfg.Mail.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(accountRepo, hasher, logger)
	availability := services.NewAvailabilityService(regRepo)
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	registrations := services.NewRegistrationService(regRepo, availability, photoStore, emailService, logger)
	reports := services.NewReportService(regRepo)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin account", "err", err)
		os.Exit(1)
	}

	// HTTP delivery
	renderer, err := h.NewRenderer(logger)
	if err != nil {
		logger.Error("failed to parse page templates", "err", err)
		os.Exit(1)
	}
	mux := delivery.NewRouter(delivery.RouterDeps{
		Registrations: controllers.NewRegistrationController(registrations, availability, reports, renderer, logger),
		Auth:          controllers.NewAuthController(authService, sessions, cfg, renderer, logger),
		Dashboard:     controllers.NewDashboardController(registrations, reports, cfg.Debug, renderer, logger),
		API:           controllers.NewAPIController(availability, logger),
		LoginLimiter:  middleware.NewRateLimiter(rate.Every(time.Second), 5),
		UploadDir:     cfg.UploadDir,
	})

	handler := middleware.Logging(logger, middleware.LoadSession(sessions, accountRepo, logger)(mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	logger.Info("server exited gracefully")
}

// waitForDB pings with a fixed delay until the database answers or the
// attempt budget runs out. Containerized Postgres often starts after us.
func waitForDB(ctx context.Context, db *sql.DB) error {
	var err error
	for i := 0; i < dbPingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(dbPingDelay)
	}
	return err
}
