package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/docs"
	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/config"
	"github.com/epicevents/crm-api/internal/database"
	"github.com/epicevents/crm-api/internal/http/handler"
	"github.com/epicevents/crm-api/internal/http/middleware"
	"github.com/epicevents/crm-api/internal/http/router"
	"github.com/epicevents/crm-api/internal/jobs"
	"github.com/epicevents/crm-api/internal/logger"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/internal/service"
)

// @title Epic Events CRM API
// @version 1.0
// @description Access-controlled CRM API for users, clients, contracts and events

// @contact.name API Support
// @contact.email support@epicevents.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1

// @securityDefinitions.basic BasicAuth
// @description HTTP Basic credentials, used only to mint tokens

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Opaque bearer token from POST /tokens

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets.
	// Development uses environment variables; staging/production fetch
	// from Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contractRepo := repository.NewContractRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Auth core
	verifier := auth.NewVerifier(userRepo)
	tokens := auth.NewTokenManager(userRepo,
		cfg.Auth.TokenTTLDuration(),
		cfg.Auth.TokenReuseWindowDuration(),
	)

	// Services
	authService := service.NewAuthService(verifier, tokens, userRepo, log)
	userService := service.NewUserService(userRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	contractService := service.NewContractService(contractRepo, clientRepo, userRepo, log)
	eventService := service.NewEventService(eventRepo, contractRepo, userRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(userService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	contractHandler := handler.NewContractHandler(contractService, log)
	eventHandler := handler.NewEventHandler(eventService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		clientHandler,
		contractHandler,
		eventHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.TokenCleanupEnabled {
		scheduler = jobs.NewScheduler(log)
		cleanup := jobs.NewTokenCleanupJob(userRepo, log, jobs.DefaultTokenCleanupTimeout)
		if err := scheduler.AddJob(jobs.TokenCleanupJobName, cfg.Jobs.TokenCleanupCron, cleanup.Run); err != nil {
			log.Error("failed to register token cleanup job", zap.Error(err))
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("token cleanup job disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
