package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khushi/internal/auth"
	"khushi/internal/config"
	"khushi/internal/effects"
	"khushi/internal/handler"
	"khushi/internal/logging"
	"khushi/internal/middleware"
	"khushi/internal/repository/postgres"
	"khushi/internal/router"
	"khushi/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	categoryRepo := postgres.NewFeeCategoryRepo(db)
	snapshotRepo := postgres.NewSnapshotRepo(db)
	assignmentRepo := postgres.NewClassFeeAssignmentRepo(db)
	challanRepo := postgres.NewChallanRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	methodRepo := postgres.NewPaymentMethodRepo(db)
	sessionRepo := postgres.NewCashSessionRepo(db)
	accountantRepo := postgres.NewAccountantRepo(db)
	summaryRepo := postgres.NewDailySummaryRepo(db)
	directory := postgres.NewStudentDirectoryRepo(db)

	dispatcher := effects.NewDispatcher(effects.Config{
		Async:       cfg.Effects.Async,
		Concurrency: cfg.Effects.Concurrency,
		Timeout:     cfg.Effects.Timeout,
	}, logger)

	// Initialize services
	retries := cfg.Ledger.MaxVersionRetries
	loc := cfg.Ledger.Location()
	categorySvc := service.NewFeeCategoryService(categoryRepo, snapshotRepo, logger)
	classFeeSvc := service.NewClassFeeService(assignmentRepo, categoryRepo, challanRepo, paymentRepo, directory, categorySvc, retries, logger)
	challanSvc := service.NewChallanService(challanRepo, paymentRepo, directory, categorySvc, logger)
	engine := service.NewStatusEngine(challanRepo, paymentRepo, retries, logger)
	accountantSvc := service.NewAccountantService(accountantRepo, summaryRepo, paymentRepo, loc, logger)
	cashSvc := service.NewCashSessionService(sessionRepo, retries, loc, logger)
	paymentSvc := service.NewPaymentService(paymentRepo, challanRepo, methodRepo, engine, accountantSvc, cashSvc, dispatcher, logger)
	statsSvc := service.NewStatsService(directory, assignmentRepo, categoryRepo, snapshotRepo, paymentRepo)

	limiter := middleware.NewTenantRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx)

	r := router.Setup(logger, auth.NewTokenValidator(cfg.JWT), limiter, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		FeeCategory: handler.NewFeeCategoryHandler(categorySvc, classFeeSvc),
		ClassFee:    handler.NewClassFeeHandler(classFeeSvc),
		Challan:     handler.NewChallanHandler(challanSvc, paymentSvc),
		Payment:     handler.NewPaymentHandler(paymentSvc),
		CashSession: handler.NewCashSessionHandler(cashSvc),
		Accountant:  handler.NewAccountantHandler(accountantSvc),
		Stats:       handler.NewStatsHandler(statsSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("effects still running at shutdown", zap.Error(err))
	}
	return nil
}
