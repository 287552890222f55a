package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "microfinance-backend/internal/api/http"
	"microfinance-backend/internal/backup"
	"microfinance-backend/internal/config"
	"microfinance-backend/internal/jobs"
	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/maintenance"
	"microfinance-backend/internal/repository/postgres"
	"microfinance-backend/internal/security"
	"microfinance-backend/internal/service"
	"microfinance-backend/internal/worker"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Microfinance Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize the maintenance gate and the backup client
	maintenanceState := maintenance.NewState(cfg.Maintenance.DefaultMessage)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backupClient, err := backup.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backup client", "error", err)
		log.Fatalf("Failed to initialize backup client: %v", err)
	}
	logger.Info("Backup client initialized", "type", cfg.GCloud.ClientType)

	// Initialize Services
	auditSvc := service.NewAuditService(store.AuditRepository)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository, auditSvc)
	customerSvc := service.NewCustomerService(store.CustomerRepository, auditSvc)
	loanSvc := service.NewLoanService(store.LoanRepository, store.InstallmentRepository, store.CustomerRepository, auditSvc)
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.InstallmentRepository, store.LoanRepository, auditSvc)
	collectionSvc := service.NewCollectionService(store.CollectionRepository, store.LoanRepository, auditSvc)
	dashboardSvc := service.NewDashboardService(store.LoanRepository, store.InstallmentRepository, store.PaymentRepository, store.CustomerRepository)
	reportSvc := service.NewReportService(db)
	emailSvc := service.NewEmailService(cfg.SendGrid)
	backupSvc := service.NewBackupService(backupClient, maintenanceState, auditSvc, cfg.Maintenance.DefaultMessage)

	// Initialize HTTP handlers
	handlers := httpapi.Handlers{
		Auth:       httpapi.NewAuthHandler(authSvc),
		Customer:   httpapi.NewCustomerHandler(customerSvc),
		Loan:       httpapi.NewLoanHandler(loanSvc, paymentSvc, collectionSvc),
		Payment:    httpapi.NewPaymentHandler(paymentSvc),
		Collection: httpapi.NewCollectionHandler(collectionSvc),
		Audit:      httpapi.NewAuditHandler(auditSvc),
		Dashboard:  httpapi.NewDashboardHandler(dashboardSvc, reportSvc, service.JSONRenderer{}),
		User:       httpapi.NewUserHandler(userSvc),
		Backup:     httpapi.NewBackupHandler(backupSvc),
	}

	retryAfter := int(cfg.GetMaintenancePollInterval().Seconds())
	router := httpapi.NewRouter(handlers, tokenManager, maintenanceState, retryAfter)

	// Start the maintenance operation monitor
	monitor := maintenance.NewMonitor(
		maintenanceState,
		backupClient,
		cfg.GetMaintenancePollInterval(),
		cfg.Maintenance.StayGatedOnOperationError,
	)
	go monitor.Run(ctx)

	// Start in-process background workers
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{Email: emailSvc}, cfg)
	pool := worker.NewPool(
		worker.New("promote_overdue_installments", cfg.GetInstallmentStatusInterval(), jobRunner.PromoteOverdueInstallments),
		worker.New("recalculate_late_interest", cfg.GetLateInterestInterval(), jobRunner.RecalculateLateInterest),
		worker.New("promote_overdue_loans", cfg.GetLoanStatusInterval(), jobRunner.PromoteOverdueLoans),
	)
	pool.Start(ctx)

	// Start HTTP server
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	pool.Wait()
	logger.Info("Shutdown complete. Goodbye!")
}
