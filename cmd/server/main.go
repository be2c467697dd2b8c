package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/loancore/loan-engine/internal/config"
	"github.com/loancore/loan-engine/internal/handler"
	"github.com/loancore/loan-engine/internal/repository"
	"github.com/loancore/loan-engine/internal/service"
	"github.com/loancore/loan-engine/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Initialize services
	loanService := service.NewLoanService(loanRepo, customerRepo, redisClient, cfg)
	paymentService := service.NewPaymentService(loanRepo, paymentRepo, redisClient, cfg)
	statsService := service.NewStatsService(loanRepo)
	customerService := service.NewCustomerService(customerRepo)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	statsHandler := handler.NewStatsHandler(statsService)
	customerHandler := handler.NewCustomerHandler(customerService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(loanHandler, paymentHandler, statsHandler, customerHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", cfg.Database.DSN())
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	loanHandler *handler.LoanHandler,
	paymentHandler *handler.PaymentHandler,
	statsHandler *handler.StatsHandler,
	customerHandler *handler.CustomerHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans/calculate", loanHandler.CalculateTerms).Methods("GET")
	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.UpdateLoan).Methods("PUT")
	api.HandleFunc("/loans/{loanId}", loanHandler.DeleteLoan).Methods("DELETE")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")

	api.HandleFunc("/schedules/{scheduleId}/payment", paymentHandler.PayInstallment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", paymentHandler.BulkPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", paymentHandler.ListPayments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/summary", paymentHandler.GetPaymentSummary).Methods("GET")

	api.HandleFunc("/customers", customerHandler.RegisterCustomer).Methods("POST")
	api.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{customerId}", customerHandler.DeleteCustomer).Methods("DELETE")

	api.HandleFunc("/stats/loans", statsHandler.GetLoanSummary).Methods("GET")
	api.HandleFunc("/stats/disbursed-vs-paid", statsHandler.GetDisbursedVsPaid).Methods("GET")
	api.HandleFunc("/stats/payments", statsHandler.GetPaymentSummary).Methods("GET")

	return router
}
