package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/loancore/loan-engine/internal/config"
	"github.com/loancore/loan-engine/internal/repository"
	"github.com/loancore/loan-engine/internal/service"
)

// The scheduler owns the DEFAULTED transition. The allocation engine never
// assigns that status; this sweep is the collaborator that does.
func main() {
	log.Println("Starting delinquency scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	loanService := service.NewLoanService(loanRepo, customerRepo, nil, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		runDelinquencySweep(loanService)
	})
	if err != nil {
		log.Fatalf("Error scheduling delinquency sweep: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func runDelinquencySweep(loanService *service.LoanService) {
	log.Println("Running delinquency sweep...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	marked, err := loanService.MarkDelinquentLoans(ctx, time.Now())
	if err != nil {
		log.Printf("Delinquency sweep failed: %v", err)
		return
	}

	if len(marked) == 0 {
		log.Println("Delinquency sweep complete: no loans marked")
		return
	}

	for _, id := range marked {
		log.Printf("Loan %s marked DEFAULTED", id)
	}
	log.Printf("Delinquency sweep complete: %d loans marked", len(marked))
}
