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

	"github.com/fintara/lending-engine/internal/config"
	"github.com/fintara/lending-engine/internal/domain"
	"github.com/fintara/lending-engine/internal/repository"
)

func main() {
	log.Println("Starting lending scheduler...")

	_ = godotenv.Load()

	// Load configuration
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
	paymentRepo := repository.NewPaymentRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep: close any ACTIVE loan whose ledger already sums to the
	// total. The payment path flips the status itself, so this only catches
	// loans whose status write was lost or raced.
	_, err = c.AddFunc(cfg.Scheduler.ReconcileSpec, func() {
		reconcileLoanStatuses(loanRepo, paymentRepo, cfg)
	})
	if err != nil {
		log.Fatalf("Error scheduling status reconciliation job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func reconcileLoanStatuses(loanRepo repository.LoanRepository, paymentRepo repository.PaymentRepository, cfg *config.Config) {
	log.Println("Running loan status reconciliation job...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	loans, err := loanRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Error listing active loans: %v", err)
		return
	}

	tolerance := cfg.GetCloseTolerance()
	closed := 0

	for _, loan := range loans {
		paid, err := paymentRepo.SumByLoan(ctx, loan.LoanID)
		if err != nil {
			log.Printf("Error summing payments for loan %s: %v", loan.LoanID, err)
			continue
		}

		balance := loan.TotalAmount.Sub(paid)
		if balance.LessThan(tolerance) {
			if err := loanRepo.UpdateStatus(ctx, loan.LoanID, domain.LoanStatusPaidOff); err != nil {
				log.Printf("Error closing loan %s: %v", loan.LoanID, err)
				continue
			}
			log.Printf("Closed fully paid loan %s (balance %s)", loan.LoanID, balance.StringFixed(2))
			closed++
		}
	}

	log.Printf("Status reconciliation finished: %d active loans checked, %d closed", len(loans), closed)
}
