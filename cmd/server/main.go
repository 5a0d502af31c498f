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

	"github.com/fintara/lending-engine/internal/config"
	"github.com/fintara/lending-engine/internal/events"
	eventskafka "github.com/fintara/lending-engine/internal/events/kafka"
	"github.com/fintara/lending-engine/internal/handler"
	"github.com/fintara/lending-engine/internal/repository"
	"github.com/fintara/lending-engine/internal/service"
	"github.com/fintara/lending-engine/pkg/response"
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

	// Initialize event publisher
	publisher := initPublisher(cfg)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize service and handlers
	lendingService := service.NewLendingService(customerRepo, loanRepo, paymentRepo, redisClient, publisher, cfg)
	lendingHandler := handler.NewLendingHandler(lendingService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(lendingHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.Kafka.Enabled {
		return events.NoopPublisher{}
	}
	return eventskafka.NewPublisher(cfg.GetKafkaBrokers())
}

func setupRoutes(lendingHandler *handler.LendingHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)
	router.Use(response.JSONMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers", lendingHandler.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{customerId}/overview", lendingHandler.GetAccountOverview).Methods("GET")
	api.HandleFunc("/loans", lendingHandler.OriginateLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", lendingHandler.MakePayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/ledger", lendingHandler.GetLedger).Methods("GET")

	return router
}
