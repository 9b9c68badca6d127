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

	"github.com/Keira224/gestion-bibliotheque/internal/config"
	"github.com/Keira224/gestion-bibliotheque/internal/handler"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	"github.com/Keira224/gestion-bibliotheque/internal/service"
	"github.com/Keira224/gestion-bibliotheque/pkg/response"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize store and services
	store := repository.NewStore(db)
	parameterService := service.NewParameterService(store, redisClient, cfg)
	circulationService := service.NewCirculationService(store, parameterService)
	reservationService := service.NewReservationService(store, parameterService)
	catalogService := service.NewCatalogService(store)
	statsService := service.NewStatsService(store, redisClient)

	// Initialize handlers
	circulationHandler := handler.NewCirculationHandler(circulationService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	adminHandler := handler.NewAdminHandler(catalogService, parameterService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(circulationHandler, reservationHandler, adminHandler, statsHandler, healthHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
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

func setupRoutes(
	circulation *handler.CirculationHandler,
	reservations *handler.ReservationHandler,
	admin *handler.AdminHandler,
	stats *handler.StatsHandler,
	health *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", health.Health).Methods("GET")
	router.HandleFunc("/health/ready", health.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", circulation.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", circulation.ListLoans).Methods("GET")
	api.HandleFunc("/loans/recalculate", circulation.Recalculate).Methods("POST")
	api.HandleFunc("/loans/{loanId}/return", circulation.RecordReturn).Methods("POST")
	api.HandleFunc("/loans/{loanId}/penalty", circulation.GeneratePenalty).Methods("POST")

	api.HandleFunc("/penalties", circulation.ListPenalties).Methods("GET")
	api.HandleFunc("/penalties/{penaltyId}/pay", circulation.PayPenalty).Methods("POST")

	api.HandleFunc("/reservations", reservations.Create).Methods("POST")
	api.HandleFunc("/reservations", reservations.List).Methods("GET")
	api.HandleFunc("/reservations/{reservationId}/cancel", reservations.Cancel).Methods("POST")
	api.HandleFunc("/reservations/{reservationId}/validate", reservations.Validate).Methods("POST")
	api.HandleFunc("/reservations/{reservationId}/refuse", reservations.Refuse).Methods("POST")

	api.HandleFunc("/members", admin.CreateMember).Methods("POST")
	api.HandleFunc("/members/{memberId}/payments", circulation.ListMemberPayments).Methods("GET")

	api.HandleFunc("/works", admin.CreateWork).Methods("POST")
	api.HandleFunc("/works/{workId}/copies", admin.CreateCopy).Methods("POST")
	api.HandleFunc("/copies/{copyId}/status", admin.UpdateCopyStatus).Methods("PATCH")

	api.HandleFunc("/parameters", admin.GetParameters).Methods("GET")
	api.HandleFunc("/parameters", admin.UpdateParameters).Methods("PUT")

	api.HandleFunc("/stats/dashboard", stats.Dashboard).Methods("GET")
	api.HandleFunc("/activities", stats.ListActivities).Methods("GET")

	return router
}
