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
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/Keira224/gestion-bibliotheque/internal/config"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	"github.com/Keira224/gestion-bibliotheque/internal/service"
)

func main() {
	log.Println("Starting circulation scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	store := repository.NewStore(db)
	parameterService := service.NewParameterService(store, redisClient, cfg)
	circulationService := service.NewCirculationService(store, parameterService)
	reservationService := service.NewReservationService(store, parameterService)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, cfg, circulationService, reservationService)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, circulation *service.CirculationService, reservations *service.ReservationService) {
	// Daily maintenance: recompute loan statuses, refresh penalties for
	// overdue loans, expire stale reservations.
	_, err := c.AddFunc(cfg.Scheduler.RecalculateSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		recalculated, err := circulation.RecalculateAll(ctx)
		if err != nil {
			log.Printf("Loan status sweep failed after %d loans: %v", recalculated, err)
		} else {
			log.Printf("Loan statuses recalculated: %d", recalculated)
		}

		penalties, err := circulation.RefreshPenalties(ctx)
		if err != nil {
			log.Printf("Penalty refresh failed after %d penalties: %v", penalties, err)
		} else {
			log.Printf("Penalties created or updated: %d", penalties)
		}

		expired, err := reservations.ExpirePending(ctx)
		if err != nil {
			log.Printf("Reservation expiry failed: %v", err)
		} else {
			log.Printf("Reservations expired: %d", expired)
		}
	})
	if err != nil {
		log.Fatalf("Error scheduling daily maintenance job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}
