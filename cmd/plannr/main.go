package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/auth"
	"github.com/plannr-dev/plannr/internal/router"
	"github.com/plannr-dev/plannr/internal/scheduler"
)

func main() {
	var err error

	err = godotenv.Load()

	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err = auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err = db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	reminderInterval := time.Hour

	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		seconds, parseErr := strconv.Atoi(raw)

		if parseErr != nil || seconds <= 0 {
			log.Fatalf("Invalid REMINDER_INTERVAL: %q", raw)
		}

		reminderInterval = time.Duration(seconds) * time.Second
	}

	scheduler.Initialize(reminderInterval)
	defer scheduler.Shutdown()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		scheduler.Shutdown()
		os.Exit(0)
	}()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "5000"
		log.Println("PORT not set, defaulting to 5000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
