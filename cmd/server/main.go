package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internhub/internal/gateway"
	"internhub/internal/grading"
	"internhub/internal/notify"
	"internhub/internal/shared"
)

func main() {
	log.Println("INFO: Starting Grading Service...")

	// 1. Load Configuration using Shared Package
	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("grading")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Connect to MongoDB using Shared Package
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// 3. Ensure Indexes (unique student/subject pair, status lookups)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store := grading.NewMongoStore(db)
	if err := store.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		log.Fatalf("Failed to create grade record indexes: %v", err)
	}
	indexCancel()

	// 4. Wire the Grading Service
	directory := grading.NewMongoDirectory(db)
	notifier := notify.NewMongoNotifier(db)
	service := grading.NewGradingService(store, directory, notifier)

	// 5. Setup Routes and Middleware
	router := gateway.SetupRoutes(gateway.Dependencies{
		Config:  cfg,
		Service: service,
		Inbox:   notifier,
	})

	// 6. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Grading Service listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 8. Graceful Shutdown Handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down Grading Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during HTTP shutdown: %v", err)
	}

	if err := shared.DisconnectMongoDB(client); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}

	log.Println("INFO: Grading Service stopped.")
}
