package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personachat/internal/api"
	"personachat/internal/config"
	"personachat/internal/core"
	"personachat/internal/logger"
	"personachat/internal/modes"
	"personachat/internal/store"
)

func main() {
	config.LoadConfig()

	log, err := logger.New(&config.AppConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	// Explicit seed step: replace the persona catalog and exit, so
	// catalog edits deploy without racing live traffic.
	seedFlag := flag.Bool("seed", false, "Replace the persona catalog in the database and exit")
	flag.Parse()

	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	if *seedFlag {
		if err := dbStore.ReplaceAllModes(modes.Catalog()); err != nil {
			log.Fatalf("Failed to seed modes: %v", err)
		}
		log.Info("Persona catalog seeded. Exiting.")
		os.Exit(0)
	}

	// First boot on an empty database still gets a usable catalog.
	count, err := dbStore.CountModes()
	if err != nil {
		log.Fatalf("Failed to inspect modes table: %v", err)
	}
	if count == 0 {
		if err := dbStore.ReplaceAllModes(modes.Catalog()); err != nil {
			log.Fatalf("Failed to seed modes: %v", err)
		}
		log.Info("Empty modes table, seeded persona catalog")
	}

	llmService, err := core.NewLLMService(&config.AppConfig, log)
	if err != nil {
		log.Fatalf("Failed to initialize model gateway: %v", err)
	}
	defer llmService.Close()

	userService := core.NewUserService(dbStore, log)
	chatService := core.NewChatService(dbStore, llmService, log)

	apiHandler := api.NewAPIHandler(userService, chatService, log)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting gracefully")
}
