package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savegress/plantpulse/internal/api"
	"github.com/savegress/plantpulse/internal/cache"
	"github.com/savegress/plantpulse/internal/config"
	"github.com/savegress/plantpulse/internal/database"
	"github.com/savegress/plantpulse/internal/insights"
	"github.com/savegress/plantpulse/internal/notify"
	"github.com/savegress/plantpulse/internal/reports"
	"github.com/savegress/plantpulse/internal/simulation"
	"github.com/savegress/plantpulse/internal/store"
)

func main() {
	// Load configuration
	var cfg *config.Config
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.LoadFromEnv()
	}

	log.Printf("Starting PlantPulse - Manufacturing Operations Reporting")
	log.Printf("Environment: %s", cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize record store
	recordStore, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer recordStore.Close()
	if db != nil {
		defer db.Close()
	}
	log.Printf("Record store ready (%s)", cfg.Storage.Type)

	// Initialize response cache
	responseCache, err := cache.New(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer responseCache.Close()
	if responseCache.IsEnabled() {
		log.Println("Redis cache enabled")
	}

	// Initialize insight engine
	var enricher insights.Enricher
	if httpEnricher := insights.NewHTTPEnricher(cfg.Insights); httpEnricher != nil {
		enricher = httpEnricher
		log.Printf("Insight enrichment configured: %s", cfg.Insights.EnrichmentURL)
	}
	insightEngine := insights.NewEngine(recordStore, enricher)

	// Initialize simulation engine
	simulationEngine := simulation.NewEngine(recordStore, cfg.Simulation.UnitCost)

	// Initialize reports service
	reportService := reports.NewService(recordStore)

	// Initialize notification hub and mailbox
	hub := notify.NewHub()
	go hub.Run()
	mailbox := notify.NewMailbox(hub)
	log.Println("Notification hub started")

	// Start background alert monitor
	var monitor *notify.Monitor
	if cfg.Monitor.Enabled {
		monitor = notify.NewMonitor(recordStore, mailbox, hub, cfg.Monitor.ScanInterval)
		if err := monitor.Start(ctx); err != nil {
			log.Fatalf("Failed to start alert monitor: %v", err)
		}
		log.Printf("Alert monitor started (interval: %s)", cfg.Monitor.ScanInterval)
	}

	// Create API server
	server := api.NewServer(
		recordStore,
		insightEngine,
		simulationEngine,
		reportService,
		mailbox,
		hub,
		responseCache,
		cfg.Server.JWTSecret,
	)

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if monitor != nil {
		monitor.Stop()
	}
	hub.Stop()

	log.Println("PlantPulse stopped")
}

// openStore selects the record store backend. Postgres is the default;
// the embedded store keeps a local SQLite file for single-node setups.
func openStore(cfg *config.Config) (store.RecordStore, *database.DB, error) {
	switch cfg.Storage.Type {
	case "embedded":
		s, err := store.NewEmbeddedStore(cfg.Storage.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case "postgres", "":
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(db.Pool()), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
