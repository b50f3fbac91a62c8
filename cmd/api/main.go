package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carepoint-health/frontdesk-service/internal/config"
	httpserver "github.com/carepoint-health/frontdesk-service/internal/http"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/messaging"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/telemetry"
)

func main() {
	log.Println("frontdesk-service starting")

	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	otelProvider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: telemetry init failed: %v", err)
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: metrics init failed, continuing without: %v", err)
		metrics = nil
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	ref := refdata.NewProvider()
	if cfg.CatalogPath != "" {
		ref, err = refdata.LoadProvider(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog %s: %v", cfg.CatalogPath, err)
		}
		log.Printf("✓ Loaded catalog from %s", cfg.CatalogPath)
	}

	var publisher messaging.PublisherInterface
	if cfg.MessagingOn {
		p, err := messaging.NewPublisher()
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events disabled: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	} else {
		log.Println("Messaging disabled, domain events will not be published")
	}

	router, err := httpserver.SetupRouter(ctx, st, ref, idgen.UUID{}, publisher, metrics)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ frontdesk-service listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	if otelProvider != nil {
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during telemetry shutdown: %v", err)
		}
	}
	closeStore()
	log.Println("Shutdown complete")
}

func openStore(cfg config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pg, err := store.NewPostgresStore()
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
