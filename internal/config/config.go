package config

import (
	"fmt"
	"os"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config is the service configuration, assembled from environment variables.
// A .env file, when present, is loaded by the entrypoint before this runs.
type Config struct {
	Port         string
	StoreBackend string
	DataDir      string
	// CatalogPath optionally points at a YAML catalog overriding the
	// compiled-in departments/doctors/slots.
	CatalogPath    string
	MessagingOn    bool
	AllowedOrigins string
}

// Load reads configuration from the environment, applying defaults suitable
// for local development.
func Load() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StoreBackend:   getenv("STORE_BACKEND", BackendFile),
		DataDir:        getenv("DATA_DIR", "./data"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		MessagingOn:    os.Getenv("RABBITMQ_URL") != "" || getenv("MESSAGING_ENABLED", "") == "true",
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q (want %q or %q)", cfg.StoreBackend, BackendFile, BackendPostgres)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
