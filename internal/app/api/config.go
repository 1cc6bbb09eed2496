package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	orderscatalognats "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/external/nats"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	CatalogBaseURL    string
	CatalogNATSURL    string
	CatalogSubject    string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// A .env file in the working directory is honored when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogBaseURL:    strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")),
		CatalogNATSURL:    strings.TrimSpace(os.Getenv("CATALOG_NATS_URL")),
		CatalogSubject:    envDefault("CATALOG_SUBJECT", orderscatalognats.DefaultSubject),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	if cfg.CatalogBaseURL == "" && cfg.CatalogNATSURL == "" {
		return Config{}, fmt.Errorf("either CATALOG_NATS_URL or CATALOG_BASE_URL must be set")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
