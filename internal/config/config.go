package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Foreca weather provider credentials for the token exchange.
	ForecaBaseURL  string
	ForecaUser     string
	ForecaPassword string

	// IQAir (AirVisual) API key.
	IQAirBaseURL string
	IQAirAPIKey  string

	// Nominatim geocoding.
	NominatimBaseURL string
	// GeocodeCountry restricts forward search to one country (ISO 3166-1 alpha-2).
	GeocodeCountry string

	// Outbound timeouts.
	HTTPTimeout       time.Duration
	AirQualityTimeout time.Duration
	GeocodeTimeout    time.Duration

	// LocationIDTTL bounds how long a resolved provider id may be reused
	// before it is re-resolved from the city name.
	LocationIDTTL time.Duration

	// CacheSweepInterval controls how often expired provider ids are pruned.
	CacheSweepInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ForecaBaseURL = getenvDefault("FORECA_BASE_URL", "https://pfa.foreca.com")
	cfg.ForecaUser = os.Getenv("FORECA_USER")
	cfg.ForecaPassword = os.Getenv("FORECA_PASSWORD")

	cfg.IQAirBaseURL = getenvDefault("IQAIR_BASE_URL", "https://api.airvisual.com")
	cfg.IQAirAPIKey = os.Getenv("IQAIR_API_KEY")

	cfg.NominatimBaseURL = getenvDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	cfg.GeocodeCountry = getenvDefault("GEOCODE_COUNTRY", "id")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.AirQualityTimeout, err = getenvDuration("AIR_QUALITY_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.GeocodeTimeout, err = getenvDuration("GEOCODE_TIMEOUT", "8s"); err != nil {
		return nil, err
	}
	if cfg.LocationIDTTL, err = getenvDuration("LOCATION_ID_TTL", "12h"); err != nil {
		return nil, err
	}
	if cfg.CacheSweepInterval, err = getenvDuration("CACHE_SWEEP_INTERVAL", "1h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
