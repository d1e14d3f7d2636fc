package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Upstream credentials. Any of these may be empty; the matching fetcher
	// then serves synthetic data.
	AviationEdgeKey string
	NewsAPIKey      string
	RiskAPIKey      string
	CarbonAPIKey    string
	GeocoderKey     string

	// RequestTimeout bounds a single environment assembly.
	RequestTimeout time.Duration

	// HTTPTimeout is the shared outbound HTTP client timeout.
	HTTPTimeout time.Duration

	// Airspace watch: routes to sweep and how often.
	WatchRoutes   []string
	WatchInterval time.Duration

	// Alert history retention.
	WatchMaxAlerts int           // max retained alerts (0 = unlimited)
	WatchMaxAge    time.Duration // max alert age (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AviationEdgeKey = os.Getenv("AVIATION_EDGE_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.RiskAPIKey = os.Getenv("RANE_API_KEY")
	cfg.CarbonAPIKey = os.Getenv("CARBON_API_KEY")
	cfg.GeocoderKey = os.Getenv("GEOCODER_API_KEY")

	timeout, err := getenvDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	// Sweep interval: default 15 minutes.
	interval, err := getenvDuration("WATCH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.WatchInterval = interval

	if routes := os.Getenv("WATCH_ROUTES"); routes != "" {
		for _, r := range strings.Split(routes, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.WatchRoutes = append(cfg.WatchRoutes, r)
			}
		}
	}

	cfg.WatchMaxAlerts = getenvInt("WATCH_MAX_ALERTS", 96)

	maxAge, err := getenvDuration("WATCH_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.WatchMaxAge = maxAge

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
