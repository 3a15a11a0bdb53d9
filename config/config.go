package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the advisor API.
type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        int

	// Geophysical data source credentials. An empty token means the
	// corresponding operation serves deterministic fallback data.
	BhuvanBaseURL      string
	BhuvanGeocodeToken string
	BhuvanLULCToken    string
	SoilGridsURL       string

	// AuthTokens maps a bearer token to the farmer id it authenticates.
	AuthTokens map[string]string

	SourceTimeout time.Duration
	CacheTTL      time.Duration
	DefaultTopN   int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:          8080,
		BhuvanBaseURL: "https://bhuvan-app3.nrsc.gov.in/api",
		SoilGridsURL:  "https://rest.isric.org/soilgrids/v2.0",
		SourceTimeout: 30 * time.Second,
		CacheTTL:      24 * time.Hour,
		DefaultTopN:   5,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if base := os.Getenv("BHUVAN_BASE_URL"); base != "" {
		cfg.BhuvanBaseURL = base
	}
	cfg.BhuvanGeocodeToken = os.Getenv("BHUVAN_GEOCODE_TOKEN")
	cfg.BhuvanLULCToken = os.Getenv("BHUVAN_LULC_TOKEN")
	if url := os.Getenv("SOILGRIDS_URL"); url != "" {
		cfg.SoilGridsURL = url
	}
	if disabled, _ := strconv.ParseBool(os.Getenv("SOILGRIDS_DISABLED")); disabled {
		cfg.SoilGridsURL = ""
	}

	tokens, err := parseAuthTokens(os.Getenv("AUTH_TOKENS"))
	if err != nil {
		return cfg, err
	}
	cfg.AuthTokens = tokens

	if timeoutStr := os.Getenv("SOURCE_TIMEOUT_SECONDS"); timeoutStr != "" {
		if secs, err := strconv.Atoi(timeoutStr); err == nil && secs > 0 {
			cfg.SourceTimeout = time.Duration(secs) * time.Second
		} else {
			return cfg, fmt.Errorf("invalid SOURCE_TIMEOUT_SECONDS: %s", timeoutStr)
		}
	}

	if ttlStr := os.Getenv("CACHE_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			cfg.CacheTTL = time.Duration(hours) * time.Hour
		} else {
			return cfg, fmt.Errorf("invalid CACHE_TTL_HOURS: %s", ttlStr)
		}
	}

	return cfg, nil
}

// parseAuthTokens parses "token:farmer_id" pairs separated by commas.
func parseAuthTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	if raw == "" {
		return tokens, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, farmerID, ok := strings.Cut(pair, ":")
		if !ok || token == "" || farmerID == "" {
			return nil, fmt.Errorf("invalid AUTH_TOKENS entry: %q", pair)
		}
		tokens[token] = farmerID
	}
	return tokens, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
