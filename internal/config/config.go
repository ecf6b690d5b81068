package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the gateway configuration, read from the environment.
type AppConfig struct {
	// Base URLs of the three upstream services.
	LocationServiceURL string
	WeatherServiceURL  string
	DataServiceURL     string

	// Health probe endpoints, one per upstream service.
	LocationHealthURL string
	WeatherHealthURL  string
	DataHealthURL     string

	// Outbound HTTP behaviour. Retries are off by default: the dashboard's
	// error model is reactive, a failed operation waits for the user.
	HTTPTimeout          time.Duration
	RetryEnabled         bool
	RetryMaxAttempts     int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	// Orchestration tuning.
	ForecastDays int
	MaxRangeDays int
	StatusTTL    time.Duration

	// Health probing.
	ProbeInterval   time.Duration
	ProbeMaxHistory int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msgf("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.LocationServiceURL = getenvDefault("LOCATION_SERVICE_URL", "http://127.0.0.1:8001/api/v1/location")
	cfg.WeatherServiceURL = getenvDefault("WEATHER_SERVICE_URL", "http://127.0.0.1:8002/api/v1/weather")
	cfg.DataServiceURL = getenvDefault("DATA_SERVICE_URL", "http://127.0.0.1:8003/api/v1/records")

	cfg.LocationHealthURL = getenvDefault("LOCATION_HEALTH_URL", "http://127.0.0.1:8001/health")
	cfg.WeatherHealthURL = getenvDefault("WEATHER_HEALTH_URL", "http://127.0.0.1:8002/health")
	cfg.DataHealthURL = getenvDefault("DATA_HEALTH_URL", "http://127.0.0.1:8003/health")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.RetryEnabled = getenvBool("RETRY_ENABLED", false)
	cfg.RetryMaxAttempts = getenvInt("RETRY_MAX_ATTEMPTS", 3)
	if cfg.RetryInitialInterval, err = getenvDuration("RETRY_INITIAL_INTERVAL", "500ms"); err != nil {
		return nil, err
	}
	if cfg.RetryMaxInterval, err = getenvDuration("RETRY_MAX_INTERVAL", "5s"); err != nil {
		return nil, err
	}

	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)
	cfg.MaxRangeDays = getenvInt("MAX_RANGE_DAYS", 7)
	if cfg.StatusTTL, err = getenvDuration("SAVE_STATUS_TTL", "3s"); err != nil {
		return nil, err
	}

	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "60s"); err != nil {
		return nil, err
	}
	cfg.ProbeMaxHistory = getenvInt("PROBE_MAX_HISTORY", 20)

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

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
