package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	APIKey    string

	// Geocoder settings; an empty base URL disables reverse geocoding.
	GeocoderBaseURL  string
	GeocoderInterval time.Duration

	DefaultTimezone string
	MaxUploadBytes  int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/fitness.db"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		APIKey:           getEnv("API_KEY", ""),
		GeocoderBaseURL:  getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderInterval: time.Duration(getEnvInt("GEOCODER_INTERVAL_MS", 1000)) * time.Millisecond,
		DefaultTimezone:  getEnv("DEFAULT_TIMEZONE", "UTC"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20)),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
