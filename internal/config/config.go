// Package config loads runtime configuration from the environment.
//
// Everything the aggregator and server need is passed in explicitly from
// here; no other package reads the environment or any ambient secret store.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const ServiceName = "adolfo-portfolio"

// Config is the full runtime configuration with defaults applied.
type Config struct {
	Port            string
	Account         string        // GitHub account whose activity is shown
	Token           string        // optional bearer token; absence only risks rate limits
	CacheTTL        time.Duration // TTL of the aggregation cache
	WindowDays      int           // trailing window for the commit-day set
	HistogramMonths int           // months charted in the histogram
	HTTPTimeout     time.Duration // per-request timeout for outbound calls
	ContentFile     string        // YAML file with the static portfolio content
	StaticDir       string        // optional directory served under /static/
}

// Load reads the environment, merging in a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            envString("PORT", "8080"),
		Account:         envString("GITHUB_ACCOUNT", "duckola"),
		Token:           os.Getenv("GITHUB_TOKEN"),
		CacheTTL:        envDuration("CACHE_TTL", time.Hour),
		WindowDays:      envInt("ACTIVITY_WINDOW_DAYS", 180),
		HistogramMonths: envInt("HISTOGRAM_MONTHS", 6),
		HTTPTimeout:     envDuration("HTTP_TIMEOUT", 15*time.Second),
		ContentFile:     envString("CONTENT_FILE", "content/portfolio.yaml"),
		StaticDir:       os.Getenv("STATIC_DIR"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
