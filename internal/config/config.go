package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend Backend `json:"backend"`

	// Auth Configuration
	Auth Auth `json:"auth"`

	// Gesture Configuration
	Gesture Gesture `json:"gesture"`

	// Content Configuration
	Content Content `json:"content"`

	// Share Configuration
	Share Share `json:"share"`
}

// Backend contains REST backend and network retry configuration
type Backend struct {
	BaseURL        string        `json:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxRetries     int           `json:"max_retries"`
	BackoffBase    time.Duration `json:"backoff_base"` // linear backoff unit, attempt*base
}

// Auth contains identity wait configuration
type Auth struct {
	MaxRetries   int           `json:"max_retries"`
	PollInterval time.Duration `json:"poll_interval"`
}

// WaitTimeout is the overall deadline for an identity to appear,
// kept equivalent to the retry-count model of the reference client.
func (a Auth) WaitTimeout() time.Duration {
	return time.Duration(a.MaxRetries) * a.PollInterval
}

// Gesture contains long-press and drop recognition tuning
type Gesture struct {
	LongPressDuration time.Duration `json:"long_press_duration"`
	MoveThresholdPx   float64       `json:"move_threshold_px"`
}

// Content contains input validation limits
type Content struct {
	MaxTextLength   int `json:"max_text_length"`
	MinReasonLength int `json:"min_reason_length"`
}

// Share contains the share popup window geometry and the public origin
// used when building share links.
type Share struct {
	Origin       string `json:"origin"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// LoadConfig reads .env if present, then environment variables,
// falling back to the built-in defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Backend: Backend{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT_MS", 10000),
			MaxRetries:     getEnvInt("MAX_RETRIES", 3),
			BackoffBase:    getEnvDuration("BACKOFF_BASE_MS", 1000),
		},
		Auth: Auth{
			MaxRetries:   getEnvInt("AUTH_MAX_RETRIES", 10),
			PollInterval: getEnvDuration("AUTH_POLL_INTERVAL_MS", 500),
		},
		Gesture: Gesture{
			LongPressDuration: getEnvDuration("LONG_PRESS_DURATION_MS", 3000),
			MoveThresholdPx:   getEnvFloat("MOVE_THRESHOLD_PX", 10),
		},
		Content: Content{
			MaxTextLength:   getEnvInt("MAX_TEXT_LENGTH", 500),
			MinReasonLength: getEnvInt("MIN_REASON_LENGTH", 3),
		},
		Share: Share{
			Origin:       getEnv("APP_ORIGIN", "http://localhost:8080"),
			WindowWidth:  getEnvInt("SHARE_WINDOW_WIDTH", 600),
			WindowHeight: getEnvInt("SHARE_WINDOW_HEIGHT", 400),
		},
	}

	return cfg
}

// ContentURL builds an absolute backend URL for a content API path.
func (cfg *Config) ContentURL(path string) string {
	return fmt.Sprintf("%s%s", cfg.Backend.BaseURL, path)
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
		log.Printf("Invalid integer for %s: %q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid number for %s: %q, using default %v", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
