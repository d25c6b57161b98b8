package env

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"go.uber.org/zap"
)

// Values holds the process configuration resolved at startup.
type Values struct {
	ServerPort    int
	WebhookSecret string
	SpinDuration  time.Duration
	DebugMode     bool
}

// Value is populated by LoadEnv and read-only afterwards.
var Value Values

// LoadEnv reads .env (if present) and the process environment into Value.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	Value = Values{
		ServerPort:    intFromEnv("SERVER_PORT", 3001),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		SpinDuration:  durationFromEnv("SPIN_DURATION_SECONDS", 6*time.Second),
		DebugMode:     os.Getenv("DEBUG_MODE") == "true",
	}

	if Value.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET is not set, webhook requests will be rejected")
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		logger.Warn("Invalid integer env value, using default",
			zap.String("key", key),
			zap.String("value", raw))
		return fallback
	}
	return parsed
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		logger.Warn("Invalid duration env value, using default",
			zap.String("key", key),
			zap.String("value", raw))
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
