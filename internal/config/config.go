package config

import (
	"os"
	"time"
)

type Config struct {
	HTTPAddr       string
	RedisAddr      string
	BackendBaseURL string
	BackendTimeout time.Duration

	LivenessPollInterval time.Duration
	ActivityPingInterval time.Duration
	LogoutGrace          time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		RedisAddr:            getenv("REDIS_ADDR", "localhost:6379"),
		BackendBaseURL:       getenv("BACKEND_BASE_URL", "http://localhost:9000"),
		BackendTimeout:       getenvDuration("BACKEND_TIMEOUT", 10*time.Second),
		LivenessPollInterval: getenvDuration("LIVENESS_POLL_INTERVAL", 5*time.Second),
		ActivityPingInterval: getenvDuration("ACTIVITY_PING_INTERVAL", 60*time.Second),
		LogoutGrace:          getenvDuration("LOGOUT_GRACE", 3*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
