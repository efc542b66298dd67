package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Empty DSN disables the Postgres archive and sequence store.
	DatabaseDSN   string
	RunMigrations bool

	// Empty URL disables publishing to RabbitMQ.
	RabbitMQURL string

	Currency       string
	Affiliation    string
	EventFeedLimit int

	LogEnv string

	CORSAllowOrigins []string
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		DatabaseDSN:   getenv("DATABASE_DSN", ""),
		RunMigrations: envBool("RUN_MIGRATIONS", true),

		RabbitMQURL: getenv("RABBITMQ_URL", ""),

		Currency:       getenv("CURRENCY", "USD"),
		Affiliation:    getenv("AFFILIATION", "Store Name"),
		EventFeedLimit: envInt("EVENT_FEED_LIMIT", 0),

		LogEnv: getenv("LOG_ENV", "development"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(key string, fallback bool) bool {
	switch strings.TrimSpace(os.Getenv(key)) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
