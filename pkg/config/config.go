package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	PostgresHost string
	PostgresPort int
	PostgresUser string
	PostgresPass string
	PostgresDB   string

	RedisAddr string

	OTLPEndpoint string

	KafkaBrokers []string
	KafkaTopic   string

	CartTTL           time.Duration
	DashboardTTL      time.Duration
	LowStockThreshold int32
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		PostgresHost: getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser: getEnv("POSTGRES_USER", "storefront"),
		PostgresPass: getEnv("POSTGRES_PASSWORD", "storefrontpassword"),
		PostgresDB:   getEnv("POSTGRES_DB", "storefront_db"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		KafkaBrokers: getEnvList("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),

		CartTTL:           getEnvDur("CART_TTL", 30*time.Minute),
		DashboardTTL:      getEnvDur("DASHBOARD_TTL", 15*time.Minute),
		LowStockThreshold: int32(getEnvInt("LOW_STOCK_THRESHOLD", 10)),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return def
	}
	return out
}
