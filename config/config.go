package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Environment     string
	RedisURL        string
	CartTTL         time.Duration
	PaymentDelay    time.Duration
	KafkaBrokers    string
	KafkaTopic      string
	AllowedOrigins  string
	ProductSeedFile string
}

func Load() Config {
	// Best-effort: a missing .env just means plain env vars
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "4000"),
		Environment:     getEnv("APP_ENV", "development"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:         getDuration("CART_TTL", time.Hour*24*7),
		PaymentDelay:    getDuration("PAYMENT_CONFIRM_DELAY", 10*time.Second),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("ORDER_EVENTS_TOPIC", "order.events"),
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		ProductSeedFile: os.Getenv("PRODUCT_SEED_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Plain integers are treated as seconds
	if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
