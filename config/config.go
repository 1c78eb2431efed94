package config

import (
	"os"
	"time"
)

// Config centralizes the non-database environment knobs. DB_* variables are
// read directly by the database package.
type Config struct {
	Env  string
	Host string
	Port string

	MetricsPort string

	RedisAddr string

	KafkaBrokers         string
	KafkaTopicBetSettled string

	FeedAPIURL string
	FeedAPIKey string

	AutoSettleInterval time.Duration
}

func Load() Config {
	interval := time.Minute
	if v := os.Getenv("AUTO_SETTLE_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			interval = parsed
		}
	}

	return Config{
		Env:                  getEnv("ENV", "local"),
		Host:                 getEnv("HOST", "127.0.0.1"),
		Port:                 getEnv("PORT", "3000"),
		MetricsPort:          getEnv("METRICS_PORT", "9095"),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		KafkaBrokers:         getEnv("KAFKA_BROKERS", ""),
		KafkaTopicBetSettled: getEnv("KAFKA_TOPIC_BET_SETTLED", "bet.settled"),
		FeedAPIURL:           getEnv("FEED_API_URL", ""),
		FeedAPIKey:           getEnv("FEED_API_KEY", ""),
		AutoSettleInterval:   interval,
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
