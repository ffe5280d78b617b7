package config

import (
	"os"
	"time"
)

type Config struct {
	HTTP_PORT      string `env:"HTTP_PORT"`
	DB_STRING      string `env:"DB_STRING"`
	KAFKA_BROKERS  string `env:"KAFKA_BROKERS"`
	KAFKA_TOPIC    string `env:"KAFKA_TOPIC"`
	KAFKA_GROUP_ID string `env:"KAFKA_GROUP_ID"`
	SUBMIT_TIMEOUT time.Duration
	SESSION_TTL    time.Duration
	DRAFT_TTL      time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:      os.Getenv("HTTP_PORT"),
		DB_STRING:      os.Getenv("DB_STRING"),
		KAFKA_BROKERS:  os.Getenv("KAFKA_BROKERS"),
		KAFKA_TOPIC:    os.Getenv("KAFKA_TOPIC"),
		KAFKA_GROUP_ID: os.Getenv("KAFKA_GROUP_ID"),
	}

	if cfg.HTTP_PORT == "" {
		cfg.HTTP_PORT = "8080"
	}
	if cfg.KAFKA_BROKERS == "" {
		cfg.KAFKA_BROKERS = "localhost:9092"
	}
	if cfg.KAFKA_TOPIC == "" {
		cfg.KAFKA_TOPIC = "japi.shipments"
	}
	if cfg.KAFKA_GROUP_ID == "" {
		cfg.KAFKA_GROUP_ID = "shipment-service"
	}

	cfg.SUBMIT_TIMEOUT = durationEnv("SUBMIT_TIMEOUT", 10*time.Second)
	cfg.SESSION_TTL = durationEnv("SESSION_TTL", 12*time.Hour)
	cfg.DRAFT_TTL = durationEnv("DRAFT_TTL", 24*time.Hour)
	return cfg, nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
