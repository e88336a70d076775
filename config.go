package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDB        string
	RedisURL       string
	JWTSecret      string
	KafkaBrokers   []string
	KafkaTopic     string
	GoogleClientID string
	S3Bucket       string
	S3Region       string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SenderName     string
}

func LoadConfig() (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "erp"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		KafkaTopic:     getEnv("ORDER_EVENTS_TOPIC", "order.events"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SenderName:     getEnv("SMTP_SENDER_NAME", "ERP Store"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
