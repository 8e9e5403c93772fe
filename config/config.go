package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type BrokerConfig struct {
	KafkaBroker string
	KafkaTopic  string
	RabbitMQURL string
}

type Config struct {
	AppHost     string
	AppPort     string
	AppEnv      string
	FrontendURL string
	JWTSecret   string
	RedisAddr   string
	UploadDir   string
	LogDir      string
	TimeZone    *time.Location

	Database DatabaseConfig
	Brokers  BrokerConfig
}

// Load reads the .env file when present and falls back to the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	tzName := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		AppHost:     getEnv("APP_HOST", "0.0.0.0"),
		AppPort:     getEnv("APP_PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		LogDir:      getEnv("LOG_DIR", "log/app"),
		TimeZone:    loc,
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     os.Getenv("DB_DATABASE"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Brokers: BrokerConfig{
			KafkaBroker: strings.TrimSpace(os.Getenv("KAFKA_BROKER")),
			KafkaTopic:  getEnv("KAFKA_TOPIC", "parcel-events"),
			RabbitMQURL: strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		},
	}, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
