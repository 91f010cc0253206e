package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type NotificationService struct {
	Port         string
	LogDir       string
	PostgresCfg  PostgresConfig
	GoogleConfig GoogleConfig
	RabbitMQCfg  RabbitMQConfig
}

type PostgresConfig struct {
	URL      string
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

type GoogleConfig struct {
	FirebaseCredentials string
	FirebaseProjectID   string
	FCMBaseURL          string
	FCMTransport        string
	FCMTimeout          time.Duration
	NotificationTitle   string
}

type RabbitMQConfig struct {
	Enabled         bool
	Host            string
	Username        string
	Password        string
	Port            string
	QueueName       string
	DeadLetterQueue string
	PrefetchCount   int
}

const (
	TransportHTTP = "http"
	TransportSDK  = "sdk"
)

func New() *NotificationService {
	return &NotificationService{
		Port:   getEnvOrDefault("NOTIFICATION_SERVICE_PORT", "8088"),
		LogDir: getEnvOrDefault("LOG_DIR", "/clothy/log/notification_service"),
		PostgresCfg: PostgresConfig{
			URL:      getEnvOrDefault("DATABASE_URL", ""),
			DBname:   getEnvOrDefault("POSTGRES_DB", "postgres"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "password"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		GoogleConfig: GoogleConfig{
			FirebaseCredentials: getEnvOrDefault("FIREBASE_SERVICE_ACCOUNT_KEY", "service-account.json"),
			FirebaseProjectID:   getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			FCMBaseURL:          getEnvOrDefault("FCM_BASE_URL", "https://fcm.googleapis.com"),
			FCMTransport:        getEnvOrDefault("FCM_TRANSPORT", TransportHTTP),
			FCMTimeout:          getDurationOrDefault("FCM_HTTP_TIMEOUT", 30*time.Second),
			NotificationTitle:   getEnvOrDefault("NOTIFICATION_TITLE", "Clothy Notification"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Enabled:         getBoolOrDefault("RABBITMQ_ENABLED", false),
			Host:            getEnvOrDefault("RABBITMQ_HOST", "rabbitmq"),
			Username:        getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password:        getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Port:            getEnvOrDefault("RABBITMQ_PORT", "5672"),
			QueueName:       getEnvOrDefault("RABBITMQ_QUEUE", "notification_webhooks"),
			DeadLetterQueue: getEnvOrDefault("RABBITMQ_DLQ", "notification_webhooks.dlq"),
			PrefetchCount:   getIntOrDefault("RABBITMQ_PREFETCH", 10),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid boolean for %s=%q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
