package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"notification-webhook-service/internal/config"
	"notification-webhook-service/internal/database/postgres"
	"notification-webhook-service/internal/event"
	"notification-webhook-service/internal/google"
	"notification-webhook-service/internal/handlers"
	"notification-webhook-service/internal/repository"
	"notification-webhook-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}
	fmt.Println("Logging to", logFile)

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func newSender(cfg config.GoogleConfig, projectID string) services.Sender {
	if cfg.FCMTransport == config.TransportSDK {
		log.Printf("Sending through firebase messaging SDK for project %s", projectID)
		return google.NewFirebaseSender(projectID)
	}
	httpClient := &http.Client{Timeout: cfg.FCMTimeout}
	return google.NewFCMClient(httpClient, cfg.FCMBaseURL, projectID)
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		log.Printf("Failed to set up file logging, using stderr: %v", err)
	} else {
		defer logFile.Close()
	}

	db, err := postgres.Connect(cfg.PostgresCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	credentials, err := google.NewCredentialProviderFromFile(cfg.GoogleConfig.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to load service account: %v", err)
	}
	projectID := cfg.GoogleConfig.FirebaseProjectID
	if projectID == "" {
		projectID = credentials.ProjectID()
	}
	if projectID == "" {
		log.Fatalf("Firebase project id is not configured")
	}

	notificationService := services.NewNotificationService(
		services.NewAudienceResolver(repository.NewTokenRepository(db)),
		credentials,
		services.NewDispatcher(newSender(cfg.GoogleConfig, projectID), cfg.GoogleConfig.NotificationTitle),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	handlers.NewWebhookHandler(notificationService).Register(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RabbitMQCfg.Enabled {
		consumerConfig := &event.ConsumerConfig{
			RabbitMQURL: fmt.Sprintf("amqp://%s:%s@%s:%s/",
				cfg.RabbitMQCfg.Username,
				cfg.RabbitMQCfg.Password,
				cfg.RabbitMQCfg.Host,
				cfg.RabbitMQCfg.Port),
			QueueName:       cfg.RabbitMQCfg.QueueName,
			DeadLetterQueue: cfg.RabbitMQCfg.DeadLetterQueue,
			PrefetchCount:   cfg.RabbitMQCfg.PrefetchCount,
		}

		consumer, err := event.NewQueueConsumer(consumerConfig, notificationService)
		if err != nil {
			log.Fatalf("Failed to setup queue consumer: %v", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.StartConsuming(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Consumer error: %v", err)
			}
		}()
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
