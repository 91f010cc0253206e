package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"notification-webhook-service/internal/models"
	"notification-webhook-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecordHandler interface {
	HandleRecord(ctx context.Context, record *models.NotificationRecord) ([]json.RawMessage, error)
}

type WebhookHandler struct {
	notificationService RecordHandler
}

func NewWebhookHandler(notificationService RecordHandler) *WebhookHandler {
	return &WebhookHandler{
		notificationService: notificationService,
	}
}

func (h *WebhookHandler) Register(app *fiber.App) {
	app.Get("/checkhealth", h.CheckHealth)
	app.Post("/", h.HandleWebhook)
	app.Post("/*", h.HandleWebhook)
}

func (h *WebhookHandler) CheckHealth(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Notification service is healthy")
}

// HandleWebhook accepts an insert event from the database platform and
// replies with the FCM responses, one per device token.
func (h *WebhookHandler) HandleWebhook(c fiber.Ctx) error {
	var payload models.WebhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	requestID := uuid.NewString()
	slog.Info("Webhook received",
		"request_id", requestID,
		"table", payload.Table,
		"record_id", payload.Record.ID,
		"type", payload.Record.Type,
	)

	ctx := services.WithRequestID(c.Context(), requestID)
	results, err := h.notificationService.HandleRecord(ctx, &payload.Record)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(results)
}
