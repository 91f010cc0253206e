package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"notification-webhook-service/internal/models"
)

// FCMClient sends messages through the FCM HTTP v1 API.
type FCMClient struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
}

func NewFCMClient(httpClient *http.Client, baseURL, projectID string) *FCMClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FCMClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		projectID:  projectID,
	}
}

func (f *FCMClient) SendURL() string {
	return fmt.Sprintf("%s/v1/projects/%s/messages:send", f.baseURL, f.projectID)
}

// Send posts one message and returns the provider's response body. Any status
// outside 2xx is a delivery error carrying that body.
func (f *FCMClient) Send(ctx context.Context, accessToken string, message *models.FCMMessage) (json.RawMessage, error) {
	log := slog.With("operation", "FCMClient.Send")

	body, err := json.Marshal(models.FCMSendRequest{Message: *message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.SendURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create FCM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Error("FCM request failed", "error", err)
		return nil, models.NewDeliveryError("failed to reach FCM", nil, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewDeliveryError("failed to read FCM response", nil, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("FCM returned non-success status",
			"status_code", resp.StatusCode,
			"response_body", string(respBody),
		)
		return nil, models.NewDeliveryError(fmt.Sprintf("FCM returned status %d", resp.StatusCode), respBody, nil)
	}

	if !json.Valid(respBody) {
		return nil, models.NewDeliveryError("FCM returned a malformed response", respBody, nil)
	}
	return json.RawMessage(respBody), nil
}
