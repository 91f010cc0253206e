package google

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"notification-webhook-service/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// FirebaseSender delivers through the Admin SDK messaging client. The client
// is authorised with the caller's access token so both transports share the
// same per-invocation credential.
type FirebaseSender struct {
	projectID string
	opts      []option.ClientOption

	mu          sync.Mutex
	clientToken string
	cached      *messaging.Client
	builds      int
}

func NewFirebaseSender(projectID string, opts ...option.ClientOption) *FirebaseSender {
	return &FirebaseSender{
		projectID: projectID,
		opts:      opts,
	}
}

// client returns the messaging client bound to accessToken. A dispatch sends
// every message with the same token, so its sends share one client; a new
// token from the next invocation replaces it.
func (f *FirebaseSender) client(ctx context.Context, accessToken string) (*messaging.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && f.clientToken == accessToken {
		return f.cached, nil
	}

	client, err := f.newClient(context.WithoutCancel(ctx), accessToken)
	if err != nil {
		return nil, err
	}
	f.cached = client
	f.clientToken = accessToken
	f.builds++
	return client, nil
}

func (f *FirebaseSender) newClient(ctx context.Context, accessToken string) (*messaging.Client, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(tokenSource)}, f.opts...)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: f.projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return client, nil
}

func (f *FirebaseSender) Send(ctx context.Context, accessToken string, message *models.FCMMessage) (json.RawMessage, error) {
	client, err := f.client(ctx, accessToken)
	if err != nil {
		return nil, models.NewDeliveryError("failed to initialise firebase messaging", nil, err)
	}

	name, err := client.Send(ctx, ToMessagingMessage(message))
	if err != nil {
		return nil, models.NewDeliveryError("firebase rejected message", []byte(err.Error()), err)
	}

	return json.Marshal(map[string]string{"name": name})
}

func ToMessagingMessage(message *models.FCMMessage) *messaging.Message {
	return &messaging.Message{
		Token: message.Token,
		Notification: &messaging.Notification{
			Title: message.Notification.Title,
			Body:  message.Notification.Body,
		},
		Data: message.Data.AsMap(),
	}
}
