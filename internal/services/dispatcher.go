package services

import (
	"context"
	"encoding/json"

	"notification-webhook-service/internal/models"

	"golang.org/x/sync/errgroup"
)

// Sender delivers a single FCM message using an already issued access token.
type Sender interface {
	Send(ctx context.Context, accessToken string, message *models.FCMMessage) (json.RawMessage, error)
}

type Dispatcher struct {
	sender Sender
	title  string
}

func NewDispatcher(sender Sender, title string) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		title:  title,
	}
}

// Dispatch sends to every token at once and waits for all sends to settle.
// The first failure observed fails the whole batch; on success the provider
// payloads are returned in token order.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, accessToken string, record *models.NotificationRecord) ([]json.RawMessage, error) {
	results := make([]json.RawMessage, len(tokens))

	var g errgroup.Group
	for i, token := range tokens {
		g.Go(func() error {
			result, err := d.sender.Send(ctx, accessToken, models.NewFCMMessage(token, d.title, record))
			if err != nil {
				if _, ok := models.AsDispatchError(err); ok {
					return err
				}
				return models.NewDeliveryError("failed to send notification", nil, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
