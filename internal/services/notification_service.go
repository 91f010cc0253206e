package services

import (
	"context"
	"encoding/json"

	"notification-webhook-service/internal/models"
)

type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type NotificationService struct {
	resolver    *AudienceResolver
	credentials TokenProvider
	dispatcher  *Dispatcher
}

func NewNotificationService(resolver *AudienceResolver, credentials TokenProvider, dispatcher *Dispatcher) *NotificationService {
	return &NotificationService{
		resolver:    resolver,
		credentials: credentials,
		dispatcher:  dispatcher,
	}
}

// HandleRecord resolves the audience, fetches an access token and fans out the
// push. Any stage failing aborts the invocation.
func (s *NotificationService) HandleRecord(ctx context.Context, record *models.NotificationRecord) ([]json.RawMessage, error) {
	log := loggerFrom(ctx).With("operation", "NotificationService.HandleRecord", "record_id", record.ID, "type", record.Type)

	tokens, err := s.resolver.Resolve(ctx, record)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.credentials.AccessToken(ctx)
	if err != nil {
		if _, ok := models.AsDispatchError(err); !ok {
			err = models.NewCredentialError("failed to obtain access token", err)
		}
		return nil, err
	}

	results, err := s.dispatcher.Dispatch(ctx, tokens, accessToken, record)
	if err != nil {
		log.Error("Dispatch failed", "tokens", len(tokens), "error", err)
		return nil, err
	}

	log.Info("Notification dispatched", "tokens", len(tokens))
	return results, nil
}
