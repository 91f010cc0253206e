package services

import (
	"context"
	"log/slog"

	"notification-webhook-service/internal/models"
	"notification-webhook-service/internal/repository"
)

type AudienceResolver struct {
	tokenRepository repository.ITokenRepository
}

func NewAudienceResolver(tokenRepo repository.ITokenRepository) *AudienceResolver {
	return &AudienceResolver{tokenRepository: tokenRepo}
}

// Resolve returns the device tokens for a record. Records with an account_id
// need exactly one token row; otherwise every token of accounts holding the
// record's role is returned, possibly none.
func (r *AudienceResolver) Resolve(ctx context.Context, record *models.NotificationRecord) ([]string, error) {
	log := loggerFrom(ctx).With("operation", "AudienceResolver.Resolve", "record_id", record.ID)

	if record.HasAccount() {
		token, err := r.tokenRepository.GetFCMTokenByAccountID(ctx, *record.AccountID)
		if err != nil {
			log.Warn("Account token lookup failed", "account_id", *record.AccountID, "error", err)
			return nil, models.NewLookupError(err.Error(), err)
		}
		return []string{token}, nil
	}

	tokens, err := r.tokenRepository.GetFCMTokensByRoleID(ctx, record.RoleID)
	if err != nil {
		log.Warn("Role token lookup failed", "role_id", record.RoleID, "error", err)
		return nil, models.NewLookupError(err.Error(), err)
	}
	log.Info("Resolved role audience", "role_id", record.RoleID, "tokens", len(tokens))
	return tokens, nil
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if requestID := RequestIDFrom(ctx); requestID != "" {
		return slog.With("request_id", requestID)
	}
	return slog.Default()
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
