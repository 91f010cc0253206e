package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"notification-webhook-service/internal/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrTokenNotFound  = errors.New("no FCM token registered for account")
	ErrMultipleTokens = errors.New("multiple FCM tokens registered for account")
)

type ITokenRepository interface {
	GetFCMTokenByAccountID(ctx context.Context, accountID string) (string, error)
	GetFCMTokensByRoleID(ctx context.Context, roleID string) ([]string, error)
}

type TokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) ITokenRepository {
	return &TokenRepository{
		db: db,
	}
}

// GetFCMTokenByAccountID expects exactly one token row for the account.
// Two rows are fetched at most so an ambiguous match can be reported.
func (r *TokenRepository) GetFCMTokenByAccountID(ctx context.Context, accountID string) (string, error) {
	query := `
        SELECT t.token
        FROM "Token" t
        WHERE t.account_id = $1 AND t.type = $2
        LIMIT 2
    `

	var tokens []string
	if err := r.db.SelectContext(ctx, &tokens, query, accountID, models.TokenTypeFCM); err != nil {
		log.Printf("Error fetching FCM token for account %s: %v", accountID, err)
		return "", fmt.Errorf("failed to query account token: %w", err)
	}

	switch len(tokens) {
	case 0:
		return "", ErrTokenNotFound
	case 1:
		return tokens[0], nil
	default:
		return "", ErrMultipleTokens
	}
}

func (r *TokenRepository) GetFCMTokensByRoleID(ctx context.Context, roleID string) ([]string, error) {
	query := `
        SELECT t.token
        FROM "Token" t
        JOIN "Account" a ON a.id = t.account_id
        WHERE a.role_id = $1 AND t.type = $2
    `

	tokens := []string{}
	if err := r.db.SelectContext(ctx, &tokens, query, roleID, models.TokenTypeFCM); err != nil {
		log.Printf("Error fetching FCM tokens for role %s: %v", roleID, err)
		return nil, fmt.Errorf("failed to query role tokens: %w", err)
	}
	return tokens, nil
}
