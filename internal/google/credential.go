package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"notification-webhook-service/internal/models"

	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const FirebaseMessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

type serviceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// CredentialProvider exchanges a service-account key for FCM access tokens.
type CredentialProvider struct {
	jwtConfig *jwt.Config
	projectID string
}

func NewCredentialProviderFromFile(path string) (*CredentialProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return NewCredentialProvider(data)
}

func NewCredentialProvider(credentialsJSON []byte) (*CredentialProvider, error) {
	cfg, err := googleoauth.JWTConfigFromJSON(credentialsJSON, FirebaseMessagingScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}

	var account serviceAccount
	if err := json.Unmarshal(credentialsJSON, &account); err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}

	return &CredentialProvider{
		jwtConfig: cfg,
		projectID: account.ProjectID,
	}, nil
}

func (p *CredentialProvider) ProjectID() string {
	return p.projectID
}

// AccessToken performs a fresh token exchange on every call. Tokens are not
// reused across invocations.
func (p *CredentialProvider) AccessToken(ctx context.Context) (string, error) {
	token, err := p.jwtConfig.TokenSource(ctx).Token()
	if err != nil {
		slog.Error("Token exchange rejected", "operation", "CredentialProvider.AccessToken", "client_email", p.jwtConfig.Email, "error", err)
		return "", models.NewCredentialError("failed to obtain access token", err)
	}
	if token.AccessToken == "" {
		return "", models.NewCredentialError("identity provider returned an empty access token", errors.New("missing access_token"))
	}
	return token.AccessToken, nil
}
