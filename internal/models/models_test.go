package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationType_IsValid(t *testing.T) {
	for _, valid := range []NotificationType{NotificationTypeEvent, NotificationTypeOrder, NotificationTypeProduct} {
		assert.True(t, valid.IsValid(), valid)
	}
	assert.False(t, NotificationType("REFUND").IsValid())
	assert.False(t, NotificationType("").IsValid())
}

func TestNotificationRecord_HasAccount(t *testing.T) {
	empty := ""
	present := "A1"

	assert.False(t, (&NotificationRecord{}).HasAccount())
	assert.False(t, (&NotificationRecord{AccountID: &empty}).HasAccount())
	assert.True(t, (&NotificationRecord{AccountID: &present}).HasAccount())
}

func TestWebhookPayload_Validate(t *testing.T) {
	payload := WebhookPayload{
		Type:   WebhookEventInsert,
		Table:  "Notification",
		Schema: "public",
		Record: NotificationRecord{ID: "N1", RoleID: "R1", Type: NotificationTypeProduct},
	}
	assert.NoError(t, payload.Validate())

	payload.Record.Type = "REFUND"
	assert.Error(t, payload.Validate())

	payload.Record.Type = NotificationTypeProduct
	payload.Type = "UPDATE"
	assert.Error(t, payload.Validate())
}

func TestNewFCMMessage_WireShape(t *testing.T) {
	accountID := "A1"
	record := &NotificationRecord{
		ID:                   "N1",
		AccountID:            &accountID,
		Type:                 NotificationTypeOrder,
		NotificationDetailID: "D1",
		CreatedAt:            "2024-01-01T00:00:00Z",
		Body:                 "Your order shipped",
	}

	body, err := json.Marshal(FCMSendRequest{Message: *NewFCMMessage("tok-1", "Clothy Notification", record)})

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": {
			"token": "tok-1",
			"notification": {"title": "Clothy Notification", "body": "Your order shipped"},
			"data": {"type": "ORDER", "notification_detail_id": "D1", "created_at": "2024-01-01T00:00:00Z"}
		}
	}`, string(body))
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("invalid_grant")
	err := fmt.Errorf("dispatch: %w", NewCredentialError("failed to obtain access token", cause))

	dispatchErr, ok := AsDispatchError(err)
	require.True(t, ok)
	assert.Equal(t, KindCredential, dispatchErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindCredential))
	assert.False(t, IsKind(err, KindDelivery))
	assert.Contains(t, err.Error(), "CREDENTIAL_ERROR")

	_, ok = AsDispatchError(cause)
	assert.False(t, ok)
}

func TestNewDeliveryError_Detail(t *testing.T) {
	jsonErr := NewDeliveryError("status 400", []byte(`{"error":{"code":400}}`), nil)
	assert.JSONEq(t, `{"error":{"code":400}}`, string(jsonErr.Detail))

	textErr := NewDeliveryError("status 502", []byte("Bad Gateway"), nil)
	assert.Equal(t, `"Bad Gateway"`, string(textErr.Detail))

	assert.Nil(t, NewDeliveryError("unreachable", nil, errors.New("timeout")).Detail)
}
