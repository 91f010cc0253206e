package models

type NotificationType string

const (
	NotificationTypeEvent   NotificationType = "EVENT"
	NotificationTypeOrder   NotificationType = "ORDER"
	NotificationTypeProduct NotificationType = "PRODUCT"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeEvent, NotificationTypeOrder, NotificationTypeProduct:
		return true
	}
	return false
}

type WebhookEventType string

const (
	WebhookEventInsert WebhookEventType = "INSERT"
)

// TokenTypeFCM is the value of Token.type for device push tokens.
const TokenTypeFCM = "FCM_TOKEN"
