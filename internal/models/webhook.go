package models

// WebhookPayload is the body the database platform posts when a row is
// inserted into the notifications table.
type WebhookPayload struct {
	Type   WebhookEventType   `json:"type" validate:"required,eq=INSERT"`
	Table  string             `json:"table"`
	Schema string             `json:"schema"`
	Record NotificationRecord `json:"record"`
}

type NotificationRecord struct {
	ID                   string           `json:"id"`
	AccountID            *string          `json:"account_id"`
	RoleID               string           `json:"role_id"`
	Type                 NotificationType `json:"type" validate:"required,oneof=EVENT ORDER PRODUCT"`
	NotificationDetailID string           `json:"notification_detail_id"`
	CreatedAt            string           `json:"created_at"`
	Body                 string           `json:"body"`
}

// HasAccount reports whether the record targets a single account. A null or
// empty account_id falls back to role targeting.
func (r *NotificationRecord) HasAccount() bool {
	return r.AccountID != nil && *r.AccountID != ""
}
