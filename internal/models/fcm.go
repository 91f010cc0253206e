package models

// FCMSendRequest is the body of an FCM HTTP v1 messages:send call.
type FCMSendRequest struct {
	Message FCMMessage `json:"message"`
}

type FCMMessage struct {
	Token        string          `json:"token"`
	Notification FCMNotification `json:"notification"`
	Data         FCMData         `json:"data"`
}

type FCMNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FCMData is forwarded verbatim from the notification record so clients can
// route to the matching detail screen.
type FCMData struct {
	Type                 NotificationType `json:"type"`
	NotificationDetailID string           `json:"notification_detail_id"`
	CreatedAt            string           `json:"created_at"`
}

func (d FCMData) AsMap() map[string]string {
	return map[string]string{
		"type":                   string(d.Type),
		"notification_detail_id": d.NotificationDetailID,
		"created_at":             d.CreatedAt,
	}
}

func NewFCMMessage(token, title string, record *NotificationRecord) *FCMMessage {
	return &FCMMessage{
		Token: token,
		Notification: FCMNotification{
			Title: title,
			Body:  record.Body,
		},
		Data: FCMData{
			Type:                 record.Type,
			NotificationDetailID: record.NotificationDetailID,
			CreatedAt:            record.CreatedAt,
		},
	}
}
