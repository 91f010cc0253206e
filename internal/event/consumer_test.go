package event

import (
	"context"
	"encoding/json"
	"testing"

	"notification-webhook-service/internal/models"
	"notification-webhook-service/internal/services"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecordHandler struct {
	err      error
	received *models.NotificationRecord
	ctx      context.Context
}

func (s *stubRecordHandler) HandleRecord(ctx context.Context, record *models.NotificationRecord) ([]json.RawMessage, error) {
	s.received = record
	s.ctx = ctx
	return []json.RawMessage{json.RawMessage(`{"name":"msg-1"}`)}, s.err
}

const rolePayload = `{"type":"INSERT","table":"Notification","schema":"public","record":{"id":"N2","account_id":null,"role_id":"R1","type":"EVENT","notification_detail_id":"E9","created_at":"2024-02-02T10:00:00Z","body":"Flash sale"}}`

func TestProcessMessage_Dispatches(t *testing.T) {
	stub := &stubRecordHandler{}
	consumer := NewQueueConsumerWithChannel(nil, nil, stub, "notification_webhooks", "notification_webhooks.dlq")

	err := consumer.processMessage(context.Background(), []byte(rolePayload))

	require.NoError(t, err)
	require.NotNil(t, stub.received)
	assert.Equal(t, "R1", stub.received.RoleID)
	assert.False(t, stub.received.HasAccount())
	assert.NotEmpty(t, services.RequestIDFrom(stub.ctx))
}

func TestProcessMessage_MalformedBody(t *testing.T) {
	stub := &stubRecordHandler{}
	consumer := NewQueueConsumerWithChannel(nil, nil, stub, "q", "q.dlq")

	err := consumer.processMessage(context.Background(), []byte("not-json"))

	assert.Error(t, err)
	assert.Nil(t, stub.received)
}

func TestProcessMessage_RejectsNonInsertEvents(t *testing.T) {
	stub := &stubRecordHandler{}
	consumer := NewQueueConsumerWithChannel(nil, nil, stub, "q", "q.dlq")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(rolePayload), &payload))
	payload["type"] = "DELETE"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	err = consumer.processMessage(context.Background(), body)

	assert.Error(t, err)
	assert.Nil(t, stub.received)
}

func TestProcessMessage_DispatchFailureKeepsKind(t *testing.T) {
	stub := &stubRecordHandler{err: models.NewCredentialError("failed to obtain access token", nil)}
	consumer := NewQueueConsumerWithChannel(nil, nil, stub, "q", "q.dlq")

	err := consumer.processMessage(context.Background(), []byte(rolePayload))

	assert.True(t, models.IsKind(err, models.KindCredential))
}

func TestClose_WithoutConnection(t *testing.T) {
	consumer := NewQueueConsumerWithChannel(nil, nil, &stubRecordHandler{}, "q", "q.dlq")
	assert.NoError(t, consumer.Close())
}

type recordingAcknowledger struct {
	acks    []uint64
	nacks   []uint64
	requeue []bool
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acks = append(a.acks, tag)
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacks = append(a.nacks, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestHandleDelivery_AcksDispatchedMessage(t *testing.T) {
	ack := &recordingAcknowledger{}
	consumer := NewQueueConsumerWithChannel(nil, nil, &stubRecordHandler{}, "q", "q.dlq")

	consumer.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  7,
		Body:         []byte(rolePayload),
	})

	assert.Equal(t, []uint64{7}, ack.acks)
	assert.Empty(t, ack.nacks)
}

func TestHandleDelivery_DeadLettersFailures(t *testing.T) {
	var deletePayload map[string]any
	require.NoError(t, json.Unmarshal([]byte(rolePayload), &deletePayload))
	deletePayload["type"] = "DELETE"
	deleteBody, err := json.Marshal(deletePayload)
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    []byte
		handler *stubRecordHandler
	}{
		{"malformed body", []byte("not-json"), &stubRecordHandler{}},
		{"non insert event", deleteBody, &stubRecordHandler{}},
		{"dispatch failure", []byte(rolePayload), &stubRecordHandler{err: models.NewDeliveryError("FCM returned status 404", nil, nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAcknowledger{}
			consumer := NewQueueConsumerWithChannel(nil, nil, tt.handler, "q", "q.dlq")

			consumer.handleDelivery(context.Background(), amqp.Delivery{
				Acknowledger: ack,
				DeliveryTag:  3,
				Body:         tt.body,
			})

			assert.Empty(t, ack.acks)
			assert.Equal(t, []uint64{3}, ack.nacks)
			assert.Equal(t, []bool{false}, ack.requeue)
		})
	}
}
