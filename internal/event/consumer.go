package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"notification-webhook-service/internal/models"
	"notification-webhook-service/internal/services"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RecordHandler interface {
	HandleRecord(ctx context.Context, record *models.NotificationRecord) ([]json.RawMessage, error)
}

// QueueConsumer reads webhook payloads relayed through RabbitMQ and runs the
// same dispatch as the HTTP endpoint. Failed messages are dead-lettered, never
// requeued.
type QueueConsumer struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	handler         RecordHandler
	queueName       string
	deadLetterQueue string
}

type ConsumerConfig struct {
	RabbitMQURL     string
	QueueName       string
	DeadLetterQueue string
	PrefetchCount   int
}

func NewQueueConsumer(cfg *ConsumerConfig, handler RecordHandler) (*QueueConsumer, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.Qos(
		cfg.PrefetchCount, // prefetch count
		0,                 // prefetch size
		false,             // global
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.DeadLetterQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare DLQ: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": cfg.DeadLetterQueue,
		},
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return NewQueueConsumerWithChannel(conn, ch, handler, cfg.QueueName, cfg.DeadLetterQueue), nil
}

func NewQueueConsumerWithChannel(conn *amqp.Connection, ch *amqp.Channel, handler RecordHandler, queueName, deadLetterQueue string) *QueueConsumer {
	return &QueueConsumer{
		conn:            conn,
		channel:         ch,
		handler:         handler,
		queueName:       queueName,
		deadLetterQueue: deadLetterQueue,
	}
}

func (q *QueueConsumer) StartConsuming(ctx context.Context) error {
	msgs, err := q.channel.Consume(
		q.queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			q.handleDelivery(ctx, msg)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handleDelivery acks a dispatched message. Anything that fails is nacked
// without requeue so the broker routes it to the dead letter queue.
func (q *QueueConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	if err := q.processMessage(ctx, msg.Body); err != nil {
		log.Printf("Error processing message %s: %v", msg.MessageId, err)
		if err := msg.Nack(false, false); err != nil {
			log.Printf("Failed to dead-letter message %s: %v", msg.MessageId, err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack message %s: %v", msg.MessageId, err)
	}
}

func (q *QueueConsumer) processMessage(ctx context.Context, body []byte) error {
	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	requestID := uuid.NewString()
	slog.Info("Queued webhook received", "request_id", requestID, "queue", q.queueName, "record_id", payload.Record.ID)

	results, err := q.handler.HandleRecord(services.WithRequestID(ctx, requestID), &payload.Record)
	if err != nil {
		return fmt.Errorf("failed to dispatch notification: %w", err)
	}

	slog.Info("Queued webhook dispatched", "request_id", requestID, "deliveries", len(results))
	return nil
}

func (q *QueueConsumer) Close() error {
	if q.channel != nil {
		if err := q.channel.Close(); err != nil {
			return err
		}
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
