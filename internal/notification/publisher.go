package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/i474232898/weather-notification-service/internal/store"
)

// Event is the message published for every notification the scan creates.
type Event struct {
	NotificationID uint      `json:"notification_id"`
	UserID         uint      `json:"user_id"`
	Message        string    `json:"message"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
}

// KafkaPublisher writes notification events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafkago.Writer
}

// NewKafkaPublisher creates a producer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n store.Notification) error {
	msg, err := serializeToMessage(n)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage keys the event by user id so a user's events stay ordered.
func serializeToMessage(n store.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(Event{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Message:        n.Message,
		Location:       n.Location,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatUint(uint64(n.UserID), 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("significant_precipitation")},
			{Key: "created_at", Value: []byte(n.CreatedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
