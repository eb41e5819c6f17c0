package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxvault.backend/internal/config"
	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher delivers domain events after the producing transaction committed.
type Publisher interface {
	Publish(ctx context.Context, event *entities.Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON events keyed by user id so a user's events stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns a Kafka publisher, or a logging publisher when no brokers are configured.
func NewPublisher(cfg config.EventsConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return NewLogPublisher()
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// NewKafkaPublisher creates a Kafka backed publisher
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	logger.Info(context.Background(), "Kafka publisher initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *entities.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := event.EntityID.String()
	if event.UserID != nil {
		key = event.UserID.String()
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// LogPublisher only logs events.
type LogPublisher struct{}

// NewLogPublisher creates a publisher that writes events to the application log
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event *entities.Event) error {
	logger.Debug(ctx, "Domain event",
		zap.String("type", event.Type),
		zap.String("entity_id", event.EntityID.String()),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
