package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter часть kafka.Writer, используемая публикатором
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует уведомления в топик Kafka, ключ сообщения - номер записи
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
}

// NewKafkaPublisher создает публикатор поверх kafka.Writer
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return NewKafkaPublisherWithWriter(writer, topic)
}

// NewKafkaPublisherWithWriter создает публикатор с произвольным writer (для тестов)
func NewKafkaPublisherWithWriter(writer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
	}
}

// Name имя канала для метрик и логов
func (p *KafkaPublisher) Name() string {
	return "kafka"
}

// Send публикует уведомление о записи
func (p *KafkaPublisher) Send(ctx context.Context, confirmation *Confirmation) error {
	payload, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	msg := kafka.Message{
		Key:   []byte(confirmation.Reference),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(confirmation.EventID)},
			{Key: "event_type", Value: []byte(confirmation.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s: %v", ErrPublish, p.topic, err)
	}

	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
