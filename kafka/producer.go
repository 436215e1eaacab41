package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"storefront-backend/models"
)

// ProducerAPI is implemented by Producer and mocked in tests.
type ProducerAPI interface {
	SendOrderEvent(event models.OrderEvent) error
}

// Producer publishes order lifecycle events. Publishing is best-effort:
// callers log failures and carry on.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns nil when brokers is empty, which disables event
// publishing without special-casing at every call site (see SendOrderEvent).
func NewProducer(brokers, topic string, logger *zap.Logger) *Producer {
	if brokers == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) SendOrderEvent(event models.OrderEvent) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}

	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Warn("failed to publish order event",
			zap.String("event", event.Event),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	if p == nil {
		return
	}
	_ = p.writer.Close()
}
