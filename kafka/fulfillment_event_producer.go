package kafka

import (
	"context"
	"encoding/json"

	"storefront-service/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type FulfillmentEventProducer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewFulfillmentEventProducer(brokers []string, topic string, logger *zap.Logger) *FulfillmentEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &FulfillmentEventProducer{writer: w, topic: topic, logger: logger}
}

func (p *FulfillmentEventProducer) SendFulfillmentEvent(event models.FulfillmentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UID),
		Value: data,
	}

	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Error("failed to send fulfillment event", zap.Error(err))
		return err
	}
	return nil
}

func (p *FulfillmentEventProducer) Close() {
	_ = p.writer.Close()
	p.logger.Info("kafka producer closed")
}
