package repository

import (
	"context"

	pkgkafka "PriceCast/pkg/kafka"
	applogger "PriceCast/pkg/logger"
)

// KafkaLogPublisher ships aggregated log batches to a Kafka topic. It
// satisfies the logger's Publisher so the LogCollector can flush through it.
type KafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

var _ applogger.Publisher = (*KafkaLogPublisher)(nil)

// NewKafkaLogPublisher creates a log publisher backed by the shared producer.
func NewKafkaLogPublisher(producer *pkgkafka.Producer) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer}
}

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	// No key: log batches carry no ordering requirement.
	return p.producer.Publish(ctx, topic, nil, payload)
}
