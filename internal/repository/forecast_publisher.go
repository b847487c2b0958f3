package repository

import (
	"context"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/domain/repository"
	pkgkafka "PriceCast/pkg/kafka"
)

// KafkaForecastSink implements ForecastSink for Kafka.
type KafkaForecastSink struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ repository.ForecastSink = (*KafkaForecastSink)(nil)

// NewKafkaForecastSink creates a Kafka forecast sink.
func NewKafkaForecastSink(producer *pkgkafka.Producer, topic string) *KafkaForecastSink {
	return &KafkaForecastSink{producer: producer, topic: topic}
}

func (p *KafkaForecastSink) PublishForecast(ctx context.Context, symbol string, res models.ForecastResult) error {
	dates := make([]string, len(res.ForecastDates))
	for i, d := range res.ForecastDates {
		dates[i] = d.Format(time.DateOnly)
	}
	return p.producer.Publish(ctx, p.topic, []byte(symbol), map[string]interface{}{
		"symbol":        symbol,
		"strategy":      res.StrategyUsed,
		"dates":         dates,
		"mean":          res.ForecastMean,
		"lower":         res.LowerBound,
		"upper":         res.UpperBound,
		"last_observed": res.LastObservedPrice,
		"generated_at":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *KafkaForecastSink) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
