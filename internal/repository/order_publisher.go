package repository

import (
	"context"

	"HyperMaker/internal/domain/models"
	"HyperMaker/internal/domain/repository"
	pkgkafka "HyperMaker/pkg/kafka"
)

// KafkaOrderPublisher implements OrderEventPublisher for Kafka. Events are
// keyed by symbol so one market's orders stay ordered within a partition.
type KafkaOrderPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaOrderPublisher creates a Kafka order event publisher.
func NewKafkaOrderPublisher(producer *pkgkafka.Producer, topic string) repository.OrderEventPublisher {
	return &KafkaOrderPublisher{producer: producer, topic: topic}
}

func (p *KafkaOrderPublisher) Publish(ctx context.Context, e *models.OrderEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.Symbol), e)
}

func (p *KafkaOrderPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopOrderPublisher drops every event. Used when the event bus is disabled
// so callers never need a nil check.
type NopOrderPublisher struct{}

func NewNopOrderPublisher() repository.OrderEventPublisher {
	return &NopOrderPublisher{}
}

func (NopOrderPublisher) Publish(context.Context, *models.OrderEvent) error { return nil }

func (NopOrderPublisher) Close() error { return nil }
