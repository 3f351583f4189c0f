package events

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/logger"
)

// Publisher announces committed batches.
type Publisher interface {
	PublishBatchCommitted(ctx context.Context, ev BatchCommitted) error
	Close()
}

// NewPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig, log logger.Logger) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka brokers not configured; batch events disabled")
		return nopPublisher{}, nil
	}

	enc, err := NewEncoder()
	if err != nil {
		return nil, err
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.BatchTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	log.Info("kafka publisher ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.BatchTopic))
	return &kafkaPublisher{client: client, topic: cfg.BatchTopic, enc: enc}, nil
}

type kafkaPublisher struct {
	client *kgo.Client
	topic  string
	enc    *Encoder
}

func (p *kafkaPublisher) PublishBatchCommitted(ctx context.Context, ev BatchCommitted) error {
	payload, err := p.enc.Encode(ev)
	if err != nil {
		return err
	}
	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(ev.BatchNumber),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() { p.client.Close() }

type nopPublisher struct{}

func (nopPublisher) PublishBatchCommitted(context.Context, BatchCommitted) error { return nil }
func (nopPublisher) Close() {}
