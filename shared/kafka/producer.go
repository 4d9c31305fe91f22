// Package kafka carries discoveries and run triggers over Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"toolscout/logging"
	"toolscout/types"
)

// Producer publishes curated discoveries, one message per discovery keyed by its id
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.SugaredLogger
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers []string
	Topic   string
	Log     *zap.SugaredLogger
}

// NewProducer connects a synchronous producer
func NewProducer(cfg ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewProducerFrom(p, cfg.Topic, cfg.Log), nil
}

// NewProducerFrom wraps an existing sarama producer
func NewProducerFrom(p sarama.SyncProducer, topic string, log *zap.SugaredLogger) *Producer {
	return &Producer{producer: p, topic: topic, log: logging.OrNop(log)}
}

// PublishDiscoveries sends every discovery. It stops at the first failure or when ctx ends.
func (p *Producer) PublishDiscoveries(ctx context.Context, discoveries []types.Discovery) (int, error) {
	sent := 0
	for _, d := range discoveries {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		payload, err := json.Marshal(d)
		if err != nil {
			return sent, fmt.Errorf("failed to encode discovery %s: %w", d.ID, err)
		}
		partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(d.ID),
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			return sent, fmt.Errorf("failed to publish discovery %s: %w", d.ID, err)
		}
		p.log.Debugf("📤 Published %s to %s (partition=%d, offset=%d)", d.ID, p.topic, partition, offset)
		sent++
	}
	return sent, nil
}

// Close flushes and closes the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
