package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/pkg/config"
	"courier-engine/pkg/logger"
	"github.com/IBM/sarama"
)

const (
	producerRetryMax     = 5
	producerRetryBackoff = 100 * time.Millisecond
	producerNetTimeout   = 30 * time.Second
)

// Producer пишет события доставки в топик. Ключ сообщения id заказа,
// вне доставки id курьера, поэтому события одной доставки идут в одну
// партицию по порядку.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      logger.Logger
}

func NewSyncProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka, brokers []string) (sarama.SyncProducer, error) {
	version, err := sarama.ParseKafkaVersion(cfg.Sarama.Version)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", cfg.Sarama.Version, err)
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = version
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = producerRetryMax
	saramaConfig.Producer.Retry.Backoff = producerRetryBackoff
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = producerNetTimeout
	saramaConfig.Net.ReadTimeout = producerNetTimeout
	saramaConfig.Net.WriteTimeout = producerNetTimeout

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", cfg.EventsTopic),
	)

	if err := pingKafka(ctx, kafkaLog, brokers, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}
	return producer, nil
}

func NewProducer(producer sarama.SyncProducer, topic string, log logger.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log.With(logger.NewField("topic", topic)),
	}
}

func (p *Producer) Publish(ctx context.Context, event entities.DeliveryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := event.OrderID
	if key == "" {
		key = event.CourierID
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	})
	if err != nil {
		ProducedEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("send event %s: %w", event.Type, err)
	}
	ProducedEventsTotal.WithLabelValues(string(event.Type), "ok").Inc()

	p.log.Debug("delivery event produced",
		logger.NewField("event_type", string(event.Type)),
		logger.NewField("partition", partition),
		logger.NewField("offset", offset),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
