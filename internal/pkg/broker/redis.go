package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
	retrierconfig "courier-engine/pkg/retrier"
	"courier-engine/pkg/retrier/backoff_adapter"
	"github.com/redis/go-redis/v9"
)

const (
	initialInterval = 1 * time.Second
	maxInterval     = 10 * time.Second
	maxElapsedTime  = 1 * time.Minute
	randomization   = 0.5
	multiplier      = 2
)

// Redis публикует события в канал Redis pub/sub, чтобы их видели все
// реплики API. Relay возвращает события из канала в локальный брокер.
type Redis struct {
	client  *redis.Client
	channel string
	log     handlerLogger
}

func NewRedisClient(ctx context.Context, log logger.Logger, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	redisLog := log.With(logger.NewField("addr", opt.Addr))

	retrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
	})

	var attempt uint64
	err = retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		redisLog.With(
			logger.NewField("attempt", attempt),
		).Info("attempting Redis connection")
		return client.Ping(ctx).Err()
	})
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis connection: %w (failed to close: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("redis connection: %w", err)
	}

	redisLog.With(
		logger.NewField("attempts", attempt),
	).Info("Redis connection established")
	return client, nil
}

func NewRedis(client *redis.Client, channel string, log handlerLogger) *Redis {
	return &Redis{
		client:  client,
		channel: channel,
		log:     log.With(logger.NewField("channel", channel)),
	}
}

func (b *Redis) Publish(ctx context.Context, event entities.DeliveryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = b.client.Publish(ctx, b.channel, data).Err()
	if err != nil {
		RedisEventsTotal.WithLabelValues("out", "error").Inc()
		return fmt.Errorf("redis publish %s: %w", event.Type, err)
	}
	RedisEventsTotal.WithLabelValues("out", "ok").Inc()
	return nil
}

// Relay блокируется до отмены ctx и перекладывает события из канала в sink.
func (b *Redis) Relay(ctx context.Context, sink Publisher) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer func() {
		if err := ps.Close(); err != nil {
			b.log.With(logger.NewField("error", err)).Warn("close redis subscription")
		}
	}()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	b.log.Info("redis event relay started")

	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.log.Info("redis event relay stopped")
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				return ErrSubscriptionClosed
			}

			var event entities.DeliveryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				RedisEventsTotal.WithLabelValues("in", "bad_payload").Inc()
				b.log.With(logger.NewField("error", err)).Warn("redis relay received bad event")
				continue
			}
			RedisEventsTotal.WithLabelValues("in", "ok").Inc()

			if err := sink.Publish(ctx, event); err != nil {
				b.log.With(
					logger.NewField("error", err),
					logger.NewField("event_type", string(event.Type)),
				).Warn("redis relay failed to hand event over")
			}
		}
	}
}
