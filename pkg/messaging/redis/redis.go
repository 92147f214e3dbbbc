package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-api/pkg/circuitbreaker"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

// RedisBroker keeps each channel as a Redis list, so messages published while
// no worker is running wait in the queue.
type RedisBroker struct {
	client      *redis.Client
	cb          *circuitbreaker.CircuitBreaker
	logger      *zerolog.Logger
	pollTimeout time.Duration
}

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
	// PollTimeout bounds each blocking pop so cancellation is noticed.
	PollTimeout time.Duration
	Breaker     circuitbreaker.Settings
}

func NewRedisBroker(ctx context.Context, config Config, logger *zerolog.Logger) (*RedisBroker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewFromClient(client, config, logger), nil
}

func NewFromClient(client *redis.Client, config Config, logger *zerolog.Logger) *RedisBroker {
	settings := config.Breaker
	if settings.Name == "" {
		settings = circuitbreaker.DefaultSettings("redis-broker")
	}
	poll := config.PollTimeout
	if poll <= 0 {
		poll = time.Second
	}
	return &RedisBroker{
		client:      client,
		cb:          circuitbreaker.NewCircuitBreaker(settings),
		logger:      logger,
		pollTimeout: poll,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.cb.Execute(func() error {
		if err := b.client.RPush(ctx, channel, payload).Err(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", channel, err)
		}
		return nil
	})
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	msgChan := make(chan []byte, 100)
	go func() {
		defer close(msgChan)
		for {
			if ctx.Err() != nil {
				return
			}
			res, err := b.client.BLPop(ctx, b.pollTimeout, channel).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				b.logger.Error().Err(err).Str("channel", channel).Msg("Failed to receive message")
				select {
				case <-ctx.Done():
				case <-time.After(b.pollTimeout):
				}
				continue
			}
			// BLPOP returns [key, value]
			if len(res) != 2 {
				continue
			}
			select {
			case msgChan <- []byte(res[1]):
			case <-ctx.Done():
				return
			}
		}
	}()

	return msgChan, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

var _ messaging.Broker = (*RedisBroker)(nil)
