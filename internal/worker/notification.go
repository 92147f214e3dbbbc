package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

var ErrMalformedMessage = errors.New("malformed notification message")

type NotificationWorkerConfig struct {
	Channel       string
	RetryAttempts int
	RetryDelay    time.Duration
}

// NotificationWorker drains the queued notifications published by the API in
// broker mode and delivers each one by email.
type NotificationWorker struct {
	broker  messaging.Subscriber
	sender  email.Sender
	config  NotificationWorkerConfig
	metrics *metrics.Metrics
}

func NewNotificationWorker(
	broker messaging.Subscriber,
	sender email.Sender,
	config NotificationWorkerConfig,
	m *metrics.Metrics,
) *NotificationWorker {
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	return &NotificationWorker{
		broker:  broker,
		sender:  sender,
		config:  config,
		metrics: m,
	}
}

// Start blocks until ctx is cancelled or the subscription ends.
func (w *NotificationWorker) Start(ctx context.Context) error {
	msgs, err := w.broker.Subscribe(ctx, w.config.Channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}

	log.Info().Str("channel", w.config.Channel).Msg("Starting notification worker")

	for raw := range msgs {
		status := "sent"
		if err := w.handle(ctx, raw); err != nil {
			status = "failed"
			if errors.Is(err, ErrMalformedMessage) {
				status = "malformed"
			}
			log.Error().Err(err).Str("channel", w.config.Channel).Msg("Failed to deliver notification")
		}
		w.metrics.WorkerMessages.WithLabelValues(status).Inc()
	}

	log.Info().Msg("Shutting down notification worker")
	return nil
}

func (w *NotificationWorker) handle(ctx context.Context, raw []byte) error {
	var n model.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if n.Recipient == "" {
		return fmt.Errorf("%w: missing recipient", ErrMalformedMessage)
	}

	start := time.Now()
	err := retry(ctx, w.config.RetryAttempts, w.config.RetryDelay, func() error {
		return w.sender.Send(ctx, n.Recipient, n.Subject, n.Body)
	})
	w.metrics.NotificationLatency.WithLabelValues(string(n.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("notification %s (%s): %w", n.ID, n.Kind, err)
	}

	log.Debug().
		Str("notification_id", n.ID.String()).
		Str("kind", string(n.Kind)).
		Msg("Notification delivered")
	return nil
}

func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	return err
}
