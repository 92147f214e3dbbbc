package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const channel = "hospital:notifications"

type delivered struct {
	to, subject string
}

// flakySender fails the first failures calls.
type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []delivered
}

func (s *flakySender) Send(_ context.Context, to, subject, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp: 421 service not available")
	}
	s.sent = append(s.sent, delivered{to: to, subject: subject})
	return nil
}

func (s *flakySender) delivered() []delivered {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivered(nil), s.sent...)
}

func newBroker(t *testing.T) (*redis.RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()
	b := redis.NewFromClient(client, redis.Config{PollTimeout: 50 * time.Millisecond}, &logger)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func runWorker(t *testing.T, w *NotificationWorker) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Start(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func notificationFor(to string) *model.Notification {
	return &model.Notification{
		ID:        uuid.New(),
		Kind:      model.NotificationInvoiceIssued,
		Recipient: to,
		Subject:   "Invoice from Hospital",
		Body:      "Invoice INV-202503-000001 for 150.00",
		CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestNotificationWorkerDeliversQueuedMessages(t *testing.T) {
	b, _ := newBroker(t)
	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, channel, notificationFor("ana@example.com")))

	sender := &flakySender{}
	w := NewNotificationWorker(b, sender, NotificationWorkerConfig{Channel: channel}, metrics.NewNop())
	runWorker(t, w)

	require.NoError(t, b.Publish(ctx, channel, notificationFor("ben@example.com")))

	require.Eventually(t, func() bool { return len(sender.delivered()) == 2 }, 2*time.Second, 10*time.Millisecond)
	got := sender.delivered()
	assert.Equal(t, "ana@example.com", got[0].to)
	assert.Equal(t, "ben@example.com", got[1].to)
	assert.Equal(t, "Invoice from Hospital", got[0].subject)
}

func TestNotificationWorkerRetriesFailedSends(t *testing.T) {
	b, _ := newBroker(t)
	sender := &flakySender{failures: 2}
	w := NewNotificationWorker(b, sender, NotificationWorkerConfig{
		Channel:       channel,
		RetryAttempts: 3,
		RetryDelay:    5 * time.Millisecond,
	}, metrics.NewNop())
	runWorker(t, w)

	require.NoError(t, b.Publish(context.Background(), channel, notificationFor("ana@example.com")))

	require.Eventually(t, func() bool { return len(sender.delivered()) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationWorkerSkipsMalformedMessages(t *testing.T) {
	b, mr := newBroker(t)
	_, err := mr.Push(channel, "{not json")
	require.NoError(t, err)
	_, err = mr.Push(channel, `{"kind":"invoice_issued","subject":"no recipient"}`)
	require.NoError(t, err)

	sender := &flakySender{}
	w := NewNotificationWorker(b, sender, NotificationWorkerConfig{Channel: channel}, metrics.NewNop())
	runWorker(t, w)

	require.NoError(t, b.Publish(context.Background(), channel, notificationFor("ana@example.com")))

	require.Eventually(t, func() bool { return len(sender.delivered()) == 1 }, 2*time.Second, 10*time.Millisecond)
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 1, sender.calls)
}

func TestHandleRejectsMissingRecipient(t *testing.T) {
	w := NewNotificationWorker(nil, &flakySender{}, NotificationWorkerConfig{}, metrics.NewNop())
	err := w.handle(context.Background(), []byte(`{"kind":"lab_result_ready"}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
