package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMessage struct {
	Kind string `json:"kind"`
	To   string `json:"to"`
}

func newTestBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.Nop()
	b := NewFromClient(client, Config{PollTimeout: 100 * time.Millisecond}, &logger)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestPublish_QueuesJSON(t *testing.T) {
	b, mr := newTestBroker(t)

	require.NoError(t, b.Publish(context.Background(), "notifications", testMessage{Kind: "invoice_issued", To: "ana@example.com"}))

	items, err := mr.List("notifications")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got testMessage
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, "invoice_issued", got.Kind)
	assert.Equal(t, "ana@example.com", got.To)
}

func TestSubscribe_ReceivesQueuedAndLiveMessages(t *testing.T) {
	b, _ := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, b.Publish(ctx, "notifications", testMessage{Kind: "first"}))

	msgs, err := b.Subscribe(ctx, "notifications")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "notifications", testMessage{Kind: "second"}))

	var kinds []string
	for len(kinds) < 2 {
		select {
		case raw := <-msgs:
			var m testMessage
			require.NoError(t, json.Unmarshal(raw, &m))
			kinds = append(kinds, m.Kind)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	assert.Equal(t, []string{"first", "second"}, kinds)
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	b, _ := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	msgs, err := b.Subscribe(ctx, "notifications")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestPublish_FailsWhenRedisIsDown(t *testing.T) {
	b, mr := newTestBroker(t)
	mr.Close()

	err := b.Publish(context.Background(), "notifications", testMessage{Kind: "x"})
	assert.Error(t, err)
}
