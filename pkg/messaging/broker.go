// Package messaging carries queued notifications from the API to the worker.
package messaging

import (
	"context"
	"io"
)

// Publisher enqueues message, JSON-encoded, on the named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, message any) error
}

// Subscriber streams raw message bodies from the named queue until ctx is
// cancelled, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, queue string) (<-chan []byte, error)
}

// Broker is a connection serving both sides of a queue.
type Broker interface {
	Publisher
	Subscriber
	io.Closer
}
