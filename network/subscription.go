package network

import (
	"context"
	"sync"

	"github.com/automoto/dojo-tanks/shared/messages"
)

// BatchHandler receives entity batches for a subscription. A non-nil err means
// the whole batch is invalid.
type BatchHandler func(entities []messages.EntityUpdate, err error)

// Submitter sends actions to the ledger. Submit returns once the action is
// final or rejected; callers that must not block run it on a goroutine.
type Submitter interface {
	Submit(ctx context.Context, action messages.Action) error
}

// Subscriber opens live queries against the ledger.
type Subscriber interface {
	Subscribe(ctx context.Context, q messages.Query, fn BatchHandler) (*Subscription, error)
	Fetch(ctx context.Context, q messages.Query) ([]messages.EntityUpdate, error)
}

// Subscription is a live query. Cancel stops delivery; it runs the underlying
// cancellation exactly once no matter how often it is called.
type Subscription struct {
	query  messages.Query
	once   sync.Once
	cancel func()
	done   chan struct{}
}

// NewSubscription wraps a cancellation func.
func NewSubscription(q messages.Query, cancel func()) *Subscription {
	return &Subscription{query: q, cancel: cancel, done: make(chan struct{})}
}

func (s *Subscription) Query() messages.Query {
	return s.query
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.done)
	})
}

// Done is closed once Cancel has run.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
