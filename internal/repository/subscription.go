package repository

import (
	"context"
	"log"
	"sync"

	"github.com/pageza/receitas/backend/internal/feed"
)

// Subscription is the handle of a live feed. Deliveries for one subscription
// happen on a single goroutine, one at a time, in the order changes are seen.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newSubscription(parent context.Context) (*Subscription, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription{cancel: cancel, done: make(chan struct{})}, ctx
}

// Cancel stops delivery. It is idempotent and may be called from inside the
// change callback.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Done is closed once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// watch reloads state through load after every signal on l and hands it to
// onChange. The first load runs immediately. A failed load is logged and the
// previous state stays current until the next signal.
func watch[T any](ctx context.Context, topic string, l feed.Listener, load func(context.Context) (T, error), onChange func(T)) *Subscription {
	sub, ctx := newSubscription(ctx)

	deliver := func() {
		v, err := load(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("[Subscription] %v", &SubscriptionError{Topic: topic, Err: err})
			return
		}
		onChange(v)
	}

	go func() {
		defer close(sub.done)
		defer func() { _ = l.Close() }()

		deliver()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-l.C():
				if !ok {
					if ctx.Err() == nil {
						log.Printf("[Subscription] %v", &SubscriptionError{Topic: topic, Err: errFeedClosed})
					}
					return
				}
				deliver()
			}
		}
	}()

	return sub
}
