// Package feed carries change notifications between writers and live
// subscriptions. A notification only says that a topic changed; listeners
// reload the materialized state themselves, so signals can be coalesced.
package feed

import "context"

// RecipesTopic is signalled on every write to the receitas collection.
const RecipesTopic = "receitas"

// FavoritesTopic is signalled on every favorite write for one user.
func FavoritesTopic(userID string) string {
	return "favorites:" + userID
}

// Notifier publishes and subscribes to topic change signals.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string) (Listener, error)
}

// Listener receives change signals for one topic. C is closed when the
// listener is closed or the underlying transport goes away.
type Listener interface {
	C() <-chan struct{}
	Close() error
}

// signal performs a non-blocking send; a pending signal already covers the
// new change.
func signal(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}
