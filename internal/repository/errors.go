package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced document does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("record already exists")

	errFeedClosed = errors.New("change feed closed")
)

// SubscriptionError describes a live-feed delivery failure. The affected
// subscription keeps its last delivered state.
type SubscriptionError struct {
	Topic string
	Err   error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription %s: %v", e.Topic, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}
