package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// latest is a one-slot mailbox that keeps only the newest value. Each
// delivery is a full state, so dropping an unread older one loses nothing.
type latest[T any] struct {
	c chan T
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{c: make(chan T, 1)}
}

// put must only be called from one goroutine at a time.
func (l *latest[T]) put(v T) {
	select {
	case <-l.c:
	default:
	}
	l.c <- v
}

// streamEvents writes each value from updates as a server-sent event until
// the client goes away or the feed ends.
func streamEvents[T any](c *gin.Context, event string, updates <-chan T, done <-chan struct{}) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case v := <-updates:
			c.SSEvent(event, v)
			c.Writer.Flush()
		}
	}
}
