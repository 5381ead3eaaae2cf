package feed

import (
	"context"
	"sync"
)

// MemoryNotifier delivers signals inside one process.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[string]map[*memoryListener]struct{}
}

// NewMemoryNotifier creates an empty in-process notifier
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[*memoryListener]struct{})}
}

// Publish signals every listener of topic
func (n *MemoryNotifier) Publish(_ context.Context, topic string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for l := range n.subs[topic] {
		signal(l.c)
	}
	return nil
}

// Subscribe registers a new listener for topic
func (n *MemoryNotifier) Subscribe(_ context.Context, topic string) (Listener, error) {
	l := &memoryListener{n: n, topic: topic, c: make(chan struct{}, 1)}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[*memoryListener]struct{})
	}
	n.subs[topic][l] = struct{}{}
	return l, nil
}

// Listeners returns how many listeners are registered for topic.
func (n *MemoryNotifier) Listeners(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[topic])
}

type memoryListener struct {
	n      *MemoryNotifier
	topic  string
	c      chan struct{}
	closed bool
}

func (l *memoryListener) C() <-chan struct{} {
	return l.c
}

func (l *memoryListener) Close() error {
	l.n.mu.Lock()
	defer l.n.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	delete(l.n.subs[l.topic], l)
	if len(l.n.subs[l.topic]) == 0 {
		delete(l.n.subs, l.topic)
	}
	close(l.c)
	return nil
}
