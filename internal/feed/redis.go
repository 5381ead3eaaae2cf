package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier fans change signals out through Redis pub/sub so every API
// instance sharing the store sees the same changes.
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier creates a notifier publishing on "<prefix>:<topic>" channels
func NewRedisNotifier(client *redis.Client, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = "changes"
	}
	return &RedisNotifier{client: client, prefix: prefix}
}

func (n *RedisNotifier) channel(topic string) string {
	return fmt.Sprintf("%s:%s", n.prefix, topic)
}

// Publish sends a change signal for topic
func (n *RedisNotifier) Publish(ctx context.Context, topic string) error {
	if err := n.client.Publish(ctx, n.channel(topic), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish change for %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a pub/sub subscription and waits for Redis to confirm it,
// so a write issued right after Subscribe returns is never missed.
func (n *RedisNotifier) Subscribe(ctx context.Context, topic string) (Listener, error) {
	ps := n.client.Subscribe(ctx, n.channel(topic))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	l := &redisListener{ps: ps, c: make(chan struct{}, 1)}
	go l.forward(ps.Channel())
	return l, nil
}

type redisListener struct {
	ps   *redis.PubSub
	c    chan struct{}
	once sync.Once
	err  error
}

func (l *redisListener) forward(msgs <-chan *redis.Message) {
	defer close(l.c)
	for range msgs {
		signal(l.c)
	}
}

func (l *redisListener) C() <-chan struct{} {
	return l.c
}

func (l *redisListener) Close() error {
	l.once.Do(func() {
		l.err = l.ps.Close()
	})
	return l.err
}
