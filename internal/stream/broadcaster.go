// Package stream publishes generation metrics to subscribers over Redis
// pub/sub, best-effort and non-blocking for the co-evolution loop.
package stream

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/logger"
)

// Broadcaster is a core.MetricsSink backed by Redis pub/sub. Publish never
// blocks the caller: when the internal queue is full, the oldest queued
// payload is dropped to make room for the newest, so a slow or absent
// subscriber never stalls the evolutionary loop.
type Broadcaster struct {
	client  *redis.Client
	channel string
	logger  *logger.Logger

	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewBroadcaster connects to Redis and starts the background publish loop.
// bufferSize bounds how many generations' worth of unpublished payloads are
// retained before the drop-oldest policy kicks in.
func NewBroadcaster(cfg config.RedisConfig, bufferSize int, log *logger.Logger) (*Broadcaster, error) {
	if bufferSize < 1 {
		bufferSize = 16
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	b := &Broadcaster{
		client:  client,
		channel: cfg.Channel,
		logger:  log,
		queue:   make(chan []byte, bufferSize),
		done:    make(chan struct{}),
	}

	b.wg.Add(1)
	go b.run()

	return b, nil
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case payload, ok := <-b.queue:
			if !ok {
				return
			}
			ctx := context.Background()
			if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
				b.logger.LogError(ctx, err, "stream.publish", "channel", b.channel)
			}
		case <-b.done:
			return
		}
	}
}

// Publish enqueues one generation's metrics payload for delivery, dropping
// the oldest queued payload if the buffer is already full.
func (b *Broadcaster) Publish(ctx context.Context, generation int, payload []byte) error {
	if !enqueueDropOldest(b.queue, payload) {
		b.logger.Warnw("dropped generation metrics payload, queue full", "generation", generation)
	}
	return nil
}

// enqueueDropOldest sends payload on queue, making room by discarding the
// oldest queued item if the buffer is full. Returns false if the queue was
// still full after eviction (a concurrent sender raced it), meaning payload
// itself was dropped instead.
func enqueueDropOldest(queue chan []byte, payload []byte) bool {
	select {
	case queue <- payload:
		return true
	default:
	}

	select {
	case <-queue:
	default:
	}

	select {
	case queue <- payload:
		return true
	default:
		return false
	}
}

// Close stops the publish loop and closes the Redis connection.
func (b *Broadcaster) Close() error {
	close(b.done)
	b.wg.Wait()
	return b.client.Close()
}
