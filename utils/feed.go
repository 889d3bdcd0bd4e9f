package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTaskFeed announces task changes per owner over Redis pub/sub. Every
// server instance sharing the Redis sees every change.
type RedisTaskFeed struct {
	Client *redis.Client
}

func taskChannel(owner uuid.UUID) string {
	return "tasks:" + owner.String()
}

func (f *RedisTaskFeed) Publish(ctx context.Context, owner uuid.UUID) error {
	return f.Client.Publish(ctx, taskChannel(owner), "changed").Err()
}

// Subscribe returns a tick channel that closes when stop is called or the
// connection drops.
func (f *RedisTaskFeed) Subscribe(ctx context.Context, owner uuid.UUID) (<-chan struct{}, func(), error) {
	pubsub := f.Client.Subscribe(ctx, taskChannel(owner))

	// wait for the subscription to be confirmed so no publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", taskChannel(owner), err)
	}

	msgs := pubsub.Channel()
	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		for range msgs {
			select {
			case ticks <- struct{}{}:
			default:
				// a refresh is already pending
			}
		}
	}()

	stop := func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("close subscription %s: %v", taskChannel(owner), err)
		}
	}
	return ticks, stop, nil
}
