package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"player-auction/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher relays events over Redis Pub/Sub so other processes can
// forward them to their own observers
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and verifies the connection
func NewRedisPublisher(addr, password string, db int) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisPublisher{client: rdb}, nil
}

// RedisChannel is the Pub/Sub channel an event is published on
func RedisChannel(name models.EventName) string {
	return fmt.Sprintf("auction_events:%s", name)
}

// Publish sends the JSON encoded event on its channel
func (p *RedisPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, RedisChannel(event.Name), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
