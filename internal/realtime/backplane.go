package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// backplaneChannel is the Redis pub/sub channel all processes share
const backplaneChannel = "homehub:realtime"

// backplaneEnvelope wraps a room message for transit through Redis
type backplaneEnvelope struct {
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// Backplane fans broadcasts out across processes through Redis pub/sub.
// Every process publishes to one shared channel and re-delivers whatever
// arrives to its own local rooms, the publishing process included.
type Backplane struct {
	client *redis.Client
	hub    *Hub
	cancel context.CancelFunc
}

// NewBackplane connects to Redis and verifies the connection
func NewBackplane(redisURL string) (*Backplane, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Backplane{client: client}, nil
}

// Publish sends a room message through Redis
func (b *Backplane) Publish(room string, payload []byte) error {
	envelope, err := json.Marshal(backplaneEnvelope{Room: room, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal backplane envelope: %w", err)
	}
	if err := b.client.Publish(context.Background(), backplaneChannel, envelope).Err(); err != nil {
		return fmt.Errorf("failed to publish to backplane: %w", err)
	}
	return nil
}

// Start subscribes to the shared channel and re-delivers incoming messages
// to the hub's local rooms
func (b *Backplane) Start(hub *Hub) {
	b.hub = hub

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	sub := b.client.Subscribe(ctx, backplaneChannel)
	go func() {
		defer sub.Close()
		for msg := range sub.Channel() {
			var envelope backplaneEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Printf("realtime: bad backplane envelope: %v", err)
				continue
			}
			b.hub.enqueue(Message{Room: envelope.Room, Payload: envelope.Payload})
		}
	}()
}

// Close stops the subscription and releases the Redis connection
func (b *Backplane) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	return b.client.Close()
}
