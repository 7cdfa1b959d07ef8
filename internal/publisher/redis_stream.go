package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names consumed by the admin dashboard and the webhook dispatcher.
const (
	StreamReservations = "blueline.reservations"
	StreamFeedback     = "blueline.feedback"
	StreamEvents       = "blueline.events"
)

// RedisPublisher publishes operational records to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{
		client: client,
	}, nil
}

// NewRedisPublisherFromClient wraps an existing Redis client
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishReservation publishes a new or updated reservation to the stream
func (rp *RedisPublisher) PublishReservation(ctx context.Context, reservation interface{}) error {
	return rp.publish(ctx, StreamReservations, reservation)
}

// PublishFeedback publishes a new feedback entry to the stream
func (rp *RedisPublisher) PublishFeedback(ctx context.Context, feedback interface{}) error {
	return rp.publish(ctx, StreamFeedback, feedback)
}

// PublishEventCreated publishes a created calendar event to the stream
func (rp *RedisPublisher) PublishEventCreated(ctx context.Context, event interface{}) error {
	return rp.publish(ctx, StreamEvents, event)
}

func (rp *RedisPublisher) publish(ctx context.Context, stream string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
