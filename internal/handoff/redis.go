package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the hand-off queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Queue    string
}

// Pusher is the part of *redis.Client RedisSink uses.
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisSink pushes records as JSON onto a Redis list.
type RedisSink struct {
	client Pusher
	queue  string
}

// NewRedisSink connects to cfg.Addr.
func NewRedisSink(cfg RedisConfig) (*RedisSink, *redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil, fmt.Errorf("redis address is required")
	}
	if cfg.Queue == "" {
		return nil, nil, fmt.Errorf("redis queue is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisSinkWithClient(client, cfg.Queue), client, nil
}

// NewRedisSinkWithClient wraps an existing client.
func NewRedisSinkWithClient(client Pusher, queue string) *RedisSink {
	return &RedisSink{client: client, queue: queue}
}

func (s *RedisSink) Publish(ctx context.Context, job Job) error {
	if job.Time.IsZero() {
		job.Time = time.Now().UTC()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding hand-off record: %w", err)
	}
	if err := s.client.RPush(ctx, s.queue, data).Err(); err != nil {
		return fmt.Errorf("pushing hand-off record to %s: %w", s.queue, err)
	}
	return nil
}
