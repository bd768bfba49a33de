// Package sequence provides a Redis-backed alternative to the MongoDB
// counters for allocating yearly record numbers.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ukydev/fleet-crm/internal/models"
)

// YearCounter reports the last number of a kind already issued in a year.
// It seeds a counter that does not exist yet.
type YearCounter interface {
	LastIssued(ctx context.Context, kind models.SequenceKind, year int) (int64, error)
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client and checks the connection.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisSequencer allocates numbers with INCR, which is atomic across every
// process sharing the Redis instance.
type RedisSequencer struct {
	client  redis.Cmdable
	counter YearCounter
	prefix  string
}

// NewRedisSequencer creates a sequencer. counter seeds missing keys.
func NewRedisSequencer(client redis.Cmdable, counter YearCounter) *RedisSequencer {
	return &RedisSequencer{client: client, counter: counter, prefix: "seq"}
}

// Key returns the Redis key holding the counter of kind in year.
func (s *RedisSequencer) Key(kind models.SequenceKind, year int) string {
	return fmt.Sprintf("%s:%s:%d", s.prefix, kind, year)
}

// Next returns the next number of kind in year.
func (s *RedisSequencer) Next(ctx context.Context, kind models.SequenceKind, year int) (int64, error) {
	key := s.Key(kind, year)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("check counter %s: %w", key, err)
	}
	if n == 0 {
		if err := s.seed(ctx, key, kind, year); err != nil {
			return 0, err
		}
	}
	v, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key, err)
	}
	return v, nil
}

// seed stores the last issued number unless another process got there
// first.
func (s *RedisSequencer) seed(ctx context.Context, key string, kind models.SequenceKind, year int) error {
	start, err := s.counter.LastIssued(ctx, kind, year)
	if err != nil {
		return err
	}
	if err := s.client.SetNX(ctx, key, start, 0).Err(); err != nil {
		return fmt.Errorf("seed counter %s: %w", key, err)
	}
	return nil
}
