// Package dedupe remembers which change events were already handled so a
// redelivered event does not notify twice.
package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notifier:event:"

// Redis keeps one key per handled event id with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis connects to url (redis://...) and verifies it with a PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisWithClient(client, ttl, logger), nil
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Claim records eventID as taken and reports whether this call took it.
// The key is set with SETNX, so of two concurrent deliveries only one
// claims. Redis errors count as claimed by the caller.
func (r *Redis) Claim(ctx context.Context, eventID string) bool {
	ok, err := r.client.SetNX(ctx, keyPrefix+eventID, "1", r.ttl).Result()
	if err != nil {
		r.logger.Warn("Dedupe claim failed", "event_id", eventID, "error", err)
		return true
	}
	return ok
}

// Release drops a claim for an event that was not handled.
func (r *Redis) Release(ctx context.Context, eventID string) {
	if err := r.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		r.logger.Warn("Dedupe release failed", "event_id", eventID, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop lets every delivery through.
type Nop struct{}

func (Nop) Claim(context.Context, string) bool { return true }
func (Nop) Release(context.Context, string)    {}
