package dedupe

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNop(t *testing.T) {
	var n Nop
	assert.True(t, n.Claim(context.Background(), "e1"))
	assert.True(t, n.Claim(context.Background(), "e1"))
	assert.NotPanics(t, func() { n.Release(context.Background(), "e1") })
}

func TestRedis_UnreachableLetsEventThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedisWithClient(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer r.Close()

	ctx := context.Background()
	assert.True(t, r.Claim(ctx, "e1"))
	assert.True(t, r.Claim(ctx, "e1"))
	assert.NotPanics(t, func() { r.Release(ctx, "e1") })
}

func TestNewRedis_RejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-url", time.Minute, slog.Default())
	assert.Error(t, err)
}
