package lock_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a throwaway redis container and returns a client for it.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, mappedPort.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLocker(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	t.Run("exclusive per key", func(t *testing.T) {
		l := lock.NewRedisLocker(client, lock.RedisOptions{Prefix: "test:excl:"})

		var inside, overlaps atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := l.Lock(ctx, lock.Key("user", "1"))
				require.NoError(t, err)
				if inside.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(2 * time.Millisecond)
				inside.Add(-1)
				unlock()
			}()
		}
		wg.Wait()
		require.Zero(t, overlaps.Load())

		n, err := client.Exists(ctx, "test:excl:user:1").Result()
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("times out while held", func(t *testing.T) {
		l := lock.NewRedisLocker(client, lock.RedisOptions{Prefix: "test:timeout:"})
		unlock, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		defer unlock()

		tctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_, err = l.Lock(tctx, "k")
		require.ErrorIs(t, err, lock.ErrLockTimeout)
	})

	t.Run("expired lock is not released by its old holder", func(t *testing.T) {
		l := lock.NewRedisLocker(client, lock.RedisOptions{Prefix: "test:ttl:", TTL: 50 * time.Millisecond})
		stale, err := l.Lock(ctx, "k")
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		fresh, err := l.Lock(ctx, "k")
		require.NoError(t, err)

		stale()
		n, err := client.Exists(ctx, "test:ttl:k").Result()
		require.NoError(t, err)
		require.Equal(t, int64(1), n, "stale unlock must not remove the new holder's key")
		fresh()
	})

	t.Run("release failure goes to the request logger", func(t *testing.T) {
		own := redis.NewClient(&redis.Options{Addr: client.Options().Addr})
		l := lock.NewRedisLocker(own, lock.RedisOptions{Prefix: "test:log:"})

		var buf bytes.Buffer
		lctx := slogx.WithContext(ctx, slog.New(slog.NewJSONHandler(&buf, nil)))
		unlock, err := l.Lock(lctx, "k")
		require.NoError(t, err)

		require.NoError(t, own.Close())
		unlock()
		require.Contains(t, buf.String(), "failed to release redis lock")
		require.Contains(t, buf.String(), `"lock_key":"k"`)
	})
}
