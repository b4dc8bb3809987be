package storage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a port nothing listens on.
func unreachableRedis(t *testing.T) *RedisStorage {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStorage(client, DefaultRedisPrefix)
}

func TestRedisStorage_KeysAreNamespaced(t *testing.T) {
	r := NewRedisStorage(nil, "wallet:")
	require.Equal(t, "wallet:ticketDetails", r.key("ticketDetails"))
}

func TestRedisStorage_ErrorsWrapped(t *testing.T) {
	r := unreachableRedis(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "users")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get users")

	err = r.Set(ctx, "users", []byte("[]"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set users")

	err = r.Remove(ctx, "users")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to remove users")

	err = r.SetMany(ctx, map[string][]byte{"users": []byte("[]")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set batch")
}

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not-a-url")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid redis url")
}
