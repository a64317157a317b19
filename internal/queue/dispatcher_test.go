package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestDispatchFileJob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dispatcher := NewRedisDispatcher(client)

	err := dispatcher.DispatchFileJob(context.Background(), 1, 99)
	require.NoError(t, err)

	msgs, err := client.XRange(context.Background(), FileQueue, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1, "Exactly one job per dispatch")
	require.Equal(t, "1", msgs[0].Values["userId"])
	require.Equal(t, "99", msgs[0].Values["fileId"])
}

func TestDispatchUserJob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dispatcher := NewRedisDispatcher(client)

	err := dispatcher.DispatchUserJob(context.Background(), 12)
	require.NoError(t, err)

	msgs, err := client.XRange(context.Background(), UserQueue, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "12", msgs[0].Values["userId"])

	// Kolejka plików zostaje pusta
	count, err := client.XLen(context.Background(), FileQueue).Result()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDispatchQueueDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dispatcher := NewRedisDispatcher(client)

	mr.Close()

	// Błąd trafia do wołającego (tam jest tylko logowany)
	err := dispatcher.DispatchFileJob(context.Background(), 1, 2)
	require.Error(t, err)
}
