package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "s1", "score")
	require.ErrorIs(t, err, ErrKeyNotFound)
	keys, err := store.Keys(ctx, "s1", "")
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, store.Set(ctx, "s1", "score", "10"))
	require.NoError(t, store.Set(ctx, "s1", "progress.insert-end", "1"))
	require.NoError(t, store.Set(ctx, "s1", "progress.delete", "1"))
	require.NoError(t, store.Set(ctx, "s2", "score", "99"))

	v, err := store.Get(ctx, "s1", "score")
	require.NoError(t, err)
	require.Equal(t, "10", v)
	require.NoError(t, store.Set(ctx, "s1", "score", "11"))
	v, err = store.Get(ctx, "s1", "score")
	require.NoError(t, err)
	require.Equal(t, "11", v)

	keys, err = store.Keys(ctx, "s1", "progress.")
	require.NoError(t, err)
	require.Equal(t, []string{"progress.delete", "progress.insert-end"}, keys)

	require.NoError(t, store.Delete(ctx, "s1", "progress.delete"))
	require.NoError(t, store.Delete(ctx, "s1", "progress.delete"))
	require.NoError(t, store.Delete(ctx, "nobody", "x"))
	keys, err = store.Keys(ctx, "s1", "progress.")
	require.NoError(t, err)
	require.Equal(t, []string{"progress.insert-end"}, keys)

	require.NoError(t, store.Purge(ctx, "s1"))
	require.NoError(t, store.Purge(ctx, "s1"))
	_, err = store.Get(ctx, "s1", "score")
	require.ErrorIs(t, err, ErrKeyNotFound)
	v, err = store.Get(ctx, "s2", "score")
	require.NoError(t, err)
	require.Equal(t, "99", v)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testStoreContract(t, store)
	require.NoError(t, store.Close())
	require.Error(t, store.Set(context.Background(), "s3", "k", "v"))
}

func TestMemoryStore_ConcurrentNewSession(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 20; round++ {
		store := NewMemoryStore()
		sid := "s" + strconv.Itoa(round)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = store.Set(ctx, sid, "note."+strconv.Itoa(i), "x")
			}(i)
		}
		wg.Wait()
		keys, err := store.Keys(ctx, sid, "note.")
		require.NoError(t, err)
		require.Len(t, keys, 16)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedisStore(client, WithRedisStoreTTL(time.Minute))
	testStoreContract(t, store)
	require.NoError(t, store.Close())
	// The client belongs to the caller.
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	store, err := DialRedisStore(ctx, mr.Addr(), "", 0, WithRedisStoreTTL(30*time.Second))
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	require.NoError(t, store.Set(ctx, "s1", "score", "1"))
	require.Equal(t, 30*time.Second, mr.TTL(redisKeyPrefix+"s1"))
	require.Equal(t, "1", mr.HGet(redisKeyPrefix+"s1", "score"))

	mr.FastForward(31 * time.Second)
	_, err = store.Get(ctx, "s1", "score")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDialRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := DialRedisStore(ctx, addr, "", 0)
	require.Error(t, err)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	require.Equal(t, MemoryBackend, b)
	b, err = ParseBackend("redis")
	require.NoError(t, err)
	require.Equal(t, RedisBackend, b)
	_, err = ParseBackend("etcd")
	require.ErrorIs(t, err, ErrUnknownBackend)
}
