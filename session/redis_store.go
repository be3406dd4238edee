package session

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benz9527/xlist/lib/infra"
)

var _ Store = (*RedisStore)(nil)

const redisKeyPrefix = "xlist:session:"

// RedisStore keeps one hash per session. Every write refreshes the
// hash TTL, so an abandoned session expires on its own.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	owned  bool
}

type RedisStoreOption func(*RedisStore)

// WithRedisStoreTTL sets the idle expiry of a session, zero keeps it forever.
func WithRedisStoreTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore takes over a client created by the caller. The client
// is not closed by Close.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	return s
}

// DialRedisStore connects to addr and pings it.
func DialRedisStore(ctx context.Context, addr, password string, db int, opts ...RedisStoreOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, infra.WrapErrorStackWithMessage(err, "[session] redis ping "+addr)
	}
	s := NewRedisStore(client, opts...)
	s.owned = true
	return s, nil
}

func (s *RedisStore) hashKey(sid string) string {
	return redisKeyPrefix + sid
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.hashKey(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	} else if err != nil {
		return "", infra.WrapErrorStackWithMessage(err, "[session] redis hget "+key)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	hk := s.hashKey(sid)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hk, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, hk, s.ttl)
		}
		return nil
	})
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "[session] redis hset "+key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid, key string) error {
	if err := s.client.HDel(ctx, s.hashKey(sid), key).Err(); err != nil {
		return infra.WrapErrorStackWithMessage(err, "[session] redis hdel "+key)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context, sid, prefix string) ([]string, error) {
	all, err := s.client.HKeys(ctx, s.hashKey(sid)).Result()
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[session] redis hkeys")
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) Purge(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.hashKey(sid)).Err(); err != nil {
		return infra.WrapErrorStackWithMessage(err, "[session] redis del")
	}
	return nil
}

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
