package session

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/benz9527/xlist/lib/kv"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore lives as long as the process, which is the lifetime of
// a REPL session.
type MemoryStore struct {
	sessions kv.ThreadSafeStorer[string, kv.ThreadSafeStorer[string, string]]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: kv.NewThreadSafeMap[string, kv.ThreadSafeStorer[string, string]](
			kv.WithThreadSafeMapInitCap[string, kv.ThreadSafeStorer[string, string]](4),
		),
	}
}

func (s *MemoryStore) bucket(sid string, create bool) (kv.ThreadSafeStorer[string, string], error) {
	if b, ok := s.sessions.Get(sid); ok {
		return b, nil
	}
	if !create {
		return nil, nil
	}
	b, _, err := s.sessions.GetOrAdd(sid, func() kv.ThreadSafeStorer[string, string] {
		return kv.NewThreadSafeMap[string, string]()
	})
	return b, err
}

func (s *MemoryStore) Get(ctx context.Context, sid, key string) (string, error) {
	b, err := s.bucket(sid, false)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", ErrKeyNotFound
	}
	v, ok := b.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(ctx context.Context, sid, key, value string) error {
	b, err := s.bucket(sid, true)
	if err != nil {
		return err
	}
	return b.AddOrUpdate(key, value)
}

func (s *MemoryStore) Delete(ctx context.Context, sid, key string) error {
	b, err := s.bucket(sid, false)
	if err != nil || b == nil {
		return err
	}
	if _, err = b.Delete(key); err != nil && !errors.Is(err, kv.ErrThreadSafeMapNotFound) {
		return err
	}
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context, sid, prefix string) ([]string, error) {
	b, err := s.bucket(sid, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return []string{}, nil
	}
	keys := b.ListKeys(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Purge(ctx context.Context, sid string) error {
	if _, err := s.sessions.Delete(sid); err != nil && !errors.Is(err, kv.ErrThreadSafeMapNotFound) {
		return err
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return s.sessions.Purge()
}
