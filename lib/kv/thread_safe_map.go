package kv

import (
	"io"
	"sync"

	"go.uber.org/multierr"

	"github.com/benz9527/xlist/lib/infra"
)

const (
	ErrThreadSafeMapPurged   kvErr = "[thread-safe-map] purged"
	ErrThreadSafeMapNotFound kvErr = "[thread-safe-map] key not found"
)

type kvErr string

func (err kvErr) Error() string { return string(err) }

type threadSafeMap[K comparable, V any] struct {
	lock           sync.RWMutex
	items          map[K]V
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.items == nil {
		return ErrThreadSafeMapPurged
	}
	t.items[key] = obj
	return nil
}

func (t *threadSafeMap[K, V]) GetOrAdd(key K, newFn func() V) (item V, loaded bool, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.items == nil {
		return item, false, ErrThreadSafeMapPurged
	}
	if item, loaded = t.items[key]; loaded {
		return item, true, nil
	}
	item = newFn()
	t.items[key] = item
	return item, false, nil
}

func (t *threadSafeMap[K, V]) Replace(items map[K]V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if items == nil {
		items = make(map[K]V)
	}
	t.items = items
	return nil
}

func (t *threadSafeMap[K, V]) Delete(key K) (V, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	item, exists := t.items[key]
	if !exists {
		return item, ErrThreadSafeMapNotFound
	}
	delete(t.items, key)
	return item, nil
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	item, exists = t.items[key]
	return
}

func (t *threadSafeMap[K, V]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.items)
}

func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := make([]SafeStoreKeyFilterFunc[K], 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			realFilters = append(realFilters, filter)
		}
	}
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, len(t.items))
	for key := range t.items {
		for _, filter := range realFilters {
			if filter(key) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		values := make([]V, 0, len(t.items))
		for _, item := range t.items {
			values = append(values, item)
		}
		return values
	}
	values := make([]V, 0, len(keys))
	for _, key := range keys {
		if item, ok := t.items[key]; ok {
			values = append(values, item)
		}
	}
	return values
}

func (t *threadSafeMap[K, V]) Snapshot() map[K]V {
	t.lock.RLock()
	defer t.lock.RUnlock()
	copied := make(map[K]V, len(t.items))
	for k, v := range t.items {
		copied[k] = v
	}
	return copied
}

// Purge drops every item. Items implementing io.Closer are closed
// and their close errors are merged into the returned error.
func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		for _, item := range t.items {
			if c, ok := any(item).(io.Closer); ok && c != nil {
				merr = multierr.Append(merr, c.Close())
			}
		}
	}
	t.items = nil
	if merr != nil {
		return infra.WrapErrorStackWithMessage(merr, "[thread-safe-map] purge closable items")
	}
	return nil
}

type threadSafeMapOptions struct {
	initCap        uint32
	closeableCheck bool
}

type ThreadSafeMapOption[K comparable, V any] func(opts *threadSafeMapOptions)

func WithThreadSafeMapInitCap[K comparable, V any](capacity uint32) ThreadSafeMapOption[K, V] {
	return func(opts *threadSafeMapOptions) {
		opts.initCap = capacity
	}
}

func WithThreadSafeMapCloseableItemCheck[K comparable, V any]() ThreadSafeMapOption[K, V] {
	return func(opts *threadSafeMapOptions) {
		opts.closeableCheck = true
	}
}

func NewThreadSafeMap[K comparable, V any](opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	o := &threadSafeMapOptions{initCap: 32}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &threadSafeMap[K, V]{
		items:          make(map[K]V, o.initCap),
		isClosableItem: o.closeableCheck,
	}
}
