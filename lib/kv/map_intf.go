package kv

type SafeStoreKeyFilterFunc[K comparable] func(key K) bool

func defaultAllKeysFilter[K comparable](key K) bool {
	return true
}

// ThreadSafeStorer is a map guarded by a RWMutex.
// Session state is small and scoped to one user, so a single lock is enough.
type ThreadSafeStorer[K comparable, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V) error
	// GetOrAdd returns the item of key, or stores and returns newFn()
	// under the same lock if there is none.
	GetOrAdd(key K, newFn func() V) (item V, loaded bool, err error)
	Replace(items map[K]V) error
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	Len() int
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
	// Snapshot returns a shallow copy of all items.
	Snapshot() map[K]V
}
