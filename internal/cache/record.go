package cache

import (
	"context"
	"time"
)

// Record binds one key of a Cache to a value type so a store can persist and
// restore its state without knowing the key layout.
type Record[T any] struct {
	cache Cache
	key   string
	ttl   time.Duration
}

func NewRecord[T any](c Cache, key string, ttl time.Duration) *Record[T] {
	return &Record[T]{cache: c, key: key, ttl: ttl}
}

func (r *Record[T]) Key() string {
	return r.key
}

// Load returns the stored value, or the zero value and false when nothing is stored.
func (r *Record[T]) Load(ctx context.Context) (T, bool, error) {
	var value T

	found, err := r.cache.Get(ctx, r.key, &value)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}

	return value, true, nil
}

func (r *Record[T]) Save(ctx context.Context, value T) error {
	return r.cache.Set(ctx, r.key, value, r.ttl)
}

func (r *Record[T]) Clear(ctx context.Context) error {
	return r.cache.Delete(ctx, r.key)
}
