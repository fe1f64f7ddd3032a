package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResultType is returned when a cached value does not match the
// type the caller asked for. It indicates two callers sharing a key with
// different types, which is a programming error rather than a cache miss.
var ErrInvalidResultType = errors.New("cache: result does not match requested type")

// FetchFn is the function signature CacheService expects when fetching from
// the source of truth on a miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the operations the record services need: read-through
// fetch for point and collection lookups, explicit population after creates,
// and exact-key eviction after writes.
type CacheService interface {
	// GetOrFetch returns the cached value for key, or runs fetchFn, stores
	// the result under key, and returns it. Errors from fetchFn propagate
	// and are never cached.
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)

	// Set stores value under key with the service's uniform TTL,
	// overwriting any previous entry.
	Set(ctx context.Context, key string, value any) error

	// Delete evicts the entry for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
}

// GetOrFetch is a type-safe wrapper over CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrInvalidResultType, key, result)
	}
	return typed, nil
}
