// Package cache defines the caching surface the record services depend on.
//
// # Overview
//
// The package exports the CacheService interface plus the namespaced key
// scheme used throughout the module:
//
//   - CacheService: read-through fetch, explicit population, and eviction
//   - Namespace / Key: stable cache keys of the form "<namespace>::<id>"
//
// Three namespaces exist. NSAccounts and NSCards hold point-lookup results
// keyed by entity id; NSCardsByOwner holds the materialized "all cards owned
// by account X" collection keyed by owner id. List/scan results are never
// cached: the combination of free-text filters, page, size, and sort key
// produces too many distinct entries for a TTL cache to earn its keep, so
// those queries always go to the store.
//
// # Consistency rules
//
// Writers evict (or overwrite) the exact keys their write made stale before
// the operation returns, which gives the writer read-your-writes on point
// lookups. Other readers may observe a collection entry up to one TTL old.
// Null values are never cached; a miss is represented by absence so that a
// cached negative lookup can never mask a concurrent create.
//
// # Basic usage
//
//	rec, err := cache.GetOrFetch(ctx, svc, cache.Key(cache.NSAccounts, id),
//		func(ctx context.Context) (model.AccountRecord, error) {
//			return loadFromStore(ctx, id)
//		})
//
// The default implementation lives in internal/cacheinfra and is backed by
// sturdyc. Alternate backends only need to satisfy CacheService; the key
// scheme is backend-agnostic.
package cache
