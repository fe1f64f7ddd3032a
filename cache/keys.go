package cache

import "strconv"

// KeySeparator delimits the namespace from the id in a cache key.
const KeySeparator = "::"

// Namespace partitions the key space by entity type and lookup shape.
type Namespace string

const (
	// NSAccounts holds point-lookup results for accounts, keyed by id.
	NSAccounts Namespace = "accounts"
	// NSCards holds point-lookup results for cards, keyed by id.
	NSCards Namespace = "cards"
	// NSCardsByOwner holds "all cards owned by account X" collections,
	// keyed by owner account id.
	NSCardsByOwner Namespace = "cards_by_owner"
)

// Key builds the cache key for an id within a namespace. Keys are stable
// across processes and restarts: they contain nothing but the namespace and
// the decimal id, so they work unchanged against an external key-value
// store.
func Key(ns Namespace, id int64) string {
	return string(ns) + KeySeparator + strconv.FormatInt(id, 10)
}
