// Package service implements the record services for accounts and payment
// cards. Each operation composes the same four concerns in a fixed order:
// input validation, row-level authorization, the storage operation, and the
// cache bookkeeping that keeps point lookups read-your-writes consistent.
//
// Cache discipline:
//
//   - Point lookups and the per-owner card collection are read-through.
//   - Creates populate the point cache before returning; a failed populate
//     is logged and swallowed, since the next lookup simply fetches.
//   - Writes evict the exact keys they invalidate before returning; a
//     failed eviction propagates, because returning success would leave a
//     stale entry visible for up to a full TTL.
//   - List results are never cached.
package service
